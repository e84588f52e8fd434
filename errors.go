// errors.go: phase-tagged diagnostics with caret-snippet rendering.
//
// Errors never unwind out of the evaluator; they accumulate in an ErrorLog as
// values and producers return an absent Meta or a nil Node after reporting.
// The log supports nested frames for speculative evaluation: Catch pushes a
// fresh frame, Release pops it and promotes its errors to the enclosing frame,
// Discard pops it silently. Within a frame, an error whose message text is
// identical to one already recorded is suppressed, whatever its position.
package basilisp

import (
	"fmt"
	"io"
	"strings"
)

// Phase identifies the pipeline stage an error was produced by.
type Phase int

const (
	PhaseToken Phase = iota
	PhaseParse
	PhaseType
)

func (p Phase) String() string {
	switch p {
	case PhaseToken:
		return "TOKEN"
	case PhaseParse:
		return "PARSE"
	case PhaseType:
		return "TYPE"
	}
	return "UNKNOWN"
}

// CompileError is a single diagnostic attached to a source span.
// Line and Column are 1-based.
type CompileError struct {
	Phase  Phase
	Line   int
	Column int
	Msg    string
	Src    *Source
}

// Render produces the user-facing form: a [PHASE ERROR] header with the
// message, the offending source line, and a caret under the column.
func (e *CompileError) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s ERROR] %s\n", e.Phase, e.Msg)
	if e.Src != nil && e.Line >= 1 {
		line := e.Src.Line(e.Line - 1)
		fmt.Fprintf(&b, "    %s\n", line)
		pad := e.Column - 1
		if pad < 0 {
			pad = 0
		}
		fmt.Fprintf(&b, "    %s^\n", strings.Repeat(" ", pad))
	}
	return b.String()
}

type errorFrame struct {
	errs []*CompileError
	seen map[string]bool
}

// ErrorLog collects diagnostics for one Interp. The bottom frame is the root
// list; speculative work pushes frames on top of it.
type ErrorLog struct {
	frames []errorFrame
	src    *Source
}

func NewErrorLog() *ErrorLog {
	return &ErrorLog{frames: []errorFrame{{seen: map[string]bool{}}}}
}

// UseSource sets the source attached to subsequently reported errors.
func (el *ErrorLog) UseSource(src *Source) {
	el.src = src
}

func (el *ErrorLog) active() *errorFrame {
	return &el.frames[len(el.frames)-1]
}

// Reportf records an error in the active frame unless an identical message
// was already recorded there.
func (el *ErrorLog) Reportf(phase Phase, line, column int, format string, args ...any) {
	el.report(&CompileError{
		Phase:  phase,
		Line:   line,
		Column: column,
		Msg:    fmt.Sprintf(format, args...),
		Src:    el.src,
	})
}

func (el *ErrorLog) report(e *CompileError) {
	f := el.active()
	if f.seen[e.Msg] {
		return
	}
	f.seen[e.Msg] = true
	if e.Src == nil {
		e.Src = el.src
	}
	f.errs = append(f.errs, e)
}

// Catch pushes a fresh error frame for speculative evaluation.
func (el *ErrorLog) Catch() {
	el.frames = append(el.frames, errorFrame{seen: map[string]bool{}})
}

// Release pops the top frame and promotes its errors to the frame below.
func (el *ErrorLog) Release() {
	if len(el.frames) < 2 {
		return
	}
	errs := el.active().errs
	el.frames = el.frames[:len(el.frames)-1]
	for _, e := range errs {
		el.report(e)
	}
}

// Discard pops the top frame, dropping its errors.
func (el *ErrorLog) Discard() {
	if len(el.frames) < 2 {
		return
	}
	el.frames = el.frames[:len(el.frames)-1]
}

// Count reports the number of errors in the active frame.
func (el *ErrorLog) Count() int {
	return len(el.active().errs)
}

// Errors returns the active frame's errors.
func (el *ErrorLog) Errors() []*CompileError {
	return el.active().errs
}

// Print writes an error count header followed by every error in the active
// frame.
func (el *ErrorLog) Print(w io.Writer) {
	n := el.Count()
	plural := "s"
	if n == 1 {
		plural = ""
	}
	fmt.Fprintf(w, "%d error%s\n", n, plural)
	for _, e := range el.Errors() {
		io.WriteString(w, e.Render())
	}
}

// Clear drops every recorded error and any leftover frames. The REPL calls
// this after printing so a session can continue past bad input.
func (el *ErrorLog) Clear() {
	el.frames = []errorFrame{{seen: map[string]bool{}}}
}
