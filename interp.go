// interp.go: the public surface of the evaluator.
//
// An Interp owns exactly one of everything process-wide in this language:
// the Interner (type and symbol tables), the ErrorLog, the Source, and the
// root/global environment pair. Each piece of input flows through the same
// pipeline:
//
//	bytes → tokens → Terms → Nodes → Metas
//	         [lex]   [parse]  [Term.Eval]  [Node.Eval]
//
// Term.Eval elaborates surface syntax into a typed Node (running built-in
// macros that inspect quoted sub-terms) and Node.Eval evaluates the node to
// a Meta. Both passes run per top-level term, so a definition is visible to
// the elaboration of the next term.
//
// Errors do not unwind: every stage reports into the ErrorLog and returns an
// absent value, and EvalString stops after the first stage that reported.
// Hosts inspect ip.ErrorCount / ip.PrintErrors, and a REPL calls
// ip.ClearErrors to keep the session alive.
//
// The evaluator is single-threaded and synchronous; nothing here is safe for
// concurrent use.
package basilisp

import "io"

type Interp struct {
	in   *Interner
	errs *ErrorLog
	src  *Source

	// Root holds the built-in bindings; Global is the user-visible frame
	// whose parent is Root.
	Root   *Env
	Global *Env
}

func NewInterp() *Interp {
	ip := &Interp{
		in:   NewInterner(),
		errs: NewErrorLog(),
		src:  NewSource(),
	}
	ip.errs.UseSource(ip.src)
	ip.Root = newRootEnv(ip.in)
	ip.Global = NewEnv(ip.Root)
	return ip
}

func (ip *Interp) Interner() *Interner { return ip.in }
func (ip *Interp) Source() *Source     { return ip.src }
func (ip *Interp) Log() *ErrorLog      { return ip.errs }

func (ip *Interp) ErrorCount() int          { return ip.errs.Count() }
func (ip *Interp) Errors() []*CompileError  { return ip.errs.Errors() }
func (ip *Interp) PrintErrors(w io.Writer)  { ip.errs.Print(w) }
func (ip *Interp) ClearErrors()             { ip.errs.Clear() }

// EvalString appends text to the interpreter's source and runs it through the
// pipeline against the global environment. It returns the non-absent results
// of the top-level terms evaluated before any stage reported an error.
func (ip *Interp) EvalString(text string) []Meta {
	start := ip.src.Add(text)

	lexer := NewLexer(ip.src, ip.errs)
	lexer.SeekLine(start)
	toks := lexer.Tokens()
	if ip.errs.Count() > 0 {
		return nil
	}

	terms := ip.ParseAll(NewTokenView(toks))
	if ip.errs.Count() > 0 {
		return nil
	}

	var results []Meta
	for _, term := range terms {
		node := term.Eval(ip, ip.Global)
		if ip.errs.Count() > 0 {
			return results
		}
		if node == nil {
			continue
		}
		m := node.Eval(ip, ip.Global)
		if ip.errs.Count() > 0 {
			return results
		}
		if m.OK() {
			results = append(results, m)
		}
	}
	return results
}
