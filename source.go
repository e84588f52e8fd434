// source.go: the line-indexed source container shared by the lexer, the
// diagnostics, and the REPL. Text is appended a chunk at a time (the REPL adds
// one input per prompt); tabs are expanded to four spaces so caret positions
// line up with the rendered line.
package basilisp

import (
	"os"
	"strings"
)

type Source struct {
	lines []string
}

func NewSource() *Source {
	return &Source{}
}

// SourceFromFile loads a whole file as one source.
func SourceFromFile(path string) (*Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s := NewSource()
	s.Add(string(data))
	return s, nil
}

// Add appends text to the source and returns the 0-based index of the first
// line added. The text is split on newlines; a trailing newline does not
// produce an empty final line.
func (s *Source) Add(text string) int {
	start := len(s.lines)
	text = strings.ReplaceAll(text, "\t", "    ")
	text = strings.TrimSuffix(text, "\n")
	s.lines = append(s.lines, strings.Split(text, "\n")...)
	return start
}

// Line returns the 0-based line i, or "" when out of range.
func (s *Source) Line(i int) string {
	if i < 0 || i >= len(s.lines) {
		return ""
	}
	return s.lines[i]
}

func (s *Source) NumLines() int {
	return len(s.lines)
}
