// Command basilisp runs the interpreter: with no arguments it starts an
// interactive REPL, with one argument it evaluates a source file and exits
// non-zero if any errors were reported.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	basilisp "github.com/elucent/basilisp"
)

const (
	appName     = "basilisp"
	historyFile = ".basilisp_history"
	promptMain  = "? "
	promptCont  = "  "
)

func red(s string) string   { return "\x1b[31m" + s + "\x1b[0m" }
func green(s string) string { return "\x1b[32m" + s + "\x1b[0m" }
func blue(s string) string  { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	flag.Usage = usage
	flag.Parse()

	switch flag.NArg() {
	case 0:
		os.Exit(repl())
	case 1:
		os.Exit(runFile(flag.Arg(0)))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage:
  %s            Start the REPL.
  %s <file>     Evaluate a source file.
`, appName, appName)
}

// balance reports open-minus-closed brackets in the input, skipping strings,
// chars, and comments. A positive balance means the REPL should keep reading.
func balance(text string) int {
	depth := 0
	var quote rune
	escaped := false
	comment := false
	for _, c := range text {
		switch {
		case comment:
			if c == '\n' {
				comment = false
			}
		case quote != 0:
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == quote || c == '\n' {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '#':
			comment = true
		case c == '(' || c == '[':
			depth++
		case c == ')' || c == ']':
			depth--
		}
	}
	return depth
}

func repl() int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Println("basilisp REPL")
	fmt.Println("Ctrl+C cancels input, Ctrl+D exits.")

	ip := basilisp.NewInterp()
	for {
		input, err := ln.Prompt(promptMain)
		if err == liner.ErrPromptAborted {
			continue
		}
		if err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}

		for balance(input) > 0 {
			more, err := ln.Prompt(promptCont)
			if err == liner.ErrPromptAborted {
				input = ""
				break
			}
			if err != nil {
				break
			}
			input += "\n" + more
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		ln.AppendHistory(input)

		results := ip.EvalString(input)
		for _, m := range results {
			fmt.Printf("%s : %s\n",
				green(ip.Interner().FormatMeta(m)), blue(m.Type().String()))
		}
		if ip.ErrorCount() > 0 {
			var b strings.Builder
			ip.PrintErrors(&b)
			fmt.Print(red(b.String()))
			ip.ClearErrors()
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

func runFile(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, path, err)
		return 1
	}

	ip := basilisp.NewInterp()
	results := ip.EvalString(string(data))
	for _, m := range results {
		fmt.Printf("%s : %s\n", ip.Interner().FormatMeta(m), m.Type().String())
	}
	if ip.ErrorCount() > 0 {
		ip.PrintErrors(os.Stdout)
		return 1
	}
	return 0
}
