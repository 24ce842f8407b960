package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"slip/interpreter-go/pkg/interpreter"
	"slip/interpreter-go/pkg/lexer"
	"slip/interpreter-go/pkg/parser"
	"slip/interpreter-go/pkg/runtime"
)

const replPrompt = "slip> "

// runREPL reads one line at a time, evaluating each against a single root
// environment that lives for the whole session. Errors are reported and the
// loop continues.
func runREPL() int {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	historyPath := ""
	if home, err := resolveSlipHome(); err == nil {
		historyPath = filepath.Join(home, "history")
		if f, err := os.Open(historyPath); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
	}

	fmt.Fprintf(os.Stdout, "%s (ctrl-d to exit)\n", cliToolVersion)
	interp := interpreter.New()
	for {
		input, err := line.Prompt(replPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				fmt.Fprintln(os.Stdout)
				continue
			}
			if err != io.EOF {
				fmt.Fprintf(os.Stderr, "read error: %v\n", err)
			}
			break
		}
		if strings.TrimSpace(input) == "" {
			continue
		}
		line.AppendHistory(input)

		result, err := evalLine(interp, input)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			continue
		}
		fmt.Fprintln(os.Stdout, runtime.Render(result))
	}

	if historyPath != "" {
		if err := os.MkdirAll(filepath.Dir(historyPath), 0o755); err == nil {
			if f, err := os.Create(historyPath); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}
	}
	fmt.Fprintln(os.Stdout)
	return 0
}

// evalLine evaluates one line of input against the session interpreter, so
// definitions persist between lines.
func evalLine(interp *interpreter.Interpreter, input string) (runtime.Value, error) {
	tokens, err := lexer.Tokenize(input)
	if err != nil {
		return nil, err
	}
	nodes, err := parser.Parse(tokens)
	if err != nil {
		return nil, err
	}
	return interp.EvaluateSequence(interpreter.FromNodes(nodes), interp.GlobalEnvironment())
}
