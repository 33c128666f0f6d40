// Copyright © 2026 The golisp authors

// Package repl implements an interactive read-eval-print loop over a
// single, persistent interpreter session: each line is parsed and run
// against the same NodePool and EnvStack, so definitions and mutations
// from one line remain visible to the next.
package repl

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ergochat/readline"

	"github.com/golisp/golisp/diagnostic"
	"github.com/golisp/golisp/interpreter"
	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
)

type config struct {
	stdin  io.ReadCloser
	stderr io.WriteCloser
	budget int
}

// Option configures a Run invocation.
type Option func(*config)

// WithStdin overrides the REPL's input stream. The default is the
// terminal's stdin.
func WithStdin(stdin io.ReadCloser) Option {
	return func(c *config) { c.stdin = stdin }
}

// WithStderr overrides where the REPL writes prompts, results, and
// diagnostics. The default is os.Stderr.
func WithStderr(stderr io.WriteCloser) Option {
	return func(c *config) { c.stderr = stderr }
}

// WithNodeBudget caps the session's NodePool, per
// interpreter.WithNodeBudget.
func WithNodeBudget(budget int) Option {
	return func(c *config) { c.budget = budget }
}

// Run starts an interactive loop: prompt, read one line, evaluate it
// against a session-long Interpreter, print the result or diagnostic,
// repeat until EOF (Ctrl-D). An interrupt (Ctrl-C) abandons the current
// line and the loop goes on.
func Run(prompt string, opts ...Option) error {
	cfg := &config{stderr: os.Stderr}
	for _, opt := range opts {
		opt(cfg)
	}

	out := cfg.stderr
	in, err := interpreter.New(
		interpreter.WithPrint(lisp.ConsolePrinter(out)),
		interpreter.WithNodeBudget(cfg.budget),
	)
	if err != nil {
		return err
	}

	rlCfg := &readline.Config{
		Stdout:            out,
		Stderr:            out,
		Prompt:            prompt,
		HistoryFile:       historyPath(),
		HistorySearchFold: true,
	}
	if cfg.stdin != nil {
		rlCfg.Stdin = cfg.stdin
	}
	rl, err := readline.NewEx(rlCfg)
	if err != nil {
		return err
	}
	defer rl.Close() //nolint:errcheck // best-effort cleanup

	for {
		line, err := rl.ReadSlice()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			return nil
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		evalLine(in, string(line), out)
	}
}

// evalLine parses and runs one line against the session's Interpreter.
// A parse or eval failure is reported but does not end the session; the
// next line starts a fresh Parse against the same Pool and EnvStack.
func evalLine(in *interpreter.Interpreter, line string, out io.Writer) {
	if err := in.Parse(lexer.NewStringSource(line)); err != nil {
		fmt.Fprintln(out, diagnostic.Format(err, 0)) //nolint:errcheck // best-effort REPL output
		return
	}
	result, err := in.RunIncremental()
	if err != nil {
		fmt.Fprintln(out, diagnostic.Format(err, 0)) //nolint:errcheck // best-effort REPL output
		return
	}
	printer := lisp.ConsolePrinter(out)
	printer(result, true) //nolint:errcheck // best-effort REPL output
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".golisp_history")
}
