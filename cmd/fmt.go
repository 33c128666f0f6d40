// Copyright © 2026 The golisp authors

package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
	"github.com/golisp/golisp/parser/rdparser"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [flags] [files...]",
	Short: "Parse and re-render golisp source",
	Long: `Parse source and re-render it through the language's own print
convention: booleans as #t/#f, nil as nil, symbols as "symbol = <name>",
pairs as space-separated elements in parentheses, strings re-quoted.

This is a structural re-rendering, not a whitespace-preserving
formatter: comments and the source's original layout are discarded.
Because symbols and nil print in that form, the output does not parse
back to the same program, and re-running fmt on it changes it again.

With no files, reads from stdin and writes to stdout.
With files, prints to stdout unless -w is given.`,
	Args: cobra.MinimumNArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			out, err := renderSource(string(src))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			os.Stdout.WriteString(out) //nolint:errcheck // best-effort CLI output
			return
		}

		exitCode := 0
		for _, path := range args {
			src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				exitCode = 1
				continue
			}
			out, err := renderSource(string(src))
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
				exitCode = 1
				continue
			}
			if fmtWrite {
				info, err := os.Stat(path)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					exitCode = 1
					continue
				}
				if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
					fmt.Fprintln(os.Stderr, err)
					exitCode = 1
				}
				continue
			}
			os.Stdout.WriteString(out) //nolint:errcheck // best-effort CLI output
		}
		os.Exit(exitCode)
	},
}

// renderSource parses src into top-level forms and re-renders each on
// its own line via the same print convention display/print use.
func renderSource(src string) (string, error) {
	pool := lisp.NewPool(0)
	toks, err := lexer.New(lexer.NewStringSource(src)).Tokenize()
	if err != nil {
		return "", err
	}
	root, err := rdparser.New(pool, toks).ParseProgram()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	printer := lisp.ConsolePrinter(&buf)
	for form := root; form != nil; form = form.Tail {
		if err := printer(form.Head, true); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

func init() {
	rootCmd.AddCommand(fmtCmd)

	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false,
		"Write result to the source file instead of stdout.")
}
