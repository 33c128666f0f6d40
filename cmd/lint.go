// Copyright © 2026 The golisp authors

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/golisp/golisp/lint"
)

var (
	lintChecks  string
	lintListAll bool
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [files...]",
	Short: "Run static checks on golisp source files without evaluating them",
	Long: `Run static checks on golisp source files.

The linter reports likely mistakes by examining the parsed AST; it
never evaluates anything. With no files, reads from stdin.

Exit codes:
  0  No problems found
  1  One or more problems were reported
  2  Bad invocation (invalid flags, unreadable files)

Available checks (use --checks to select specific ones):
` + checksDoc() + `
Examples:
  golisp lint file.lisp                  Lint a single file
  golisp lint --checks=arity file.lisp   Run only the arity check
  golisp lint --list                     List available checks
  cat file.lisp | golisp lint            Lint from stdin`,
	Run: func(cmd *cobra.Command, args []string) {
		if lintListAll {
			for _, name := range lint.AnalyzerNames() {
				fmt.Println(name)
			}
			return
		}

		analyzers := lint.DefaultAnalyzers()
		if lintChecks != "" {
			selected := make(map[string]bool)
			for _, name := range strings.Split(lintChecks, ",") {
				selected[strings.TrimSpace(name)] = true
			}
			var filtered []*lint.Analyzer
			for _, a := range analyzers {
				if selected[a.Name] {
					filtered = append(filtered, a)
					delete(selected, a.Name)
				}
			}
			for name := range selected {
				fmt.Fprintf(os.Stderr, "golisp lint: unknown check: %s\n", name)
				os.Exit(2)
			}
			analyzers = filtered
		}

		l := &lint.Linter{Analyzers: analyzers}

		var diags []lint.Diagnostic
		if len(args) == 0 {
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			diags, err = l.LintSource(string(src))
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		} else {
			for _, path := range args {
				src, err := os.ReadFile(path) //nolint:gosec // CLI tool reads user-specified files
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(2)
				}
				fileDiags, err := l.LintSource(string(src))
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
					os.Exit(2)
				}
				for _, d := range fileDiags {
					fmt.Printf("%s:%s\n", path, d)
				}
				diags = append(diags, fileDiags...)
			}
		}

		if len(args) == 0 {
			for _, d := range diags {
				fmt.Println(d)
			}
		}
		if len(diags) > 0 {
			os.Exit(1)
		}
	},
}

func checksDoc() string {
	var b strings.Builder
	for _, a := range lint.DefaultAnalyzers() {
		fmt.Fprintf(&b, "  %-12s %s\n", a.Name, a.Doc)
	}
	return b.String()
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintCmd.Flags().StringVar(&lintChecks, "checks", "",
		"Comma-separated list of checks to run (default: all).")
	lintCmd.Flags().BoolVar(&lintListAll, "list", false,
		"List available checks and exit.")
}
