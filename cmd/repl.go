// Copyright © 2026 The golisp authors

package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/golisp/golisp/repl"
)

// replCmd represents the repl command
var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive golisp REPL",
	Long: `Start an interactive read-eval-print loop.

Each line is parsed and evaluated against a single, persistent
interpreter session, so definitions and mutations from one line remain
visible to later lines. Line editing and in-session history are
supported via readline. Use Ctrl-D to exit.

Example session:
  golisp> (define square (lambda (x) (* x x)))
  #func
  golisp> (square 5)
  25`,
	Run: func(cmd *cobra.Command, args []string) {
		prompt := filepath.Base(os.Args[0]) + "> "
		if err := repl.Run(prompt, repl.WithNodeBudget(stackBudget)); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
