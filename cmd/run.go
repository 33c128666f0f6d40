// Copyright © 2026 The golisp authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/golisp/golisp/diagnostic"
	"github.com/golisp/golisp/interpreter"
	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
)

var runExpression bool

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [file...]",
	Short: "Run lisp source files or expressions",
	Long:  `Run lisp code supplied via source files, or inline via -e.`,
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in, err := interpreter.New(
			interpreter.WithPrint(lisp.ConsolePrinter(os.Stdout)),
			interpreter.WithNodeBudget(stackBudget),
		)
		if err != nil {
			fmt.Fprintln(os.Stderr, diagnostic.Format(err, 0))
			os.Exit(1)
		}
		for _, arg := range args {
			var src lexer.ByteSource
			if runExpression {
				src = lexer.NewStringSource(arg)
			} else {
				f, err := os.Open(arg)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				src = lexer.NewReaderSource(f)
				defer f.Close()
			}
			if err := in.Parse(src); err != nil {
				fmt.Fprintln(os.Stderr, diagnostic.Format(err, 0))
				os.Exit(1)
			}
			if _, err := in.Run(); err != nil {
				fmt.Fprintln(os.Stderr, diagnostic.Format(err, 0))
				os.Exit(1)
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().BoolVarP(&runExpression, "expression", "e", false,
		"Interpret arguments as lisp expressions rather than file paths")
}
