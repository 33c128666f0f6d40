// Copyright © 2026 The golisp authors

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	colorFlag   string
	stackBudget int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "golisp",
	Short: "golisp — a small Scheme-like Lisp interpreter",
	Long: `golisp is a tree-walking interpreter for a small Scheme-like Lisp
dialect: mutable pairs, lexically scoped closures, and a fixed table of
special forms and primitives.

Getting started:
  golisp run file.lisp          Run a Lisp source file
  golisp run -e '(+ 1 2)'       Evaluate an expression
  golisp repl                   Start an interactive REPL
  golisp fmt file.lisp          Re-render parsed source
  golisp lint file.lisp         Static arity checks, no evaluation
  golisp debug file.lisp        Start a Debug Adapter Protocol server (TCP port 4711)

Language overview:
  Booleans are #t/#f. The empty list () is nil. Pairs are mutable cells
  built with cons and mutated with set-car!/set-cdr!. Functions are
  created with (lambda (params...) body...) and bound with define.
  Numbers are double-precision floats; there is no numeric tower, no
  macros, and no module system.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. It is called once by main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.golisp.yaml)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto",
		`Color mode: "auto", "always", or "never". No golisp command produces colored output.`)
	rootCmd.PersistentFlags().IntVar(&stackBudget, "max-node-budget", 0,
		"Cap the number of AST/runtime nodes the interpreter will allocate (0 = unbounded)")

	viper.BindPFlag("color", rootCmd.PersistentFlags().Lookup("color"))
	viper.BindPFlag("max-node-budget", rootCmd.PersistentFlags().Lookup("max-node-budget"))
}

// initConfig reads in a config file and environment variables, following
// the same search convention as cobra's own generator template: an
// explicit --config flag takes precedence over $HOME/.golisp.yaml.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".golisp")
	}

	viper.SetEnvPrefix("GOLISP")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
