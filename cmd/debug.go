// Copyright © 2026 The golisp authors

package cmd

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/spf13/cobra"

	"github.com/golisp/golisp/debugger"
)

var (
	debugPort  int
	debugStdio bool
)

var debugCmd = &cobra.Command{
	Use:   "debug [flags] file.lisp",
	Short: "Start a Debug Adapter Protocol server for a source file",
	Long: `Start a Debug Adapter Protocol (DAP) server for an editor (VS
Code, Neovim, Helix, etc.) to connect to. file.lisp must exist, but the
program that runs is the one the client's launch request names (its
"source" text, or else its "program" path).

Transport modes:
  --port N     Listen for a DAP client on TCP port N (default: 4711)
  --stdio      Use stdin/stdout for DAP communication (for editors that
               launch the debug adapter as a child process)

The client's launch request controls whether execution pauses before
the first call-form (its "stopOnEntry" argument), giving it time to set
breakpoints before anything runs.

Examples:
  golisp debug myfile.lisp                 Debug with TCP on port 4711
  golisp debug --port 9229 myfile.lisp     Debug with TCP on port 9229
  golisp debug --stdio myfile.lisp         Debug with stdio transport`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		file := args[0]
		if _, err := os.Stat(file); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		if debugStdio {
			srv := debugger.NewServer(os.Stdin, os.Stdout)
			if err := srv.Serve(); err != nil {
				fmt.Fprintf(os.Stderr, "dap server error: %v\n", err)
				os.Exit(1)
			}
			return
		}

		addr := fmt.Sprintf("localhost:%d", debugPort)
		ln, err := net.Listen("tcp", addr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cannot listen on %s: %v\n", addr, err)
			os.Exit(1)
		}
		defer ln.Close() //nolint:errcheck // best-effort cleanup
		log.Printf("DAP debugger listening on %s", addr)
		log.Println("Waiting for DAP client to connect...")

		conn, err := ln.Accept()
		if err != nil {
			fmt.Fprintf(os.Stderr, "accept error: %v\n", err)
			os.Exit(1)
		}
		srv := debugger.NewServer(conn, conn)
		if err := srv.Serve(); err != nil {
			fmt.Fprintf(os.Stderr, "dap server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(debugCmd)

	debugCmd.Flags().IntVar(&debugPort, "port", 4711,
		"TCP port for the DAP server")
	debugCmd.Flags().BoolVar(&debugStdio, "stdio", false,
		"Use stdin/stdout for DAP communication")
}
