// Copyright © 2026 The golisp authors

package main

import "github.com/golisp/golisp/cmd"

func main() {
	cmd.Execute()
}
