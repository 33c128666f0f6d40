// Copyright © 2026 The golisp authors

// Package diagnostic formats interpreter errors for terminal output: a
// single line naming the source line, column, and message, wrapped to a
// terminal-friendly width. The interpreter core never formats for a
// terminal itself (per spec.md, diagnostics carry a line, a column
// (always 0), and a message; rendering them is a CLI concern).
package diagnostic

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"

	"github.com/golisp/golisp/lisp"
)

// DefaultWidth is used when Format is called without an explicit width,
// matching a typical narrow terminal.
const DefaultWidth = 80

// Format renders err as a single diagnostic, word-wrapped to width. Any
// error satisfies the interface; *lisp.LispError gets its status and
// line surfaced explicitly, other errors are wrapped generically.
func Format(err error, width int) string {
	if err == nil {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	var msg string
	if le, ok := err.(*lisp.LispError); ok {
		if le.Line > 0 {
			msg = fmt.Sprintf("line %d:%d: %s: %s", le.Line, le.Col, le.Status, le.Msg)
		} else {
			msg = fmt.Sprintf("%s: %s", le.Status, le.Msg)
		}
	} else {
		msg = err.Error()
	}
	return wordwrap.String(msg, width)
}
