// Copyright © 2026 The golisp authors

package lisp

import (
	"fmt"
	"io"
	"strconv"
)

// PrintFunc is the print callback's signature: render node, optionally
// followed by a newline, and report any write failure. The interpreter
// core treats rendering as an external collaborator — any Go io.Writer-
// backed implementation satisfies callers that only need the reference
// console behavior described below.
type PrintFunc func(node *Node, newline bool) error

// ConsolePrinter renders values to w using the reference console
// convention: nil as "nil", booleans as #t/#f, numbers with Go's default
// float formatting, strings quoted verbatim, characters as 'c', symbols
// as "symbol = <name>", functions as "#func", and pairs as a
// parenthesized, space-separated list with improper tails rendered as
// ". tail".
func ConsolePrinter(w io.Writer) PrintFunc {
	return func(node *Node, newline bool) error {
		var err error
		writeString(w, render(node), &err)
		if newline {
			writeString(w, "\n", &err)
		}
		return err
	}
}

func writeString(w io.Writer, s string, err *error) {
	if *err != nil {
		return
	}
	_, *err = io.WriteString(w, s)
}

// Render returns n's console-convention rendering without writing
// anything, for callers (the debugger's expression evaluator) that need
// the text rather than a side effect.
func Render(n *Node) string {
	return render(n)
}

func render(n *Node) string {
	if n == nil {
		return "nil"
	}
	switch n.Kind {
	case KBoolean:
		if n.Bool {
			return "#t"
		}
		return "#f"
	case KNumber:
		return strconv.FormatFloat(n.Num, 'g', -1, 64)
	case KString:
		return `"` + n.Str + `"`
	case KChar:
		return "'" + string(n.Char) + "'"
	case KSymbol:
		return "symbol = " + n.Str
	case KFunction:
		return "#func"
	case KPair:
		return renderPair(n)
	default:
		return fmt.Sprintf("<invalid kind %v>", n.Kind)
	}
}

func renderPair(n *Node) string {
	out := "( "
	for n != nil && n.Kind == KPair {
		out += render(n.Head) + " "
		n = n.Tail
	}
	if n != nil {
		out += ". " + render(n) + " "
	}
	return out + ")"
}
