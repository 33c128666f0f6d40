// Copyright © 2026 The golisp authors

// Package lint performs static checks over parsed source without
// evaluating it: arity mismatches against the dispatch table's known
// forms, and uses of set!/set-car!/set-cdr! on a symbol that was never
// defined in the same top-level form. Every check operates on the
// *lisp.Node tree the parser produces; none of them run the evaluator.
package lint

import (
	"fmt"
	"sort"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
	"github.com/golisp/golisp/parser/rdparser"
)

// Diagnostic is one finding, located by source line.
type Diagnostic struct {
	Line    int
	Check   string
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Check, d.Message)
}

// Analyzer is one independent check over a parsed node. Registering new
// checks means adding to analyzers below; each one only ever reads the
// tree, it never mutates it.
type Analyzer struct {
	Name string
	Doc  string
	run  func(root *lisp.Node) []Diagnostic
}

var analyzers = []*Analyzer{
	{Name: "arity", Doc: "flags calls to a known form with too few (or, for fixed-arity forms, too many) operands", run: checkArity},
	{Name: "unbound-set", Doc: "flags set!, set-car!, and set-cdr! whose target symbol is never define'd earlier in the same top-level form", run: checkUnboundSet},
}

// AnalyzerNames lists every analyzer, in registration order.
func AnalyzerNames() []string {
	names := make([]string, len(analyzers))
	for i, a := range analyzers {
		names[i] = a.Name
	}
	return names
}

// DefaultAnalyzers returns every registered analyzer.
func DefaultAnalyzers() []*Analyzer {
	out := make([]*Analyzer, len(analyzers))
	copy(out, analyzers)
	return out
}

// Linter runs a selected set of Analyzers over source.
type Linter struct {
	Analyzers []*Analyzer
}

// LintSource parses src and runs every configured Analyzer over each
// top-level form, returning diagnostics sorted by line.
func (l *Linter) LintSource(src string) ([]Diagnostic, error) {
	pool := lisp.NewPool(0)
	toks, err := lexer.New(lexer.NewStringSource(src)).Tokenize()
	if err != nil {
		return nil, err
	}
	root, err := rdparser.New(pool, toks).ParseProgram()
	if err != nil {
		return nil, err
	}
	var diags []Diagnostic
	for form := root; form != nil; form = form.Tail {
		for _, a := range l.Analyzers {
			diags = append(diags, a.run(form.Head)...)
		}
	}
	sort.Slice(diags, func(i, j int) bool { return diags[i].Line < diags[j].Line })
	return diags, nil
}

// checkArity walks every call form under node and flags operand counts
// that the dispatch table's own checkArity/checkArityMin would reject.
func checkArity(node *lisp.Node) []Diagnostic {
	var diags []Diagnostic
	walk(node, func(n *lisp.Node) {
		if n == nil || n.Kind != lisp.KPair {
			return
		}
		head := n.Head
		if head == nil || head.Kind != lisp.KSymbol {
			return
		}
		arity, ok := lisp.LookupArity(head.Str)
		if !ok {
			return
		}
		got := 0
		if n.Tail != nil {
			got = n.Tail.Len()
		}
		if got < arity.Min || (!arity.Variadic && got > arity.Min) {
			diags = append(diags, Diagnostic{
				Line:    n.Line,
				Check:   "arity",
				Message: fmt.Sprintf("%s: got %d operands, want %s", head.Str, got, wantDesc(arity)),
			})
		}
	})
	return diags
}

func wantDesc(a lisp.Arity) string {
	if a.Variadic {
		return fmt.Sprintf("at least %d", a.Min)
	}
	return fmt.Sprintf("exactly %d", a.Min)
}

// checkUnboundSet flags set!/set-car!/set-cdr! calls whose first operand
// symbol was never defined earlier, by line order, in the same
// top-level form. It is deliberately conservative: lambda parameters
// and nested defines are tracked, but it does not attempt full lexical
// scoping, so it only ever reports a symbol no branch could have
// defined.
func checkUnboundSet(node *lisp.Node) []Diagnostic {
	var diags []Diagnostic
	defined := map[string]bool{}
	walk(node, func(n *lisp.Node) {
		if n == nil || n.Kind != lisp.KPair {
			return
		}
		head := n.Head
		if head == nil || head.Kind != lisp.KSymbol {
			return
		}
		switch head.Str {
		case "define":
			if sym := n.Tail.Head; sym != nil && sym.Kind == lisp.KSymbol {
				defined[sym.Str] = true
			}
		case "lambda":
			for p := n.Tail.Head; p != nil; p = p.Tail {
				if p.Head != nil && p.Head.Kind == lisp.KSymbol {
					defined[p.Head.Str] = true
				}
			}
		case "set!", "set-car!", "set-cdr!":
			if sym := n.Tail.Head; sym != nil && sym.Kind == lisp.KSymbol && !defined[sym.Str] {
				diags = append(diags, Diagnostic{
					Line:    n.Line,
					Check:   "unbound-set",
					Message: fmt.Sprintf("%s: %s is never defined in this form", head.Str, sym.Str),
				})
			}
		}
	})
	return diags
}

// walk calls visit on node and, if node is a Pair, recursively on every
// element reachable through Head/Tail, Params, and Body.
func walk(node *lisp.Node, visit func(*lisp.Node)) {
	if node == nil {
		return
	}
	visit(node)
	switch node.Kind {
	case lisp.KPair:
		walk(node.Head, visit)
		walk(node.Tail, visit)
	case lisp.KFunction:
		walk(node.Params, visit)
		walk(node.Body, visit)
	}
}
