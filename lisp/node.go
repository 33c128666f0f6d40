// Copyright © 2026 The golisp authors

package lisp

// Kind tags the single variant a Node currently holds. A Node is the only
// AST/runtime value type in the interpreter; nil represented as a nil
// *Node is the empty list and is not itself a Kind.
type Kind uint8

const (
	KBoolean Kind = iota
	KNumber
	KChar
	KString
	KSymbol
	KPair
	KFunction
)

func (k Kind) String() string {
	switch k {
	case KBoolean:
		return "boolean"
	case KNumber:
		return "number"
	case KChar:
		return "char"
	case KString:
		return "string"
	case KSymbol:
		return "symbol"
	case KPair:
		return "pair"
	case KFunction:
		return "function"
	default:
		return "invalid"
	}
}

// Node is the single AST/runtime entity described by the language: every
// node carries a source line and exactly one tagged variant's payload.
// Pair is a mutable cell; aliases of the same *Node observe mutation made
// through set-car!/set-cdr!, satisfying the pair-sharing invariant.
type Node struct {
	Kind Kind
	Line int

	Bool bool
	Num  float64
	Char byte
	Str  string // String and Symbol payload

	Head *Node // Pair head
	Tail *Node // Pair tail

	Params *Node // Function formal parameter list (pair-list of Symbols)
	Body   *Node // Function body (pair-list of expressions)
	Env    int   // Function's captured EnvStack index
}

// IsNil reports whether n represents the empty list. Nil is modeled as a
// nil *Node, never as a distinct Kind.
func (n *Node) IsNil() bool { return n == nil }

// IsList reports whether n is nil or a Pair whose tail is itself a list.
// Lists produced by the parser are always proper; cons can build improper
// ones.
func (n *Node) IsList() bool {
	for n != nil {
		if n.Kind != KPair {
			return false
		}
		n = n.Tail
	}
	return true
}

// Len returns the number of elements in the proper list n, or -1 if n is
// not a proper list.
func (n *Node) Len() int {
	count := 0
	for n != nil {
		if n.Kind != KPair {
			return -1
		}
		count++
		n = n.Tail
	}
	return count
}

// Elements collects the elements of the proper list n into a slice. It
// does not check that n is proper; an improper tail is simply dropped.
func (n *Node) Elements() []*Node {
	var out []*Node
	for n != nil && n.Kind == KPair {
		out = append(out, n.Head)
		n = n.Tail
	}
	return out
}
