// Copyright © 2026 The golisp authors

package rdparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
)

func parseAll(t *testing.T, src string) *lisp.Node {
	t.Helper()
	pool := lisp.NewPool(0)
	toks, err := lexer.New(lexer.NewStringSource(src)).Tokenize()
	require.NoError(t, err)
	root, err := New(pool, toks).ParseProgram()
	require.NoError(t, err)
	return root
}

func TestParseAtoms(t *testing.T) {
	root := parseAll(t, "#t #f 'a' \"str\" 42 -3.5 sym")
	require.Equal(t, 7, root.Len())

	elems := root.Elements()
	assert.Equal(t, lisp.KBoolean, elems[0].Kind)
	assert.True(t, elems[0].Bool)
	assert.Equal(t, lisp.KBoolean, elems[1].Kind)
	assert.False(t, elems[1].Bool)
	assert.Equal(t, lisp.KChar, elems[2].Kind)
	assert.Equal(t, byte('a'), elems[2].Char)
	assert.Equal(t, lisp.KString, elems[3].Kind)
	assert.Equal(t, "str", elems[3].Str)
	assert.Equal(t, lisp.KNumber, elems[4].Kind)
	assert.Equal(t, 42.0, elems[4].Num)
	assert.Equal(t, lisp.KNumber, elems[5].Kind)
	assert.Equal(t, -3.5, elems[5].Num)
	assert.Equal(t, lisp.KSymbol, elems[6].Kind)
	assert.Equal(t, "sym", elems[6].Str)
}

func TestParseNestedList(t *testing.T) {
	root := parseAll(t, "(+ 1 (* 2 3))")
	require.Equal(t, 1, root.Len())

	call := root.Head
	require.Equal(t, lisp.KPair, call.Kind)
	elems := call.Elements()
	require.Len(t, elems, 3)
	assert.Equal(t, "+", elems[0].Str)
	assert.Equal(t, 1.0, elems[1].Num)
	assert.Equal(t, lisp.KPair, elems[2].Kind)

	innerElems := elems[2].Elements()
	require.Len(t, innerElems, 3)
	assert.Equal(t, "*", innerElems[0].Str)
}

func TestParseEmptyList(t *testing.T) {
	root := parseAll(t, "()")
	require.Equal(t, 1, root.Len())
	assert.True(t, root.Head.IsNil())
}

func TestParseMismatchedParens(t *testing.T) {
	pool := lisp.NewPool(0)
	toks, err := lexer.New(lexer.NewStringSource("(+ 1 2")).Tokenize()
	require.NoError(t, err)
	_, err = New(pool, toks).ParseProgram()
	assert.Error(t, err)
}

func TestParseMalformedNumber(t *testing.T) {
	pool := lisp.NewPool(0)
	toks, err := lexer.New(lexer.NewStringSource("1.2.3")).Tokenize()
	require.NoError(t, err)
	_, err = New(pool, toks).ParseProgram()
	assert.Error(t, err)
}

func TestParseLineNumbers(t *testing.T) {
	root := parseAll(t, "(+ 1 2)\n(* 3 4)")
	elems := root.Elements()
	require.Len(t, elems, 2)
	assert.Equal(t, 1, elems[0].Line)
	assert.Equal(t, 2, elems[1].Line)
}
