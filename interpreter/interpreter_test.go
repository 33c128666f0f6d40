// Copyright © 2026 The golisp authors

package interpreter_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golisp/golisp/interpreter"
	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
)

func TestInterpreterStateMachine(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)
	assert.Equal(t, interpreter.StateUnparsed, in.State())

	require.NoError(t, in.Parse(lexer.NewStringSource("(+ 1 2)")))
	assert.Equal(t, interpreter.StateParsed, in.State())

	result, err := in.Run()
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Num)
	assert.Equal(t, interpreter.StateDone, in.State())
}

func TestInterpreterRunBeforeParseFails(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)
	_, err = in.Run()
	assert.Error(t, err)
}

func TestInterpreterFailedStateOnParseError(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)
	err = in.Parse(lexer.NewStringSource(`"unterminated`))
	assert.Error(t, err)
	assert.Equal(t, interpreter.StateFailed, in.State())
	assert.Equal(t, err, in.Err())
}

func TestRunResetsEnvironmentOnEntry(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource("(define x 41)")))
	_, err = in.Run()
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource("x")))
	_, err = in.Run()
	assert.Error(t, err, "Run resets the environment on entry, so a later Run must not see an earlier Run's definitions")
}

func TestRunIncrementalPersistsEnvironmentAcrossCalls(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource("(define x 41)")))
	_, err = in.RunIncremental()
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource("(set! x (+ x 1)) x")))
	result, err := in.RunIncremental()
	require.NoError(t, err)
	assert.Equal(t, 42.0, result.Num, "a later Parse/RunIncremental must see definitions made by an earlier one")
}

func TestRunIncrementalBeforeParseFails(t *testing.T) {
	in, err := interpreter.New()
	require.NoError(t, err)
	_, err = in.RunIncremental()
	assert.Error(t, err)
}

func TestInterpreterWithPrint(t *testing.T) {
	var buf bytes.Buffer
	in, err := interpreter.New(interpreter.WithPrint(lisp.ConsolePrinter(&buf)))
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource(`(display "hello")`)))
	_, err = in.Run()
	require.NoError(t, err)
	assert.Equal(t, `"hello"`+"\n", buf.String())
}

func TestInterpreterWithNodeBudgetExhausted(t *testing.T) {
	// Constructing the global environment alone spends every node the
	// budget allows, so parsing anything afterward must fail allocating.
	in, err := interpreter.New(interpreter.WithNodeBudget(2))
	require.NoError(t, err)

	err = in.Parse(lexer.NewStringSource("(+ 1 2)"))
	assert.ErrorIs(t, err, lisp.ErrAlloc)
	assert.Equal(t, interpreter.StateFailed, in.State())
}

func TestInterpreterWithTrace(t *testing.T) {
	var lines []int
	in, err := interpreter.New(interpreter.WithTrace(func(node *lisp.Node, sp int) error {
		lines = append(lines, node.Line)
		return nil
	}))
	require.NoError(t, err)

	require.NoError(t, in.Parse(lexer.NewStringSource("(+ 1 2)\n(* 3 4)")))
	_, err = in.Run()
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, lines)
}

func TestRunStringOneShot(t *testing.T) {
	result, err := interpreter.RunString("(* 6 7)")
	require.NoError(t, err)
	assert.Equal(t, 42.0, result.Num)
}

func TestRunStringPropagatesEvalError(t *testing.T) {
	_, err := interpreter.RunString("(undefined-symbol)")
	assert.Error(t, err)
}
