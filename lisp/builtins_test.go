// Copyright © 2026 The golisp authors

package lisp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
	"github.com/golisp/golisp/parser/rdparser"
)

func evalSrc(t *testing.T, src string) (*lisp.Node, error) {
	t.Helper()
	pool := lisp.NewPool(0)
	env, err := lisp.NewEnvStack(pool)
	require.NoError(t, err)
	ev := lisp.NewEvaluator(pool, env, nil)

	toks, err := lexer.New(lexer.NewStringSource(src)).Tokenize()
	require.NoError(t, err)
	root, err := rdparser.New(pool, toks).ParseProgram()
	require.NoError(t, err)

	var result *lisp.Node
	for form := root; form != nil; form = form.Tail {
		result, err = ev.Eval(form.Head, env.SP())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func TestSetBangMutatesInPlace(t *testing.T) {
	result, err := evalSrc(t, `
		(define x 1)
		(set! x 2)
		x
	`)
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Num)
}

func TestSetBangUndefinedIsError(t *testing.T) {
	_, err := evalSrc(t, "(set! nope 1)")
	assert.Error(t, err)
}

func TestSetCarVisibleThroughAlias(t *testing.T) {
	result, err := evalSrc(t, `
		(define p (cons 1 2))
		(define q p)
		(set-car! q 99)
		(car p)
	`)
	require.NoError(t, err)
	assert.Equal(t, 99.0, result.Num, "mutating through one alias must be visible through another")
}

func TestIfRequiresBooleanPredicate(t *testing.T) {
	_, err := evalSrc(t, "(if 1 2 3)")
	assert.Error(t, err)
}

func TestIfBranches(t *testing.T) {
	result, err := evalSrc(t, "(if #t 1 2)")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Num)

	result, err = evalSrc(t, "(if #f 1 2)")
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Num)
}

func TestQuoteReturnsOperandUnevaluated(t *testing.T) {
	result, err := evalSrc(t, "(quote (+ 1 2))")
	require.NoError(t, err)
	assert.Equal(t, lisp.KPair, result.Kind)
	assert.Equal(t, 3, result.Len())
}

func TestAndShortCircuits(t *testing.T) {
	result, err := evalSrc(t, "(and #t #f (set! undefined-var 1))")
	require.NoError(t, err, "and must not evaluate operands after the first false one")
	assert.False(t, result.Bool)
}

func TestAndAllTrueReturnsLast(t *testing.T) {
	result, err := evalSrc(t, "(and #t #t)")
	require.NoError(t, err)
	assert.True(t, result.Bool)
}

func TestOrShortCircuits(t *testing.T) {
	result, err := evalSrc(t, "(or #f #t (set! undefined-var 1))")
	require.NoError(t, err, "or must not evaluate operands after the first true one")
	assert.True(t, result.Bool)
}

func TestConsCarCdr(t *testing.T) {
	result, err := evalSrc(t, "(car (cons 1 2))")
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Num)

	result, err = evalSrc(t, "(cdr (cons 1 2))")
	require.NoError(t, err)
	assert.Equal(t, 2.0, result.Num)
}

func TestCarOnNonPairIsTypeMismatch(t *testing.T) {
	_, err := evalSrc(t, "(car 1)")
	require.Error(t, err)
	lerr, ok := err.(*lisp.LispError)
	require.True(t, ok)
	assert.Equal(t, lisp.StatusTypeMismatch, lerr.Status)
}

func TestAppendEvaluatesSecondOperandOnce(t *testing.T) {
	result, err := evalSrc(t, `
		(define counter 0)
		(define next (lambda () (begin (set! counter (+ counter 1)) counter)))
		(append (cons 1 (cons 2 ())) (next))
		counter
	`)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result.Num, "append must evaluate its second operand exactly once")
}

func TestAppendDestructivelyRewritesTail(t *testing.T) {
	result, err := evalSrc(t, `
		(define a (cons 1 (cons 2 ())))
		(append a (cons 3 ()))
		a
	`)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Len())
	elems := result.Elements()
	assert.Equal(t, 1.0, elems[0].Num)
	assert.Equal(t, 2.0, elems[1].Num)
	assert.Equal(t, 3.0, elems[2].Num)
}

func TestNot(t *testing.T) {
	result, err := evalSrc(t, "(not #f)")
	require.NoError(t, err)
	assert.True(t, result.Bool)

	result, err = evalSrc(t, "(not #t)")
	require.NoError(t, err)
	assert.False(t, result.Bool)
}

func TestTypePredicatesInspectUnevaluatedOperand(t *testing.T) {
	result, err := evalSrc(t, `
		(define x 1)
		(number? x)
	`)
	require.NoError(t, err, "type predicates never evaluate their operand")
	assert.False(t, result.Bool, "x is a symbol syntactically, so number? on it must be false even though x's value is a number")

	result, err = evalSrc(t, "(number? 1)")
	require.NoError(t, err)
	assert.True(t, result.Bool)
}

func TestBooleanCharStringPredicates(t *testing.T) {
	result, err := evalSrc(t, `(boolean? #t)`)
	require.NoError(t, err)
	assert.True(t, result.Bool)

	result, err = evalSrc(t, `(char? 'a')`)
	require.NoError(t, err)
	assert.True(t, result.Bool)

	result, err = evalSrc(t, `(string? "hi")`)
	require.NoError(t, err)
	assert.True(t, result.Bool)
}

func TestArithmeticOperators(t *testing.T) {
	cases := map[string]float64{
		"(+ 1 2 3)": 6,
		"(* 2 3 4)": 24,
		"(- 5 3)":   2,
		"(/ 10 2)":  5,
	}
	for src, want := range cases {
		result, err := evalSrc(t, src)
		require.NoError(t, err)
		assert.Equal(t, want, result.Num, src)
	}
}

func TestComparisonOperators(t *testing.T) {
	cases := map[string]bool{
		"(= 1 1)":  true,
		"(> 2 1)":  true,
		"(< 1 2)":  true,
		"(>= 1 1)": true,
		"(<= 1 2)": true,
		"(> 1 2)":  false,
	}
	for src, want := range cases {
		result, err := evalSrc(t, src)
		require.NoError(t, err)
		assert.Equal(t, want, result.Bool, src)
	}
}

func TestEvalEvaluatesOperandTwice(t *testing.T) {
	result, err := evalSrc(t, `
		(define x (quote (+ 1 2)))
		(eval x)
	`)
	require.NoError(t, err)
	assert.Equal(t, 3.0, result.Num)
}

func TestListBuildsProperList(t *testing.T) {
	result, err := evalSrc(t, "(list 1 2 3)")
	require.NoError(t, err)
	assert.Equal(t, 3, result.Len())
	elems := result.Elements()
	assert.Equal(t, 1.0, elems[0].Num)
	assert.Equal(t, 2.0, elems[1].Num)
	assert.Equal(t, 3.0, elems[2].Num)
}

func TestDisplayInvokesPrintCallback(t *testing.T) {
	pool := lisp.NewPool(0)
	env, err := lisp.NewEnvStack(pool)
	require.NoError(t, err)

	var gotNewline bool
	var gotNode *lisp.Node
	ev := lisp.NewEvaluator(pool, env, func(n *lisp.Node, newline bool) error {
		gotNewline = newline
		gotNode = n
		return nil
	})

	toks, err := lexer.New(lexer.NewStringSource(`(display "hi")`)).Tokenize()
	require.NoError(t, err)
	root, err := rdparser.New(pool, toks).ParseProgram()
	require.NoError(t, err)
	_, err = ev.Eval(root.Head, env.SP())
	require.NoError(t, err)
	assert.True(t, gotNewline, "display appends a trailing newline")
	assert.Equal(t, "hi", gotNode.Str)
}
