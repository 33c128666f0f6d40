// Copyright © 2026 The golisp authors

package lisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvStackDefineLookup(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	one, _ := pool.NewNumber(1, 0)
	require.NoError(t, es.Define(es.SP(), "x", one))

	v, err := es.Lookup(es.SP(), "x")
	require.NoError(t, err)
	assert.Equal(t, one, v)
}

func TestEnvStackLookupMissing(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	_, err = es.Lookup(es.SP(), "nope")
	assert.Error(t, err)
}

func TestEnvStackShadowing(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	one, _ := pool.NewNumber(1, 0)
	two, _ := pool.NewNumber(2, 0)
	require.NoError(t, es.Define(es.SP(), "x", one))
	require.NoError(t, es.Define(es.SP(), "x", two))

	v, err := es.Lookup(es.SP(), "x")
	require.NoError(t, err)
	assert.Equal(t, two, v, "the most recent definition must shadow the older one")
}

func TestEnvStackPushLexicalScope(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	outer, _ := pool.NewNumber(10, 0)
	require.NoError(t, es.Define(es.SP(), "outer", outer))
	parentSP := es.SP()

	paramSym, _ := pool.NewSymbol("y", 0)
	params, _ := pool.NewList([]*Node{paramSym}, 0)
	argVal, _ := pool.NewNumber(5, 0)
	args, _ := pool.NewList([]*Node{argVal}, 0)

	childSP, err := es.Push(params, args, parentSP)
	require.NoError(t, err)
	assert.NotEqual(t, parentSP, childSP)

	v, err := es.Lookup(childSP, "y")
	require.NoError(t, err)
	assert.Equal(t, argVal, v)

	v, err = es.Lookup(childSP, "outer")
	require.NoError(t, err, "a child frame must see its parent's bindings")
	assert.Equal(t, outer, v)
}

func TestEnvStackPopDecrementsOnce(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	sp0, err := es.Push(nil, nil, es.SP())
	require.NoError(t, err)
	sp1, err := es.Push(nil, nil, sp0)
	require.NoError(t, err)
	require.Equal(t, sp0+1, sp1)

	es.Pop()
	assert.Equal(t, sp0, es.SP())
	es.Pop()
	assert.Equal(t, 0, es.SP())
}

func TestEnvStackPopAtGlobalIsNoop(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	es.Pop()
	assert.Equal(t, 0, es.SP())
}

func TestEnvStackSetMutatesInPlace(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	one, _ := pool.NewNumber(1, 0)
	require.NoError(t, es.Define(es.SP(), "x", one))

	cell, err := es.LookupCell(es.SP(), "x")
	require.NoError(t, err)

	two, _ := pool.NewNumber(2, 0)
	require.NoError(t, es.Set(es.SP(), "x", two))

	assert.Equal(t, two, cell.Head, "Set must mutate the cell in place so every alias observes the new value")
	v, err := es.Lookup(es.SP(), "x")
	require.NoError(t, err)
	assert.Equal(t, two, v)
}

func TestEnvStackSetMissingIsError(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	val, _ := pool.NewNumber(1, 0)
	err = es.Set(es.SP(), "nope", val)
	assert.Error(t, err)
}

func TestEnvStackReset(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	val, _ := pool.NewNumber(1, 0)
	require.NoError(t, es.Define(es.SP(), "x", val))
	sp, err := es.Push(nil, nil, es.SP())
	require.NoError(t, err)
	require.Equal(t, 1, sp)

	require.NoError(t, es.Reset())
	assert.Equal(t, 0, es.SP())
	_, err = es.Lookup(es.SP(), "x")
	assert.Error(t, err, "Reset must discard every prior binding")
}

func TestEnvStackStackOverflow(t *testing.T) {
	pool := NewPool(0)
	es, err := NewEnvStack(pool)
	require.NoError(t, err)

	sp := es.SP()
	var pushErr error
	for i := 0; i < StackCapacity+1; i++ {
		sp, pushErr = es.Push(nil, nil, sp)
		if pushErr != nil {
			break
		}
	}
	require.Error(t, pushErr)
	lerr, ok := pushErr.(*LispError)
	require.True(t, ok)
	assert.Equal(t, StatusStackOverflow, lerr.Status)
}
