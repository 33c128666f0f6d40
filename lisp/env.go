// Copyright © 2026 The golisp authors

package lisp

// StackCapacity is the fixed number of environment handles EnvStack can
// hand out simultaneously. Pushing beyond this depth is a stack-overflow
// error, not host stack exhaustion.
const StackCapacity = 2048

// EnvStack is a bounded array of environment handles. Index 0 is always
// the global environment after Reset. Handles are stable: Pop never
// invalidates a previously returned index, which is what allows a closure
// to capture an index and look it up again long after the frame that
// created it has been popped (see Node.Env).
//
// An entry at a given index is a chain of frames, innermost first,
// represented as a pair-list: Head is the current frame, Tail is the
// enclosing chain (or nil at the global scope). A frame is itself a Pair
// whose Head is the frame's symbol list and whose Tail is its parallel
// value list.
type EnvStack struct {
	pool    *Pool
	entries [StackCapacity]*Node
	sp      int
}

// NewEnvStack constructs an EnvStack backed by pool and resets it to a
// single empty global frame.
func NewEnvStack(pool *Pool) (*EnvStack, error) {
	es := &EnvStack{pool: pool}
	if err := es.Reset(); err != nil {
		return nil, err
	}
	return es, nil
}

// Reset discards every frame and reinitializes the global environment at
// index 0.
func (es *EnvStack) Reset() error {
	frame, err := es.pool.NewCons(nil, nil)
	if err != nil {
		return err
	}
	entry, err := es.pool.NewCons(frame, nil)
	if err != nil {
		return err
	}
	es.entries[0] = entry
	es.sp = 0
	return nil
}

// SP returns the currently active stack pointer (the global environment
// immediately after Reset).
func (es *EnvStack) SP() int { return es.sp }

// Push allocates a new frame binding params to args and chains it onto
// the environment active at parentSP, returning the index of the new
// entry. parentSP is ordinarily a Function's captured Env, which is what
// gives lambdas lexical rather than dynamic scope.
func (es *EnvStack) Push(params, args *Node, parentSP int) (int, error) {
	if es.sp+1 >= StackCapacity {
		return 0, Errorf(StatusStackOverflow, 0, "environment stack overflow")
	}
	frame, err := es.pool.NewCons(params, args)
	if err != nil {
		return 0, err
	}
	entry, err := es.pool.NewCons(frame, es.entries[parentSP])
	if err != nil {
		return 0, err
	}
	es.sp++
	es.entries[es.sp] = entry
	return es.sp, nil
}

// Pop releases the top slot, leaving its entry in place for closures
// that captured its index. It decrements the stack pointer exactly
// once; the source's EnvStack::pop decremented twice, a bug benign only
// because nothing in the source ever nested pops without an intervening
// push (see the open question in spec.md §9, resolved here).
func (es *EnvStack) Pop() {
	if es.sp == 0 {
		return
	}
	es.sp--
}

// LookupCell walks the chain at sp looking for symbol by content
// equality and returns the value-list pair cell whose Head currently
// holds the bound value, so callers (set!) may overwrite it in place. A
// frame slot whose symbol entry has a nil Head is skipped, per the
// "skip rule": it supports definition frames created without an initial
// binding.
func (es *EnvStack) LookupCell(sp int, symbol string) (*Node, error) {
	entry := es.entries[sp]
	for entry != nil {
		frame := entry.Head
		sym := frame.Head
		val := frame.Tail
		for sym != nil && val != nil {
			if sym.Head != nil && sym.Head.Str == symbol {
				return val, nil
			}
			sym = sym.Tail
			val = val.Tail
		}
		entry = entry.Tail
	}
	return nil, Errorf(StatusSymbolNotFound, 0, "%s", symbol)
}

// Lookup returns the value currently bound to symbol, visible from sp.
func (es *EnvStack) Lookup(sp int, symbol string) (*Node, error) {
	cell, err := es.LookupCell(sp, symbol)
	if err != nil {
		return nil, err
	}
	return cell.Head, nil
}

// Define prepends a new (symbol, value) binding to the innermost frame at
// sp. Definitions do not check for shadowing: a newer binding of the same
// symbol simply shadows an older one, because lookup always finds the
// first match walking from the front of the list.
func (es *EnvStack) Define(sp int, symbol string, value *Node) error {
	entry := es.entries[sp]
	frame := entry.Head
	symNode, err := es.pool.NewSymbol(symbol, 0)
	if err != nil {
		return err
	}
	newSyms, err := es.pool.NewCons(symNode, frame.Head)
	if err != nil {
		return err
	}
	newVals, err := es.pool.NewCons(value, frame.Tail)
	if err != nil {
		return err
	}
	frame.Head = newSyms
	frame.Tail = newVals
	return nil
}

// Set locates the cell bound to symbol and overwrites its value in
// place, so every alias of the binding observes the new value.
func (es *EnvStack) Set(sp int, symbol string, value *Node) error {
	cell, err := es.LookupCell(sp, symbol)
	if err != nil {
		return err
	}
	cell.Head = value
	return nil
}
