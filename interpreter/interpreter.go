// Copyright © 2026 The golisp authors

// Package interpreter wires the Lexer, Parser, and Evaluator into the
// single pipeline described by the language specification: a byte
// stream flows through the Lexer to produce tokens, the Parser consumes
// tokens to produce an AST rooted at a pair-list of top-level
// expressions, and the Evaluator walks that root under environment
// index 0.
package interpreter

import (
	"github.com/golisp/golisp/lisp"
	"github.com/golisp/golisp/parser/lexer"
	"github.com/golisp/golisp/parser/rdparser"
)

// State is the lifecycle of a single top-level run, per spec.md §4.5
// "State machine per top-level run".
type State int

const (
	StateUnparsed State = iota
	StateParsed
	StateRunning
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnparsed:
		return "unparsed"
	case StateParsed:
		return "parsed"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}

// Interpreter owns the NodePool, EnvStack, and Evaluator for one
// interpreter session. All nodes allocated by the session remain valid
// for the session's lifetime; there is no garbage collection (see
// DESIGN.md's reclamation note).
type Interpreter struct {
	Pool *lisp.Pool
	Env  *lisp.EnvStack
	Eval *lisp.Evaluator

	root  *lisp.Node
	state State
	err   error
}

type config struct {
	print  lisp.PrintFunc
	budget int
	trace  lisp.Trace
}

// Option configures a new Interpreter.
type Option func(*config)

// WithPrint overrides the print callback used by display/print. The
// default discards output.
func WithPrint(print lisp.PrintFunc) Option {
	return func(c *config) { c.print = print }
}

// WithNodeBudget caps the number of nodes the interpreter's Pool will
// allocate before reporting an allocation failure. 0 (the default)
// leaves the pool unbounded, matching the source's leak-until-teardown
// arena.
func WithNodeBudget(budget int) Option {
	return func(c *config) { c.budget = budget }
}

// WithTrace installs a lisp.Trace hook the Evaluator calls before every
// call-form evaluation. A debugger session uses this to implement
// breakpoints and stepping.
func WithTrace(trace lisp.Trace) Option {
	return func(c *config) { c.trace = trace }
}

// New constructs an Interpreter in the Unparsed state.
func New(opts ...Option) (*Interpreter, error) {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	pool := lisp.NewPool(c.budget)
	env, err := lisp.NewEnvStack(pool)
	if err != nil {
		return nil, err
	}
	ev := lisp.NewEvaluator(pool, env, c.print)
	ev.Trace = c.trace
	in := &Interpreter{Pool: pool, Env: env, Eval: ev, state: StateUnparsed}
	return in, nil
}

// State reports the interpreter's current lifecycle state.
func (in *Interpreter) State() State { return in.state }

// Err returns the error that caused the most recent Parse or Run to
// fail, or nil.
func (in *Interpreter) Err() error { return in.err }

// Parse tokenizes and parses src, transitioning to Parsed on success.
// Calling Parse again on an already Parsed/Done/Failed Interpreter
// discards the previous root but reuses the same Pool and EnvStack; Run
// then resets that EnvStack before evaluating, per the state machine's
// reset-on-entry contract. RunIncremental skips that reset instead,
// which is how the REPL feeds it one line at a time against a single
// persistent session.
func (in *Interpreter) Parse(src lexer.ByteSource) error {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		in.state = StateFailed
		in.err = err
		return err
	}
	root, err := rdparser.New(in.Pool, toks).ParseProgram()
	if err != nil {
		in.state = StateFailed
		in.err = err
		return err
	}
	in.root = root
	in.state = StateParsed
	return nil
}

// Run requires the Parsed state. It resets the global environment to a
// single empty frame, then evaluates the parsed top-level expressions
// with `begin` semantics against it and returns the last expression's
// value. The reset is the state machine's documented entry contract: a
// `run` invocation starts from a clean environment every time.
func (in *Interpreter) Run() (*lisp.Node, error) {
	if in.state != StateParsed {
		return nil, lisp.Errorf(lisp.StatusFailure, 0, "Run requires the Parsed state, got %s", in.state)
	}
	if err := in.Env.Reset(); err != nil {
		in.state = StateFailed
		in.err = err
		return nil, err
	}
	in.state = StateRunning
	result, err := in.evalTopLevel()
	if err != nil {
		in.state = StateFailed
		in.err = err
		return nil, err
	}
	in.state = StateDone
	return result, nil
}

// RunIncremental requires the Parsed state, exactly like Run, but
// evaluates against the environment as it currently stands instead of
// resetting it first. It exists for callers that deliberately want
// session persistence across multiple Parse/RunIncremental cycles — the
// REPL is the only one — rather than Run's clean-environment contract.
func (in *Interpreter) RunIncremental() (*lisp.Node, error) {
	if in.state != StateParsed {
		return nil, lisp.Errorf(lisp.StatusFailure, 0, "RunIncremental requires the Parsed state, got %s", in.state)
	}
	in.state = StateRunning
	result, err := in.evalTopLevel()
	if err != nil {
		in.state = StateFailed
		in.err = err
		return nil, err
	}
	in.state = StateDone
	return result, nil
}

func (in *Interpreter) evalTopLevel() (*lisp.Node, error) {
	var result *lisp.Node
	for expr := in.root; expr != nil; expr = expr.Tail {
		v, err := in.Eval.Eval(expr.Head, in.Env.SP())
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// RunString is a convenience that parses and runs src in one step,
// discarding the Unparsed/Parsed distinction for one-shot callers.
func RunString(src string, opts ...Option) (*lisp.Node, error) {
	in, err := New(opts...)
	if err != nil {
		return nil, err
	}
	if err := in.Parse(lexer.NewStringSource(src)); err != nil {
		return nil, err
	}
	return in.Run()
}
