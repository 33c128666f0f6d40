// Copyright © 2026 The golisp authors

package lisp

// This file implements the dispatch table: special forms (§4.5 "Special
// forms") that decide for themselves which operands to evaluate, and
// applicative primitives (§4.5 "Applicative primitives") that evaluate
// every operand before the handler runs. Both kinds share the same
// registration mechanism because the evaluator's dispatch rule treats
// them identically up to the point of invocation.
//
// Reserved names here can never be shadowed by a user `define`: dispatch
// always consults this table before resolving a symbol in the
// environment, so a user definition of e.g. `if` is simply never called
// at any call site written as `(if ...)`.

func init() {
	registerSpecialForms()
	registerPrimitives()
}

func registerSpecialForms() {
	register("set!", opSetBang)
	register("set-car!", opSetCarBang)
	register("set-cdr!", opSetCdrBang)
	register("define", opDefine)
	register("lambda", opLambda)
	register("if", opIf)
	register("begin", opBegin)
	register("cond", opCond)
	register("quote", opQuote)
	register("and", opAnd)
	register("or", opOr)
}

func registerPrimitives() {
	register("cons", wrapApplicative("cons", 2, primCons))
	register("car", wrapApplicative("car", 1, primCar))
	register("cdr", wrapApplicative("cdr", 1, primCdr))
	register("append", wrapApplicative("append", 2, primAppend))
	register("display", wrapApplicative("display", 1, primDisplay))
	register("print", wrapApplicative("print", 1, primPrint))
	register("eval", opEval) // operand evaluated once here, once more internally; needs raw operand list
	register("list", opList)
	register("not", wrapApplicative("not", 1, primNot))
	register("boolean?", opTypePredicate(KBoolean))
	register("number?", opTypePredicate(KNumber))
	register("char?", opTypePredicate(KChar))
	register("string?", opTypePredicate(KString))
	register("+", opSum)
	register("*", opProduct)
	register("-", wrapApplicative("-", 2, primSub))
	register("/", wrapApplicative("/", 2, primDiv))
	register("=", wrapApplicative("=", 2, primNumEq))
	register(">", wrapApplicative(">", 2, primNumGt))
	register("<", wrapApplicative("<", 2, primNumLt))
	register(">=", wrapApplicative(">=", 2, primNumGe))
	register("<=", wrapApplicative("<=", 2, primNumLe))
}

// applicative is the shape of a primitive once its operands have already
// been evaluated.
type applicative func(ev *Evaluator, args []*Node, line int) (*Node, error)

// wrapApplicative adapts an applicative into a specialForm: it checks
// arity, evaluates every operand left-to-right, and delegates to fn.
func wrapApplicative(name string, arity int, fn applicative) specialForm {
	return func(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
		if err := checkArity(name, operands, arity, line); err != nil {
			return nil, err
		}
		args, err := ev.evalList(operands, sp)
		if err != nil {
			return nil, err
		}
		return fn(ev, args, line)
	}
}

// ---- special forms ----

func opSetBang(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("set!", operands, 2, line); err != nil {
		return nil, err
	}
	sym := operands.Head
	if sym == nil || sym.Kind != KSymbol {
		return nil, Errorf(StatusSyntaxError, line, "set!: first operand must be a symbol")
	}
	val, err := ev.Eval(operands.Tail.Head, sp)
	if err != nil {
		return nil, err
	}
	if err := ev.Env.Set(sp, sym.Str, val); err != nil {
		return nil, Errorf(StatusSymbolNotFound, line, "set!: %s", sym.Str)
	}
	return val, nil
}

func opSetCarBang(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("set-car!", operands, 2, line); err != nil {
		return nil, err
	}
	pair, err := ev.Eval(operands.Head, sp)
	if err != nil {
		return nil, err
	}
	if pair == nil || pair.Kind != KPair {
		return nil, Errorf(StatusTypeMismatch, line, "set-car!: first operand must be a pair")
	}
	val, err := ev.Eval(operands.Tail.Head, sp)
	if err != nil {
		return nil, err
	}
	pair.Head = val
	return ev.Pool.NewBoolean(true, line)
}

func opSetCdrBang(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("set-cdr!", operands, 2, line); err != nil {
		return nil, err
	}
	pair, err := ev.Eval(operands.Head, sp)
	if err != nil {
		return nil, err
	}
	if pair == nil || pair.Kind != KPair {
		return nil, Errorf(StatusTypeMismatch, line, "set-cdr!: first operand must be a pair")
	}
	val, err := ev.Eval(operands.Tail.Head, sp)
	if err != nil {
		return nil, err
	}
	pair.Tail = val
	return ev.Pool.NewBoolean(true, line)
}

func opDefine(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("define", operands, 2, line); err != nil {
		return nil, err
	}
	sym := operands.Head
	if sym == nil || sym.Kind != KSymbol {
		return nil, Errorf(StatusSyntaxError, line, "define: first operand must be a symbol")
	}
	val, err := ev.Eval(operands.Tail.Head, sp)
	if err != nil {
		return nil, err
	}
	if err := ev.Env.Define(sp, sym.Str, val); err != nil {
		return nil, err
	}
	return val, nil
}

func opLambda(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArityMin("lambda", operands, 2, line); err != nil {
		return nil, err
	}
	params := operands.Head
	if !params.IsList() {
		return nil, Errorf(StatusSyntaxError, line, "lambda: parameter list must be a proper list of symbols")
	}
	for p := params; p != nil; p = p.Tail {
		if p.Head == nil || p.Head.Kind != KSymbol {
			return nil, Errorf(StatusSyntaxError, line, "lambda: parameters must be symbols")
		}
	}
	return ev.Pool.NewFunction(params, operands.Tail, sp, line)
}

func opIf(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("if", operands, 3, line); err != nil {
		return nil, err
	}
	pred, err := ev.Eval(operands.Head, sp)
	if err != nil {
		return nil, err
	}
	if pred == nil || pred.Kind != KBoolean {
		return nil, Errorf(StatusTypeMismatch, line, "if: predicate must evaluate to a boolean")
	}
	if pred.Bool {
		return ev.Eval(operands.Tail.Head, sp)
	}
	return ev.Eval(operands.Tail.Tail.Head, sp)
}

func opBegin(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArityMin("begin", operands, 1, line); err != nil {
		return nil, err
	}
	return ev.evalBegin(operands, sp)
}

// opCond evaluates clauses in order, testing each until one succeeds or
// the clauses are exhausted. A clause whose test is the symbol `else`
// always succeeds. With no matching clause, opCond returns nil (the
// source's uninitialized return is normalized here per spec.md §9).
func opCond(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArityMin("cond", operands, 1, line); err != nil {
		return nil, err
	}
	for c := operands; c != nil; c = c.Tail {
		clause := c.Head
		if clause == nil || clause.Kind != KPair {
			return nil, Errorf(StatusSyntaxError, line, "cond: clause must be a list")
		}
		test := clause.Head
		if test != nil && test.Kind == KSymbol && test.Str == "else" {
			return ev.evalBegin(clause.Tail, sp)
		}
		result, err := ev.Eval(test, sp)
		if err != nil {
			return nil, err
		}
		if result == nil || result.Kind != KBoolean {
			return nil, Errorf(StatusTypeMismatch, line, "cond: test must evaluate to a boolean")
		}
		if result.Bool {
			return ev.evalBegin(clause.Tail, sp)
		}
	}
	return nil, nil
}

func opQuote(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("quote", operands, 1, line); err != nil {
		return nil, err
	}
	return operands.Head, nil
}

// opAnd and opOr are applicative-looking primitives in spec.md's wording
// ("and"/"or" on evaluated Boolean operands) but must be special forms in
// order to short-circuit: evaluating every operand first would defeat
// the point of guarding a side-effecting expression behind `and`/`or`.
func opAnd(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	result, err := ev.Pool.NewBoolean(true, line)
	if err != nil {
		return nil, err
	}
	for c := operands; c != nil; c = c.Tail {
		v, err := ev.Eval(c.Head, sp)
		if err != nil {
			return nil, err
		}
		if v == nil || v.Kind != KBoolean {
			return nil, Errorf(StatusTypeMismatch, line, "and: operand must evaluate to a boolean")
		}
		if !v.Bool {
			return v, nil
		}
		result = v
	}
	return result, nil
}

func opOr(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	result, err := ev.Pool.NewBoolean(false, line)
	if err != nil {
		return nil, err
	}
	for c := operands; c != nil; c = c.Tail {
		v, err := ev.Eval(c.Head, sp)
		if err != nil {
			return nil, err
		}
		if v == nil || v.Kind != KBoolean {
			return nil, Errorf(StatusTypeMismatch, line, "or: operand must evaluate to a boolean")
		}
		if v.Bool {
			return v, nil
		}
		result = v
	}
	return result, nil
}

// opEval implements `eval`: its one operand is evaluated by the normal
// rule to produce a node, which is then evaluated a second time, per
// spec.md's "Evaluate operand twice" contract.
func opEval(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	if err := checkArity("eval", operands, 1, line); err != nil {
		return nil, err
	}
	once, err := ev.Eval(operands.Head, sp)
	if err != nil {
		return nil, err
	}
	return ev.Eval(once, sp)
}

// opList builds a proper list from every evaluated operand, variadic
// sugar over repeated cons (present in the original C++ source's
// primitive table but dropped from spec.md's primitive list by
// omission; reinstated per SPEC_FULL.md §5).
func opList(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	values, err := ev.evalList(operands, sp)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewList(values, line)
}

func opTypePredicate(kind Kind) specialForm {
	// Type predicates inspect the operand's *unevaluated* syntactic
	// variant, not the result of evaluating it. This reproduces a known
	// quirk of the source (spec.md §9 Open Questions) rather than
	// ordinary Scheme semantics; it is deliberate, not an oversight.
	return func(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
		if err := checkArity("type predicate", operands, 1, line); err != nil {
			return nil, err
		}
		operand := operands.Head
		is := operand != nil && operand.Kind == kind
		return ev.Pool.NewBoolean(is, line)
	}
}

// ---- applicative primitives ----

func primCons(ev *Evaluator, args []*Node, line int) (*Node, error) {
	return ev.Pool.NewPair(args[0], args[1], line)
}

func primCar(ev *Evaluator, args []*Node, line int) (*Node, error) {
	if args[0] == nil || args[0].Kind != KPair {
		return nil, Errorf(StatusTypeMismatch, line, "car: operand must be a pair")
	}
	return args[0].Head, nil
}

func primCdr(ev *Evaluator, args []*Node, line int) (*Node, error) {
	if args[0] == nil || args[0].Kind != KPair {
		return nil, Errorf(StatusTypeMismatch, line, "cdr: operand must be a pair")
	}
	return args[0].Tail, nil
}

// primAppend destructively rewrites the terminal pair of the first
// (proper) list's tail to be the second operand, then returns the first
// list. The source read its second operand a second time by mistake
// instead of reusing the one value it had already evaluated (spec.md
// §9); this implementation evaluates it exactly once, as the spec
// intends.
func primAppend(ev *Evaluator, args []*Node, line int) (*Node, error) {
	first, second := args[0], args[1]
	if first == nil || first.Kind != KPair {
		return nil, Errorf(StatusTypeMismatch, line, "append: first operand must be a non-empty proper list")
	}
	last := first
	for last.Tail != nil {
		if last.Tail.Kind != KPair {
			return nil, Errorf(StatusTypeMismatch, line, "append: first operand must be a proper list")
		}
		last = last.Tail
	}
	last.Tail = second
	return first, nil
}

func primDisplay(ev *Evaluator, args []*Node, line int) (*Node, error) {
	if err := ev.Print(args[0], true); err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(true, line)
}

func primPrint(ev *Evaluator, args []*Node, line int) (*Node, error) {
	if err := ev.Print(args[0], false); err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(true, line)
}

func primNot(ev *Evaluator, args []*Node, line int) (*Node, error) {
	if args[0] == nil || args[0].Kind != KBoolean {
		return nil, Errorf(StatusTypeMismatch, line, "not: operand must be a boolean")
	}
	return ev.Pool.NewBoolean(!args[0].Bool, line)
}

func numArg(args []*Node, i int, name string, line int) (float64, error) {
	if args[i] == nil || args[i].Kind != KNumber {
		return 0, Errorf(StatusTypeMismatch, line, "%s: operand must be a number", name)
	}
	return args[i].Num, nil
}

func primSub(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, "-", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, "-", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewNumber(a-b, line)
}

func primDiv(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, "/", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, "/", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewNumber(a/b, line)
}

func primNumEq(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, "=", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, "=", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(a == b, line)
}

func primNumGt(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, ">", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, ">", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(a > b, line)
}

func primNumLt(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, "<", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, "<", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(a < b, line)
}

func primNumGe(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, ">=", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, ">=", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(a >= b, line)
}

func primNumLe(ev *Evaluator, args []*Node, line int) (*Node, error) {
	a, err := numArg(args, 0, "<=", line)
	if err != nil {
		return nil, err
	}
	b, err := numArg(args, 1, "<=", line)
	if err != nil {
		return nil, err
	}
	return ev.Pool.NewBoolean(a <= b, line)
}

// opSum and opProduct are variadic, unlike the fixed-arity primitives
// above, so they are wired directly as specialForms that evaluate their
// own operand list rather than going through wrapApplicative.

func opSum(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	args, err := ev.evalList(operands, sp)
	if err != nil {
		return nil, err
	}
	total := 0.0
	for _, a := range args {
		if a == nil || a.Kind != KNumber {
			return nil, Errorf(StatusTypeMismatch, line, "+: every operand must be a number")
		}
		total += a.Num
	}
	return ev.Pool.NewNumber(total, line)
}

func opProduct(ev *Evaluator, operands *Node, sp, line int) (*Node, error) {
	args, err := ev.evalList(operands, sp)
	if err != nil {
		return nil, err
	}
	total := 1.0
	for _, a := range args {
		if a == nil || a.Kind != KNumber {
			return nil, Errorf(StatusTypeMismatch, line, "*: every operand must be a number")
		}
		total *= a.Num
	}
	return ev.Pool.NewNumber(total, line)
}
