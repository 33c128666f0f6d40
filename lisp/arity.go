// Copyright © 2026 The golisp authors

package lisp

// Arity describes how many operands a dispatch table entry accepts,
// for callers (the lint command) that want to check call sites without
// evaluating anything. It mirrors the checkArity/checkArityMin calls
// each handler in builtins.go makes at the top of its own body; this
// table exists only so that information is available statically too.
type Arity struct {
	// Min is the minimum number of operands.
	Min int
	// Variadic is true when there is no upper bound on operand count.
	Variadic bool
}

// knownArity lists every name registered in the dispatch table together
// with the arity its handler enforces at eval time. A name present here
// but absent from dispatchTable would be a bug; arity_test.go checks
// the two stay in sync.
var knownArity = map[string]Arity{
	"set!":      {Min: 2},
	"set-car!":  {Min: 2},
	"set-cdr!":  {Min: 2},
	"define":    {Min: 2},
	"lambda":    {Min: 2, Variadic: true},
	"if":        {Min: 3},
	"begin":     {Min: 1, Variadic: true},
	"cond":      {Min: 1, Variadic: true},
	"quote":     {Min: 1},
	"and":       {Min: 0, Variadic: true},
	"or":        {Min: 0, Variadic: true},
	"cons":      {Min: 2},
	"car":       {Min: 1},
	"cdr":       {Min: 1},
	"append":    {Min: 2},
	"display":   {Min: 1},
	"print":     {Min: 1},
	"eval":      {Min: 1},
	"list":      {Min: 0, Variadic: true},
	"not":       {Min: 1},
	"boolean?":  {Min: 1},
	"number?":   {Min: 1},
	"char?":     {Min: 1},
	"string?":   {Min: 1},
	"+":         {Min: 0, Variadic: true},
	"*":         {Min: 0, Variadic: true},
	"-":         {Min: 2},
	"/":         {Min: 2},
	"=":         {Min: 2},
	">":         {Min: 2},
	"<":         {Min: 2},
	">=":        {Min: 2},
	"<=":        {Min: 2},
}

// LookupArity reports the arity contract for a dispatch table name, and
// whether the name is known at all. Unknown names are not necessarily
// errors: they may be ordinary user-defined functions, which this table
// has no visibility into.
func LookupArity(name string) (Arity, bool) {
	a, ok := knownArity[name]
	return a, ok
}

// IsReserved reports whether name is a dispatch table entry and
// therefore can never be shadowed by a user `define`.
func IsReserved(name string) bool {
	_, ok := knownArity[name]
	return ok
}
