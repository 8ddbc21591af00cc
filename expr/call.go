package expr

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/value"
)

// ArityKind distinguishes the four arity shapes a Function can
// declare.
type ArityKind int

const (
	ArityFixed ArityKind = iota
	ArityAtLeast
	ArityBetween
	ArityAny
)

// Arity describes how many arguments a Function accepts.
type Arity struct {
	Kind     ArityKind
	Min, Max int // Max is ignored for Fixed/AtLeast/Any
}

func Fixed(n int) Arity      { return Arity{Kind: ArityFixed, Min: n} }
func AtLeast(n int) Arity    { return Arity{Kind: ArityAtLeast, Min: n} }
func Between(a, b int) Arity { return Arity{Kind: ArityBetween, Min: a, Max: b} }
func Any() Arity             { return Arity{Kind: ArityAny} }

// Matches reports whether n arguments satisfy the arity.
func (a Arity) Matches(n int) bool {
	switch a.Kind {
	case ArityFixed:
		return n == a.Min
	case ArityAtLeast:
		return n >= a.Min
	case ArityBetween:
		return n >= a.Min && n <= a.Max
	case ArityAny:
		return true
	}
	return false
}

// FunctionApply is a scalar function's implementation: given the
// evaluation context (for functions like `now`/`random` that need
// fresh nondeterministic state per call) and the already-evaluated
// argument values, produce a result.
type FunctionApply func(ctx Context, args []value.Value) value.Value

// SuggestFunc is the "learn by example" hook: given a
// seed source/target value pair, the current row, the identity input,
// and a search-depth level, return candidate expressions that might
// transform source into target using this function.
type SuggestFunc func(from, to value.Value, row Context, level int) []Expression

// Function is one named scalar function from the built-in library.
type Function struct {
	Name          string
	Arity         Arity
	Deterministic bool
	Apply         FunctionApply
	Suggest       SuggestFunc
}

// Functions is the registry of every named scalar function, keyed by
// its stable wire identifier. Populated in functions.go.
var Functions = map[string]*Function{}

func register(f *Function) {
	if _, exists := Functions[f.Name]; exists {
		panic("warp: duplicate function name " + f.Name)
	}
	Functions[f.Name] = f
}

// Call invokes a named Function with evaluated argument expressions.
// An unknown function name, or an argument count mismatch, evaluates
// to Invalid.
type Call struct {
	Name string
	Args []Expression
	fn   *Function // resolved lazily from Functions if nil
}

func NewCall(name string, args ...Expression) Call {
	return Call{Name: name, Args: args}
}

func (c Call) function() *Function {
	if c.fn != nil {
		return c.fn
	}
	return Functions[c.Name]
}

func (c Call) Kind() Kind { return KindCall }

func (c Call) Apply(ctx Context) value.Value {
	fn := c.function()
	if fn == nil {
		return value.Invalid()
	}
	if !fn.Arity.Matches(len(c.Args)) {
		return value.Invalid()
	}
	args := make([]value.Value, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Apply(ctx)
	}
	return fn.Apply(ctx, args)
}

func (c Call) IsConstant() bool {
	fn := c.function()
	if fn == nil || !fn.Deterministic {
		return false
	}
	for _, a := range c.Args {
		if !a.IsConstant() {
			return false
		}
	}
	return true
}

func (c Call) IsDeterministic() bool {
	fn := c.function()
	if fn == nil || !fn.Deterministic {
		return false
	}
	for _, a := range c.Args {
		if !a.IsDeterministic() {
			return false
		}
	}
	return true
}

func (c Call) Visit(f func(Expression) Expression) Expression {
	newArgs := make([]Expression, len(c.Args))
	for i, a := range c.Args {
		newArgs[i] = a.Visit(f)
	}
	rebuilt := Call{Name: c.Name, Args: newArgs, fn: c.fn}
	return f(rebuilt)
}

func (c Call) Equivalent(other Expression) bool {
	o, ok := other.(Call)
	if !ok || !strings.EqualFold(c.Name, o.Name) || len(c.Args) != len(o.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equivalent(o.Args[i]) {
			return false
		}
	}
	return true
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, "; "))
}
