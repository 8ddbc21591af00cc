// Package expr implements Warp's expression tree: Literal,
// Identity, Sibling, Foreign, Binary and Call nodes, their evaluation
// against a row, the symbolic prepare()/rewrite pass, and structural
// equivalence. The function and binary-operator libraries live
// alongside it in functions.go and binary.go.
//
// Expression is a closed interface implemented only by the six types
// below, so dynamic dispatch on expression variants becomes a closed
// sum type with a match in evaluation; the `type` tag used by each
// node's on-wire representation is its Kind().
package expr

import (
	"fmt"

	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// Kind tags which of the six node variants an Expression is — the
// stable wire "type" tag.
type Kind string

const (
	KindLiteral Kind = "literal"
	KindIdentity Kind = "identity"
	KindSibling  Kind = "sibling"
	KindForeign  Kind = "foreign"
	KindBinary   Kind = "binary"
	KindCall     Kind = "call"
)

// Context is what an Expression is evaluated against: the current
// row, an optional bound foreign row (for join conditions), and the
// "identity" input value threaded through chained calculations.
type Context struct {
	Row     table.Row
	Foreign *table.Row
	Input   value.Value
}

// WithInput returns a copy of the context with a different Identity
// input, used when composing formulas (e.g. `substitute` chains).
func (c Context) WithInput(v value.Value) Context {
	c.Input = v
	return c
}

// Expression is the closed sum type of Warp's formula tree.
type Expression interface {
	Kind() Kind
	Apply(ctx Context) value.Value
	IsConstant() bool
	IsDeterministic() bool
	// Visit rebuilds the tree bottom-up applying f to every node,
	// including the receiver: a node's children are visited first and
	// f then sees the node rebuilt from the results, so f is never
	// applied to a node before its children. It is the sole mutator
	// used by SiblingDependencies and DependsOnForeign.
	Visit(f func(Expression) Expression) Expression
	// Equivalent implements structural equivalence: same
	// variant, recursively equivalent children, with Binary
	// additionally considering its commutative/mirror form.
	Equivalent(other Expression) bool
	String() string
}

// ---- Literal ----

type Literal struct{ Value value.Value }

func NewLiteral(v value.Value) Literal { return Literal{Value: v} }

func (l Literal) Kind() Kind                 { return KindLiteral }
func (l Literal) Apply(ctx Context) value.Value { return l.Value }
func (l Literal) IsConstant() bool           { return true }
func (l Literal) IsDeterministic() bool      { return true }
func (l Literal) Visit(f func(Expression) Expression) Expression {
	return f(l)
}
func (l Literal) Equivalent(other Expression) bool {
	o, ok := other.(Literal)
	return ok && l.Value.IdenticalTo(o.Value)
}
func (l Literal) String() string { return fmt.Sprintf("%v", l.Value) }

// ---- Identity ----

type Identity struct{}

func (Identity) Kind() Kind                    { return KindIdentity }
func (Identity) Apply(ctx Context) value.Value { return ctx.Input }
func (Identity) IsConstant() bool              { return false }
func (Identity) IsDeterministic() bool         { return true }
func (i Identity) Visit(f func(Expression) Expression) Expression {
	return f(i)
}
func (Identity) Equivalent(other Expression) bool {
	_, ok := other.(Identity)
	return ok
}
func (Identity) String() string { return "$input" }

// ---- Sibling ----

type Sibling struct{ Column table.Column }

func NewSibling(c table.Column) Sibling { return Sibling{Column: c} }

func (s Sibling) Kind() Kind                    { return KindSibling }
func (s Sibling) Apply(ctx Context) value.Value { return ctx.Row.Get(s.Column) }
func (s Sibling) IsConstant() bool              { return false }
func (s Sibling) IsDeterministic() bool         { return true }
func (s Sibling) Visit(f func(Expression) Expression) Expression {
	return f(s)
}
func (s Sibling) Equivalent(other Expression) bool {
	o, ok := other.(Sibling)
	return ok && s.Column.Equal(o.Column)
}
func (s Sibling) String() string { return string(s.Column) }

// ---- Foreign ----

type Foreign struct{ Column table.Column }

func NewForeign(c table.Column) Foreign { return Foreign{Column: c} }

func (f Foreign) Kind() Kind { return KindForeign }
func (f Foreign) Apply(ctx Context) value.Value {
	if ctx.Foreign == nil {
		return value.Invalid()
	}
	return ctx.Foreign.Get(f.Column)
}
func (f Foreign) IsConstant() bool      { return false }
func (f Foreign) IsDeterministic() bool { return true }
func (f Foreign) Visit(v func(Expression) Expression) Expression {
	return v(f)
}
func (f Foreign) Equivalent(other Expression) bool {
	o, ok := other.(Foreign)
	return ok && f.Column.Equal(o.Column)
}
func (f Foreign) String() string { return "foreign." + string(f.Column) }

// ---- dependency helpers ----

// SiblingDependencies returns the set of Sibling columns e reads,
// used by the coalesce rewriter's filter/calculate reorder axiom.
func SiblingDependencies(e Expression) table.Columns {
	var cols table.Columns
	e.Visit(func(n Expression) Expression {
		if s, ok := n.(Sibling); ok {
			cols.Add(s.Column)
		}
		return n
	})
	return cols
}

// DependsOnForeign reports whether e reads any Foreign value.
func DependsOnForeign(e Expression) bool {
	found := false
	e.Visit(func(n Expression) Expression {
		if _, ok := n.(Foreign); ok {
			found = true
		}
		return n
	})
	return found
}
