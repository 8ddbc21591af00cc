package expr

import (
	"testing"

	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rowCtx(col table.Column, v value.Value) Context {
	cols := table.NewColumns(col)
	return Context{Row: table.NewRow(cols, []value.Value{v})}
}

func TestExpressionPurity(t *testing.T) {
	e := Binary{Op: OpAdd, LHS: Sibling{Column: "x"}, RHS: Literal{Value: value.Int(1)}}
	ctx := rowCtx("x", value.Int(41))
	assert.Equal(t, e.Apply(ctx), e.Apply(ctx))
}

func TestNotEqualRewrite(t *testing.T) {
	e := Call{Name: "not", Args: []Expression{Binary{Op: OpEq, LHS: Sibling{Column: "x"}, RHS: Literal{Value: value.Int(1)}}}}
	got := Prepare(e)
	want := Binary{Op: OpNeq, LHS: Sibling{Column: "x"}, RHS: Literal{Value: value.Int(1)}}
	assert.True(t, got.Equivalent(want), "got %s", got)
}

func TestOrToInRewrite(t *testing.T) {
	col := Sibling{Column: "col"}
	e := Call{Name: "or", Args: []Expression{
		Binary{Op: OpEq, LHS: col, RHS: Literal{Value: value.String("x")}},
		Binary{Op: OpEq, LHS: col, RHS: Literal{Value: value.String("y")}},
		Binary{Op: OpEq, LHS: col, RHS: Literal{Value: value.String("z")}},
	}}
	got := Prepare(e)
	call, ok := got.(Call)
	require.True(t, ok)
	assert.Equal(t, "in", call.Name)
	assert.Len(t, call.Args, 4)
}

func TestPrepareIdempotence(t *testing.T) {
	e := Call{Name: "and", Args: []Expression{
		Call{Name: "and", Args: []Expression{Literal{Value: value.Bool(true)}, Sibling{Column: "a"}}},
		Sibling{Column: "b"},
	}}
	once := Prepare(e)
	twice := Prepare(once)
	assert.True(t, once.Equivalent(twice))
}

func TestPrepareSemanticPreservation(t *testing.T) {
	e := Binary{Op: OpEq, LHS: Binary{Op: OpAdd, LHS: Literal{Value: value.Int(2)}, RHS: Literal{Value: value.Int(2)}}, RHS: Literal{Value: value.Int(4)}}
	prepared := Prepare(e)
	ctx := Context{}
	assert.Equal(t, e.Apply(ctx), prepared.Apply(ctx))
}

func TestConstantFolding(t *testing.T) {
	e := Binary{Op: OpMul, LHS: Literal{Value: value.Int(6)}, RHS: Literal{Value: value.Int(7)}}
	prepared := Prepare(e)
	lit, ok := prepared.(Literal)
	require.True(t, ok)
	assert.Equal(t, value.Double(42), lit.Value)
}

func TestSiblingDependencies(t *testing.T) {
	e := Binary{Op: OpAdd, LHS: Sibling{Column: "price"}, RHS: Sibling{Column: "qty"}}
	deps := SiblingDependencies(e)
	assert.True(t, deps.Has("price"))
	assert.True(t, deps.Has("qty"))
	assert.Equal(t, 2, deps.Len())
}

func TestArityMismatchIsInvalid(t *testing.T) {
	c := Call{Name: "abs", Args: []Expression{Literal{Value: value.Int(1)}, Literal{Value: value.Int(2)}}}
	assert.True(t, c.Apply(Context{}).IsInvalid())
}

func TestForeignUnbound(t *testing.T) {
	f := Foreign{Column: "x"}
	assert.True(t, f.Apply(Context{}).IsInvalid())
}
