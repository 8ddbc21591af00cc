package expr

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func call(name string, args ...interface{}) Expression {
	exprs := make([]Expression, len(args))
	for i, a := range args {
		exprs[i] = Literal{Value: toValue(a)}
	}
	return Call{Name: name, Args: exprs}
}

func TestStringFunctions(t *testing.T) {
	assert.Equal(t, "HELLO", call("upper", "hello").Apply(Context{}).AsString())
	assert.Equal(t, "hello", call("lower", "HELLO").Apply(Context{}).AsString())
	assert.Equal(t, "hello", call("trim", "  hello  ").Apply(Context{}).AsString())
	assert.Equal(t, "Hello World", call("capitalize", "hello world").Apply(Context{}).AsString())
	assert.Equal(t, "hel", call("left", "hello", 3).Apply(Context{}).AsString())
	assert.Equal(t, "llo", call("right", "hello", 3).Apply(Context{}).AsString())
	assert.Equal(t, "ell", call("mid", "hello", 2, 3).Apply(Context{}).AsString())
	assert.Equal(t, int64(5), mustInt(call("length", "hello").Apply(Context{})))
}

func TestPackNthItems(t *testing.T) {
	packed := call("pack", "a", "b;c", "d").Apply(Context{})
	nth := Call{Name: "nth", Args: []Expression{Literal{Value: packed}, Literal{Value: toValue(2)}}}
	assert.Equal(t, "b;c", nth.Apply(Context{}).AsString())
}

func TestSplitRoundtrips(t *testing.T) {
	split := call("split", "a,b,c", ",").Apply(Context{})
	nth := Call{Name: "nth", Args: []Expression{Literal{Value: split}, Literal{Value: toValue(3)}}}
	assert.Equal(t, "c", nth.Apply(Context{}).AsString())
}

func TestInNotIn(t *testing.T) {
	assert.True(t, mustBool(call("in", "b", "a", "b", "c").Apply(Context{})))
	assert.False(t, mustBool(call("notIn", "b", "a", "b", "c").Apply(Context{})))
}

func TestChoose(t *testing.T) {
	assert.Equal(t, "second", call("choose", 2, "first", "second", "third").Apply(Context{}).AsString())
}

func TestDateRoundtrip(t *testing.T) {
	d := call("date", 2020, 6, 15).Apply(Context{})
	assert.Equal(t, int64(2020), mustInt(call("year", d).Apply(Context{})))
	unix := call("toUnix", d).Apply(Context{})
	back := call("fromUnix", unix).Apply(Context{})
	assert.True(t, d.IdenticalTo(back))
}

func TestLevenshtein(t *testing.T) {
	assert.Equal(t, int64(3), mustInt(call("levenshtein", "kitten", "sitting").Apply(Context{})))
}

func TestRandomFunctionsAreDeterministicWithSeededRand(t *testing.T) {
	SetRand(rand.New(rand.NewSource(7)))
	a := call("random").Apply(Context{})
	SetRand(rand.New(rand.NewSource(7)))
	b := call("random").Apply(Context{})
	assert.Equal(t, a, b)
}

func TestDivByZeroWithinExpression(t *testing.T) {
	e := Binary{Op: OpDiv, LHS: Literal{Value: toValue(10)}, RHS: Literal{Value: toValue(0)}}
	assert.True(t, e.Apply(Context{}).IsInvalid())
}
