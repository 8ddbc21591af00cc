package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValueIdentity(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"string-int equal", String("1337"), Int(1337), Bool(true)},
		{"string-int unequal", String("7"), Int(1337), Bool(false)},
		{"bool vs int coercion", Bool(true), Int(1), Bool(true)},
		{"empty not equal zero", Empty(), Int(0), Bool(false)},
		{"empty not equal false", Empty(), Bool(false), Bool(false)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Eq(tt.a, tt.b))
		})
	}
}

func TestDivisionByZeroIsInvalid(t *testing.T) {
	got := Div(Double(10), Int(0))
	assert.True(t, got.IsInvalid())
}

func TestArithmeticWithInvalidPropagates(t *testing.T) {
	assert.True(t, Add(Invalid(), Int(1)).IsInvalid())
	assert.True(t, Mul(Int(1), Invalid()).IsInvalid())
}

func TestTotalOrder(t *testing.T) {
	assert.Equal(t, -1, Invalid().Compare(Empty()))
	assert.Equal(t, -1, Empty().Compare(Bool(false)))
	assert.Equal(t, -1, Bool(true).Compare(Int(2)))
	assert.Equal(t, -1, Int(5).Compare(String("a")))
	assert.Equal(t, -1, String("z").Compare(DateFromTime(ReferenceDate)))
}

func TestConcatCoercesEmptyToBlank(t *testing.T) {
	assert.Equal(t, String("hi"), Concat(String("hi"), Empty()))
}

func TestRegexMatch(t *testing.T) {
	assert.Equal(t, Bool(true), MatchesRegex(String("Hello World"), String("^hello")))
	assert.Equal(t, Bool(false), MatchesRegexStrict(String("Hello World"), String("^hello")))
}
