package expr

import (
	"fmt"

	"github.com/pixelspark/warp/value"
)

// BinaryOp is one of the 18 (spec table) / 17 (glossary-enumerated,
// stable-identifier) binary operators. The glossary's raw-value list
// is authoritative for wire portability; see the Op constants below.
type BinaryOp string

const (
	OpAdd             BinaryOp = "add"
	OpSub             BinaryOp = "sub"
	OpMul             BinaryOp = "mul"
	OpDiv             BinaryOp = "div"
	OpMod             BinaryOp = "mod"
	OpCat             BinaryOp = "cat"
	OpPow             BinaryOp = "pow"
	OpGt              BinaryOp = "gt"
	OpLt              BinaryOp = "lt"
	OpGte             BinaryOp = "gte"
	OpLte             BinaryOp = "lte"
	OpEq              BinaryOp = "eq"
	OpNeq             BinaryOp = "neq"
	OpContains        BinaryOp = "contains"
	OpContainsStrict  BinaryOp = "containsStrict"
	OpMatchesRegex    BinaryOp = "matchesRegex"
	OpMatchesRegexStrict BinaryOp = "matchesRegexStrict"
)

// binaryFunc implements one operator's evaluation.
type binaryFunc func(a, b value.Value) value.Value

var binaryImpls = map[BinaryOp]binaryFunc{
	OpAdd:                value.Add,
	OpSub:                value.Sub,
	OpMul:                value.Mul,
	OpDiv:                value.Div,
	OpMod:                value.Mod,
	OpCat:                value.Concat,
	OpPow:                value.Pow,
	OpGt:                 value.Gt,
	OpLt:                 value.Lt,
	OpGte:                value.Gte,
	OpLte:                value.Lte,
	OpEq:                 value.Eq,
	OpNeq:                value.Neq,
	OpContains:           value.Contains,
	OpContainsStrict:     value.ContainsStrict,
	OpMatchesRegex:       value.MatchesRegex,
	OpMatchesRegexStrict: value.MatchesRegexStrict,
}

// mirror gives the operator obtained by swapping operand order, used
// by structural equivalence (`a < b` ≡ `b > a`).
var mirror = map[BinaryOp]BinaryOp{
	OpGt: OpLt, OpLt: OpGt,
	OpGte: OpLte, OpLte: OpGte,
	OpEq: OpEq, OpNeq: OpNeq,
}

// commutative operators for which lhs/rhs order doesn't matter at all.
var commutative = map[BinaryOp]bool{
	OpAdd: true, OpMul: true, OpEq: true, OpNeq: true,
}

// Binary is a two-operand expression node.
type Binary struct {
	Op       BinaryOp
	LHS, RHS Expression
}

func NewBinary(op BinaryOp, lhs, rhs Expression) Binary {
	return Binary{Op: op, LHS: lhs, RHS: rhs}
}

func (b Binary) Kind() Kind { return KindBinary }

func (b Binary) Apply(ctx Context) value.Value {
	impl, ok := binaryImpls[b.Op]
	if !ok {
		return value.Invalid()
	}
	return impl(b.LHS.Apply(ctx), b.RHS.Apply(ctx))
}

func (b Binary) IsConstant() bool {
	return IsDeterministicOp(b.Op) && b.LHS.IsConstant() && b.RHS.IsConstant()
}

func (b Binary) IsDeterministic() bool {
	return IsDeterministicOp(b.Op) && b.LHS.IsDeterministic() && b.RHS.IsDeterministic()
}

// IsDeterministicOp reports whether a binary operator is pure. Every
// binary operator in Warp is deterministic; the flag exists for
// symmetry with Function.Deterministic and future-proofing.
func IsDeterministicOp(BinaryOp) bool { return true }

func (b Binary) Visit(f func(Expression) Expression) Expression {
	rebuilt := Binary{Op: b.Op, LHS: b.LHS.Visit(f), RHS: b.RHS.Visit(f)}
	return f(rebuilt)
}

func (b Binary) Equivalent(other Expression) bool {
	o, ok := other.(Binary)
	if !ok {
		return false
	}
	if b.Op == o.Op && b.LHS.Equivalent(o.LHS) && b.RHS.Equivalent(o.RHS) {
		return true
	}
	if mir, ok := mirror[b.Op]; ok && mir == o.Op {
		return b.LHS.Equivalent(o.RHS) && b.RHS.Equivalent(o.LHS)
	}
	if commutative[b.Op] && b.Op == o.Op {
		return b.LHS.Equivalent(o.RHS) && b.RHS.Equivalent(o.LHS)
	}
	return false
}

func (b Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.LHS, b.Op, b.RHS)
}
