package expr

import "github.com/pixelspark/warp/value"

// Prepare is a single bottom-up pass that first prepares every child,
// then inspects the (now-prepared) node's
// own shape for the listed rewrites. The result is semantically
// equivalent to the input (apply() agrees on every row) and is
// idempotent: Prepare(Prepare(e)) is structurally equal to Prepare(e).
func Prepare(e Expression) Expression {
	switch n := e.(type) {
	case Literal, Identity, Sibling, Foreign:
		return n
	case Binary:
		return prepareBinary(Binary{Op: n.Op, LHS: Prepare(n.LHS), RHS: Prepare(n.RHS)})
	case Call:
		args := make([]Expression, len(n.Args))
		for i, a := range n.Args {
			args[i] = Prepare(a)
		}
		return prepareCall(Call{Name: n.Name, Args: args})
	default:
		return e
	}
}

func prepareBinary(b Binary) Expression {
	// constant folding
	if allConstant(b.LHS, b.RHS) {
		return Literal{Value: b.Apply(Context{})}
	}
	// structural self-comparison: lhs ≡ rhs ⇒ constant per operator
	if b.LHS.Equivalent(b.RHS) {
		switch b.Op {
		case OpEq, OpLte, OpGte:
			return Literal{Value: value.Bool(true)}
		case OpNeq, OpLt, OpGt:
			return Literal{Value: value.Bool(false)}
		}
	}
	return b
}

func prepareCall(c Call) Expression {
	switch c.Name {
	case "not":
		return prepareNot(c)
	case "and":
		return prepareAnd(c)
	case "or":
		return prepareOr(c)
	}
	if allConstantArgs(c) {
		return Literal{Value: c.Apply(Context{})}
	}
	return c
}

func allConstant(es ...Expression) bool {
	for _, e := range es {
		if !e.IsConstant() {
			return false
		}
	}
	return true
}

func allConstantArgs(c Call) bool {
	fn := c.function()
	if fn == nil || !fn.Deterministic {
		return false
	}
	return allConstant(c.Args...)
}

// prepareNot rewrites Not(a==b) -> a!=b, Not(In(...)) -> NotIn(...),
// Not(Not(e)) -> e.
func prepareNot(c Call) Expression {
	if len(c.Args) != 1 {
		return c
	}
	inner := c.Args[0]
	if b, ok := inner.(Binary); ok && b.Op == OpEq {
		return Binary{Op: OpNeq, LHS: b.LHS, RHS: b.RHS}
	}
	if ic, ok := inner.(Call); ok {
		switch ic.Name {
		case "in":
			return Call{Name: "notIn", Args: ic.Args}
		case "not":
			if len(ic.Args) == 1 {
				return ic.Args[0]
			}
		}
	}
	if allConstantArgs(c) {
		return Literal{Value: c.Apply(Context{})}
	}
	return c
}

// prepareAnd flattens nested And, and short-circuits to `false` if
// any child is the constant false.
func prepareAnd(c Call) Expression {
	flat := flattenCall("and", c.Args)
	for _, a := range flat {
		if lit, ok := a.(Literal); ok && lit.Value.Kind() == value.KindBool {
			if b, _ := lit.Value.AsBool(); !b {
				return Literal{Value: value.Bool(false)}
			}
		}
	}
	if allConstant(flat...) {
		return Literal{Value: Call{Name: "and", Args: flat}.Apply(Context{})}
	}
	return Call{Name: "and", Args: flat}
}

// prepareOr flattens nested Or, short-circuits to `true` if any child
// is constant true, and recognizes `col==v1 or col==v2 or ...` (or
// its != analogue) as an In/NotIn rewrite.
func prepareOr(c Call) Expression {
	flat := flattenCall("or", c.Args)
	for _, a := range flat {
		if lit, ok := a.(Literal); ok && lit.Value.Kind() == value.KindBool {
			if b, _ := lit.Value.AsBool(); b {
				return Literal{Value: value.Bool(true)}
			}
		}
	}
	if in, ok := recognizeInFamily(flat, OpEq, "in"); ok {
		return in
	}
	if notIn, ok := recognizeInFamily(flat, OpNeq, "notIn"); ok {
		return notIn
	}
	if allConstant(flat...) {
		return Literal{Value: Call{Name: "or", Args: flat}.Apply(Context{})}
	}
	return Call{Name: "or", Args: flat}
}

func flattenCall(name string, args []Expression) []Expression {
	var out []Expression
	for _, a := range args {
		if c, ok := a.(Call); ok && c.Name == name {
			out = append(out, flattenCall(name, c.Args)...)
		} else {
			out = append(out, a)
		}
	}
	return out
}

// recognizeInFamily detects `col op v1 or col op v2 or ...` (all the
// same column, all op) and rewrites to In/NotIn.
func recognizeInFamily(children []Expression, op BinaryOp, fnName string) (Expression, bool) {
	if len(children) < 2 {
		return nil, false
	}
	var col Expression
	values := make([]Expression, 0, len(children))
	for _, child := range children {
		b, ok := child.(Binary)
		if !ok || b.Op != op {
			return nil, false
		}
		lhs, rhs := b.LHS, b.RHS
		lit, litOnRight := rhs.(Literal)
		if !litOnRight {
			var ok2 bool
			lit, ok2 = lhs.(Literal)
			if !ok2 {
				return nil, false
			}
			lhs, rhs = rhs, lhs // normalize so lhs is the column-like side
		}
		if col == nil {
			col = lhs
		} else if !col.Equivalent(lhs) {
			return nil, false
		}
		values = append(values, lit)
	}
	args := append([]Expression{col}, values...)
	return Call{Name: fnName, Args: args}, true
}
