package sqldataset

import (
	"strings"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/expr"
)

// render translates an expression tree into SQL text for d, returning
// ok=false the moment any node cannot be represented — Foreign (cross-
// row correlation) and any function/operator the dialect doesn't
// recognize are the common reasons, and the caller falls back to
// in-memory evaluation for the whole expression rather than split it.
func render(e expr.Expression, d dialect.Dialect) (string, bool) {
	switch v := e.(type) {
	case expr.Literal:
		return d.QuoteLiteral(v.Value)
	case expr.Sibling:
		return d.QuoteIdentifier(string(v.Column)), true
	case expr.Identity:
		return "", false
	case expr.Foreign:
		return "", false
	case expr.Binary:
		lhs, ok := render(v.LHS, d)
		if !ok {
			return "", false
		}
		rhs, ok := render(v.RHS, d)
		if !ok {
			return "", false
		}
		return d.EmitBinary(v.Op, lhs, rhs)
	case expr.Call:
		args := make([]string, len(v.Args))
		for i, a := range v.Args {
			sql, ok := render(a, d)
			if !ok {
				return "", false
			}
			args[i] = sql
		}
		return d.EmitFunction(v.Name, args)
	default:
		return "", false
	}
}

func renderAggregate(agg expr.Aggregation, d dialect.Dialect) (string, bool) {
	argSQL, ok := render(agg.Map, d)
	if !ok {
		return "", false
	}
	return d.EmitAggregate(agg.Reduce.Name, argSQL)
}

func renderOrder(o expr.Order, d dialect.Dialect) (string, bool) {
	sql, ok := render(o.Expression, d)
	if !ok {
		return "", false
	}
	if o.Ascending {
		return sql + " ASC", true
	}
	return sql + " DESC", true
}

func quotedColumns(cols []string) string { return strings.Join(cols, ", ") }
