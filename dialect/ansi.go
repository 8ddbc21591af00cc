package dialect

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/value"
)

// ANSI implements the common subset of SQL-92 operator/function/
// aggregate emission shared by every dialect in this package; concrete
// dialects embed it and override only identifier quoting, LIMIT/OFFSET
// syntax, and whatever functions/aggregates diverge from the standard.
type ANSI struct{}

var ansiBinary = map[expr.BinaryOp]string{
	expr.OpAdd:  "+",
	expr.OpSub:  "-",
	expr.OpMul:  "*",
	expr.OpDiv:  "/",
	expr.OpGt:   ">",
	expr.OpLt:   "<",
	expr.OpGte:  ">=",
	expr.OpLte:  "<=",
	expr.OpEq:   "=",
	expr.OpNeq:  "<>",
}

func (ANSI) QuoteLiteral(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindInvalid, value.KindBlob:
		return "", false
	case value.KindEmpty:
		return "NULL", true
	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return "TRUE", true
		}
		return "FALSE", true
	case value.KindInt:
		i, _ := v.AsInt()
		return fmt.Sprintf("%d", i), true
	case value.KindDouble:
		d, _ := v.AsDouble()
		return fmt.Sprintf("%v", d), true
	case value.KindString:
		return "'" + strings.ReplaceAll(v.AsString(), "'", "''") + "'", true
	case value.KindDate:
		return "'" + v.ToTime().UTC().Format("2006-01-02 15:04:05") + "'", true
	default:
		return "", false
	}
}

func (ANSI) EmitBinary(op expr.BinaryOp, lhs, rhs string) (string, bool) {
	switch op {
	case expr.OpCat:
		return "(" + lhs + " || " + rhs + ")", true
	case expr.OpContains:
		return "(" + lhs + " LIKE '%' || " + rhs + " || '%')", true
	}
	sym, ok := ansiBinary[op]
	if !ok {
		return "", false
	}
	return "(" + lhs + " " + sym + " " + rhs + ")", true
}

var ansiFunctions = map[string]string{
	"abs":   "ABS",
	"ceiling": "CEIL",
	"floor": "FLOOR",
	"sqrt":  "SQRT",
	"upper": "UPPER",
	"lower": "LOWER",
	"trim":  "TRIM",
	"length": "LENGTH",
}

func (ANSI) EmitFunction(name string, args []string) (string, bool) {
	fn, ok := ansiFunctions[name]
	if !ok {
		return "", false
	}
	return fn + "(" + strings.Join(args, ", ") + ")", true
}

var ansiAggregates = map[string]string{
	"sum":     "SUM",
	"average": "AVG",
	"min":     "MIN",
	"max":     "MAX",
	"count":   "COUNT",
}

func (ANSI) EmitAggregate(reducerName string, argSQL string) (string, bool) {
	fn, ok := ansiAggregates[reducerName]
	if !ok {
		return "", false
	}
	return fn + "(" + argSQL + ")", true
}

func (ANSI) SupportsPivot() bool { return false }
