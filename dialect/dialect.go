// Package dialect abstracts the SQL text differences between backends:
// identifier quoting, literal encoding, function/operator/
// aggregate emission. A Dialect returns ok=false for any construct it
// cannot represent, signaling the caller (package sqldataset) to fall
// back to in-memory evaluation for the whole operator that contained it.
package dialect

import (
	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/value"
)

// Dialect is implemented once per SQL backend.
type Dialect interface {
	Name() string

	// QuoteIdentifier renders a column/table name safely for this
	// backend (backticks, double quotes, brackets...).
	QuoteIdentifier(name string) string

	// QuoteLiteral renders a Value as SQL text. ok is false when the
	// backend has no representation for this Value's Kind.
	QuoteLiteral(v value.Value) (sql string, ok bool)

	// EmitBinary renders a binary operator applied to two already-
	// rendered operands. ok is false when the dialect has no operator
	// or function for op.
	EmitBinary(op expr.BinaryOp, lhs, rhs string) (sql string, ok bool)

	// EmitFunction renders a scalar function call given its already-
	// rendered arguments. ok is false when the backend has nothing
	// that matches named's semantics.
	EmitFunction(name string, args []string) (sql string, ok bool)

	// EmitAggregate renders a Reducer applied to an already-rendered
	// expression, e.g. "SUM(x)".
	EmitAggregate(reducerName string, argSQL string) (sql string, ok bool)

	// SupportsPivot reports whether this backend can express a PIVOT-
	// shaped query natively; when false, sqldataset always falls back
	// to in-memory evaluation for Dataset.Pivot.
	SupportsPivot() bool

	// LimitOffset renders the LIMIT/OFFSET (or backend-equivalent)
	// clause for a fragment.
	LimitOffset(limit, offset *int) string
}
