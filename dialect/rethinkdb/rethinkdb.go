// Package rethinkdb implements dialect.Dialect for RethinkDB. RethinkDB
// is a document store queried with ReQL, not SQL text, and no Go client
// for it is wired into the warehouse layer (none is present in the
// retrieved example pack). This dialect renders a ReQL-flavored
// approximation of each fragment purely so sqldataset's fallback logic
// and Fragment's stage machine can be exercised against a backend that
// cannot push down most scalar functions or aggregates at all — nearly
// every EmitFunction/EmitAggregate call returns ok=false here, forcing
// evaluation back onto the in-memory raster evaluator.
package rethinkdb

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/expr"
	"github.com/pixelspark/warp/value"
)

type Dialect struct{}

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "rethinkdb" }

func (Dialect) QuoteIdentifier(name string) string { return "\"" + name + "\"" }

func (Dialect) QuoteLiteral(v value.Value) (string, bool) {
	switch v.Kind() {
	case value.KindString:
		return "\"" + strings.ReplaceAll(v.AsString(), "\"", "\\\"") + "\"", true
	case value.KindInt, value.KindDouble, value.KindBool:
		return v.String(), true
	default:
		return "", false
	}
}

// EmitBinary: only equality survives, matching ReQL's r.row("x").eq(v)
// shape; every arithmetic/regex operator falls back to in-memory
// evaluation since this dialect is never backed by a live driver.
func (Dialect) EmitBinary(op expr.BinaryOp, lhs, rhs string) (string, bool) {
	if op == expr.OpEq {
		return fmt.Sprintf("%s.eq(%s)", lhs, rhs), true
	}
	return "", false
}

func (Dialect) EmitFunction(name string, args []string) (string, bool) { return "", false }

func (Dialect) EmitAggregate(reducerName string, argSQL string) (string, bool) { return "", false }

func (Dialect) SupportsPivot() bool { return false }

func (Dialect) LimitOffset(limit, offset *int) string {
	if limit == nil && offset == nil {
		return ""
	}
	off := 0
	if offset != nil {
		off = *offset
	}
	if limit == nil {
		return fmt.Sprintf(".skip(%d)", off)
	}
	return fmt.Sprintf(".slice(%d, %d)", off, off+*limit)
}
