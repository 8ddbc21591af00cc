// Package sqlite implements dialect.Dialect for SQLite, grounded on
// the modernc.org/sqlite-backed warehouse.
package sqlite

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/dialect"
)

type Dialect struct{ dialect.ANSI }

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "sqlite" }

func (Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialect) LimitOffset(limit, offset *int) string {
	switch {
	case limit == nil && offset == nil:
		return ""
	case limit == nil:
		return fmt.Sprintf("LIMIT -1 OFFSET %d", *offset)
	case offset == nil:
		return fmt.Sprintf("LIMIT %d", *limit)
	default:
		return fmt.Sprintf("LIMIT %d OFFSET %d", *limit, *offset)
	}
}
