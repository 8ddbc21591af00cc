// Package postgres implements dialect.Dialect for PostgreSQL, grounded
// on the lib/pq-backed warehouse.
package postgres

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/dialect"
)

type Dialect struct{ dialect.ANSI }

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "postgres" }

func (Dialect) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Dialect) LimitOffset(limit, offset *int) string {
	var parts []string
	if limit != nil {
		parts = append(parts, fmt.Sprintf("LIMIT %d", *limit))
	}
	if offset != nil {
		parts = append(parts, fmt.Sprintf("OFFSET %d", *offset))
	}
	return strings.Join(parts, " ")
}
