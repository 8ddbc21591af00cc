// Package mysql implements dialect.Dialect for MySQL/MariaDB,
// grounded on the go-sql-driver/mysql-backed warehouse.
package mysql

import (
	"fmt"
	"strings"

	"github.com/pixelspark/warp/dialect"
)

type Dialect struct{ dialect.ANSI }

func New() Dialect { return Dialect{} }

func (Dialect) Name() string { return "mysql" }

func (Dialect) QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func (Dialect) LimitOffset(limit, offset *int) string {
	switch {
	case limit == nil && offset == nil:
		return ""
	case limit == nil:
		// MySQL requires a LIMIT to use OFFSET; 2^62, far beyond any
		// real row count, stands in as the "no limit" sentinel.
		return fmt.Sprintf("LIMIT %d OFFSET %d", int64(1<<62), *offset)
	case offset == nil:
		return fmt.Sprintf("LIMIT %d", *limit)
	default:
		return fmt.Sprintf("LIMIT %d OFFSET %d", *limit, *offset)
	}
}
