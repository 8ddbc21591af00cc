// Package warehouse is the concrete SQL backend contract: a
// Warehouse is a live connection plus the dialect it speaks, and a
// MutableDataset additionally supports writing rows back. Concrete
// warehouses wrap database/sql drivers; identifier discovery queries
// each backend's own catalog (information_schema, PRAGMA table_info)
// to build the table.Columns a SQLDataset is constructed with.
package warehouse

import (
	"context"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/table"
)

// Warehouse is a read connection to a SQL backend.
type Warehouse interface {
	Dialect() dialect.Dialect

	// Query executes sql and materializes the result as a Raster.
	Query(ctx context.Context, sql string) (*table.Raster, error)

	// Columns discovers a table's column names via the backend's own
	// catalog mechanism (information_schema, PRAGMA table_info, ...).
	Columns(ctx context.Context, table string) (table_ table.Columns, err error)

	// Close releases the underlying connection.
	Close() error
}

// MutableDataset is a Warehouse that additionally accepts row-level
// writes, matching the Warehouse/MutableDataset split in the data
// model: a Dataset computed by the algebra is generally read-only,
// but a MutableDataset backed directly by a warehouse table can be
// edited and the edits pushed back as INSERT/UPDATE/DELETE.
type MutableDataset interface {
	Warehouse

	// InsertRow appends one row of values (keyed by column name) to
	// table.
	InsertRow(ctx context.Context, tableName string, values map[string]interface{}) error

	// UpdateRows applies set to every row in table matching where,
	// both already-rendered SQL fragments in this Warehouse's dialect.
	UpdateRows(ctx context.Context, tableName, where, set string) (int64, error)

	// DeleteRows removes every row in table matching where.
	DeleteRows(ctx context.Context, tableName, where string) (int64, error)
}
