package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/table"
	"github.com/pixelspark/warp/value"
)

// sqlWarehouse is the shared database/sql plumbing every concrete
// Warehouse (mysql/postgres/sqlite/mssql) embeds; only the driver
// name, DSN, dialect, and catalog-discovery query differ per backend.
type sqlWarehouse struct {
	db      *sql.DB
	dialect dialect.Dialect
	discover func(ctx context.Context, db *sql.DB, tableName string) (table.Columns, error)
}

func openSQLWarehouse(driverName, dsn string, d dialect.Dialect, discover func(context.Context, *sql.DB, string) (table.Columns, error)) (*sqlWarehouse, error) {
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("warehouse: open %s: %w", driverName, err)
	}
	return &sqlWarehouse{db: db, dialect: d, discover: discover}, nil
}

func (w *sqlWarehouse) Dialect() dialect.Dialect { return w.dialect }

func (w *sqlWarehouse) Close() error { return w.db.Close() }

func (w *sqlWarehouse) Columns(ctx context.Context, tableName string) (table.Columns, error) {
	return w.discover(ctx, w.db, tableName)
}

func (w *sqlWarehouse) Query(ctx context.Context, sqlText string) (*table.Raster, error) {
	rows, err := w.db.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, fmt.Errorf("warehouse: query: %w", err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	cols := make([]table.Column, len(names))
	for i, n := range names {
		cols[i] = table.Column(n)
	}
	raster := table.NewRaster(table.NewColumns(cols...))

	scanDest := make([]interface{}, len(names))
	scanVals := make([]interface{}, len(names))
	for i := range scanDest {
		scanDest[i] = &scanVals[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanDest...); err != nil {
			return nil, fmt.Errorf("warehouse: scan: %w", err)
		}
		values := make([]value.Value, len(names))
		for i, raw := range scanVals {
			values[i] = fromDriverValue(raw)
		}
		raster.AddRow(values)
	}
	return raster, rows.Err()
}

func (w *sqlWarehouse) exec(ctx context.Context, sqlText string) (sql.Result, error) {
	return w.db.ExecContext(ctx, sqlText)
}

// fromDriverValue converts a database/sql scanned value into Warp's
// Value domain.
func fromDriverValue(raw interface{}) value.Value {
	switch v := raw.(type) {
	case nil:
		return value.Empty()
	case bool:
		return value.Bool(v)
	case int64:
		return value.Int(v)
	case float64:
		return value.Double(v)
	case time.Time:
		return value.DateFromTime(v)
	case []byte:
		return value.String(string(v))
	case string:
		return value.String(v)
	default:
		return value.String(fmt.Sprintf("%v", v))
	}
}
