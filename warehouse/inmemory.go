package warehouse

import (
	"context"

	"github.com/pixelspark/warp/dialect"
	"github.com/pixelspark/warp/dialect/sqlite"
	"github.com/pixelspark/warp/table"
)

// InMemory is a Warehouse that never touches a real connection: it
// answers every Query with a fixed Raster regardless of the SQL text
// it is handed, and Columns from a small name->Columns registry. It
// exists so SQLDataset's pushdown/fallback logic can be exercised in
// tests without a live database/sql driver, the same role the
// teacher's DryRunDatabase plays for the DDL apply path — a stand-in
// that answers without touching the wrapped backend.
type InMemory struct {
	dialect dialect.Dialect
	tables  map[string]*table.Raster
}

// NewInMemory creates an InMemory warehouse using d to render SQL text
// (sqlite's dialect if d is nil, since it needs no driver) and no
// registered tables.
func NewInMemory(d dialect.Dialect) *InMemory {
	if d == nil {
		d = sqlite.New()
	}
	return &InMemory{dialect: d, tables: map[string]*table.Raster{}}
}

// Seed registers tableName's data, as later returned by Query
// (regardless of the SQL text asked for) and by Columns.
func (m *InMemory) Seed(tableName string, r *table.Raster) {
	m.tables[tableName] = r
}

func (m *InMemory) Dialect() dialect.Dialect { return m.dialect }

// Query ignores sqlText and returns the sole seeded table's raster;
// InMemory is meant for single-table pushdown/fallback tests, not for
// verifying generated SQL against multiple tables.
func (m *InMemory) Query(ctx context.Context, sqlText string) (*table.Raster, error) {
	for _, r := range m.tables {
		return r, nil
	}
	return table.NewRaster(table.Columns{}), nil
}

func (m *InMemory) Columns(ctx context.Context, tableName string) (table.Columns, error) {
	if r, ok := m.tables[tableName]; ok {
		return r.Columns(), nil
	}
	return table.Columns{}, nil
}

func (m *InMemory) Close() error { return nil }
