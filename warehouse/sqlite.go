package warehouse

import (
	"context"
	"database/sql"

	"github.com/pixelspark/warp/dialect/sqlite"
	"github.com/pixelspark/warp/table"
	_ "modernc.org/sqlite"
)

// SQLite is a Warehouse/MutableDataset backed by database/sql and the
// pure-Go modernc.org/sqlite driver.
type SQLite struct{ *sqlWarehouse }

// OpenSQLite opens a SQLite database at path (or ":memory:").
func OpenSQLite(path string) (*SQLite, error) {
	w, err := openSQLWarehouse("sqlite", path, sqlite.New(), discoverSQLiteColumns)
	if err != nil {
		return nil, err
	}
	return &SQLite{w}, nil
}

func (s *SQLite) InsertRow(ctx context.Context, tableName string, values map[string]interface{}) error {
	return s.insertRow(ctx, tableName, values)
}
func (s *SQLite) UpdateRows(ctx context.Context, tableName, where, set string) (int64, error) {
	return s.updateRows(ctx, tableName, where, set)
}
func (s *SQLite) DeleteRows(ctx context.Context, tableName, where string) (int64, error) {
	return s.deleteRows(ctx, tableName, where)
}

func discoverSQLiteColumns(ctx context.Context, db *sql.DB, tableName string) (table.Columns, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+quoteSQLiteIdent(tableName)+")")
	if err != nil {
		return table.Columns{}, err
	}
	defer rows.Close()
	var cols []table.Column
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull int
		var dflt interface{}
		var pk int
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return table.Columns{}, err
		}
		cols = append(cols, table.Column(name))
	}
	return table.NewColumns(cols...), rows.Err()
}

func quoteSQLiteIdent(name string) string { return `"` + name + `"` }
