package warehouse

import (
	"context"
	"database/sql"

	_ "github.com/denisenkom/go-mssqldb"
	"github.com/pixelspark/warp/dialect/mssql"
	"github.com/pixelspark/warp/table"
)

// MSSQL is a Warehouse/MutableDataset backed by database/sql and
// denisenkom/go-mssqldb.
type MSSQL struct{ *sqlWarehouse }

// OpenMSSQL opens a SQL Server connection using dsn (go-mssqldb URL or
// ADO-style connection string).
func OpenMSSQL(dsn string) (*MSSQL, error) {
	w, err := openSQLWarehouse("sqlserver", dsn, mssql.New(), discoverMSSQLColumns)
	if err != nil {
		return nil, err
	}
	return &MSSQL{w}, nil
}

func (m *MSSQL) InsertRow(ctx context.Context, tableName string, values map[string]interface{}) error {
	return m.insertRow(ctx, tableName, values)
}
func (m *MSSQL) UpdateRows(ctx context.Context, tableName, where, set string) (int64, error) {
	return m.updateRows(ctx, tableName, where, set)
}
func (m *MSSQL) DeleteRows(ctx context.Context, tableName, where string) (int64, error) {
	return m.deleteRows(ctx, tableName, where)
}

func discoverMSSQLColumns(ctx context.Context, db *sql.DB, tableName string) (table.Columns, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = @p1 ORDER BY ordinal_position",
		tableName)
	if err != nil {
		return table.Columns{}, err
	}
	defer rows.Close()
	var cols []table.Column
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return table.Columns{}, err
		}
		cols = append(cols, table.Column(name))
	}
	return table.NewColumns(cols...), rows.Err()
}
