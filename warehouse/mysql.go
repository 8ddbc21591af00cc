package warehouse

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
	"github.com/pixelspark/warp/dialect/mysql"
	"github.com/pixelspark/warp/table"
)

// MySQL is a Warehouse/MutableDataset backed by database/sql and
// go-sql-driver/mysql.
type MySQL struct{ *sqlWarehouse }

// OpenMySQL opens a MySQL connection using dsn (go-sql-driver/mysql
// DSN syntax, e.g. "user:pass@tcp(host:3306)/dbname").
func OpenMySQL(dsn string) (*MySQL, error) {
	w, err := openSQLWarehouse("mysql", dsn, mysql.New(), discoverMySQLColumns)
	if err != nil {
		return nil, err
	}
	return &MySQL{w}, nil
}

func (m *MySQL) InsertRow(ctx context.Context, tableName string, values map[string]interface{}) error {
	return m.insertRow(ctx, tableName, values)
}
func (m *MySQL) UpdateRows(ctx context.Context, tableName, where, set string) (int64, error) {
	return m.updateRows(ctx, tableName, where, set)
}
func (m *MySQL) DeleteRows(ctx context.Context, tableName, where string) (int64, error) {
	return m.deleteRows(ctx, tableName, where)
}

func discoverMySQLColumns(ctx context.Context, db *sql.DB, tableName string) (table.Columns, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = ? ORDER BY ordinal_position",
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
