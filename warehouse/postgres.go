package warehouse

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/pixelspark/warp/dialect/postgres"
	"github.com/pixelspark/warp/table"
)

// Postgres is a Warehouse/MutableDataset backed by database/sql and
// lib/pq.
type Postgres struct{ *sqlWarehouse }

// OpenPostgres opens a PostgreSQL connection using dsn (lib/pq DSN or
// connection-string syntax).
func OpenPostgres(dsn string) (*Postgres, error) {
	w, err := openSQLWarehouse("postgres", dsn, postgres.New(), discoverPostgresColumns)
	if err != nil {
		return nil, err
	}
	return &Postgres{w}, nil
}

func (p *Postgres) InsertRow(ctx context.Context, tableName string, values map[string]interface{}) error {
	return p.insertRow(ctx, tableName, values)
}
func (p *Postgres) UpdateRows(ctx context.Context, tableName, where, set string) (int64, error) {
	return p.updateRows(ctx, tableName, where, set)
}
func (p *Postgres) DeleteRows(ctx context.Context, tableName, where string) (int64, error) {
	return p.deleteRows(ctx, tableName, where)
}

func discoverPostgresColumns(ctx context.Context, db *sql.DB, tableName string) (table.Columns, error) {
	rows, err := db.QueryContext(ctx,
		"SELECT column_name FROM information_schema.columns WHERE table_name = $1 ORDER BY ordinal_position",
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
