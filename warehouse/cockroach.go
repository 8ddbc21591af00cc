package warehouse

import (
	_ "github.com/lib/pq"
	"github.com/pixelspark/warp/dialect/cockroach"
)

// Cockroach is a Warehouse/MutableDataset for CockroachDB. It reuses
// lib/pq (Cockroach speaks the PostgreSQL wire protocol) and the
// Postgres catalog-discovery query, since CockroachDB implements the
// same information_schema views.
type Cockroach struct{ *sqlWarehouse }

// OpenCockroach opens a CockroachDB connection using a lib/pq-style DSN.
func OpenCockroach(dsn string) (*Cockroach, error) {
	w, err := openSQLWarehouse("postgres", dsn, cockroach.New(), discoverPostgresColumns)
	if err != nil {
		return nil, err
	}
	return &Cockroach{w}, nil
}
