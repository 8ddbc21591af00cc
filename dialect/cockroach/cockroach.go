// Package cockroach implements dialect.Dialect for CockroachDB. Cockroach
// speaks the PostgreSQL wire protocol and SQL dialect closely enough
// that it is grounded directly on dialect/postgres (and therefore on
// the same lib/pq driver in the warehouse layer) rather than on any
// CockroachDB-specific client.
package cockroach

import "github.com/pixelspark/warp/dialect/postgres"

// Dialect is dialect/postgres's Dialect under a distinct backend name,
// so sqldataset logs/selects the right warehouse driver while reusing
// every operator/function/literal rule unchanged.
type Dialect struct{ postgres.Dialect }

func New() Dialect { return Dialect{Dialect: postgres.New()} }

func (Dialect) Name() string { return "cockroach" }
