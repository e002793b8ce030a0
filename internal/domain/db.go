package domain

import "context"

// Database defines lifecycle operations for the underlying database.
// Each implementation owns its own migration files and strategy.
type Database interface {
	Migrate(ctx context.Context) error
	Close() error
}

// Ledger applies multi-row ledger mutations atomically. The repositories
// passed to fn are bound to a single transaction; if fn returns an error
// nothing is committed.
type Ledger interface {
	InTx(ctx context.Context, fn func(savers SaverRepository, boxes BoxRepository) error) error
}
