package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/Bloinx/investco/internal/domain"
	"github.com/Bloinx/investco/internal/repository/sqlite/migrations"
)

// executor is the subset of database/sql shared by *sql.DB and *sql.Tx,
// letting the repositories run over either the pool or a transaction.
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DB wraps a SQLite connection and hands out repository implementations.
type DB struct {
	SqlDB *sql.DB
}

// New opens a SQLite database at the given path and configures it for use.
// It enables WAL mode and foreign keys.
func New(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	// Enable foreign key enforcement.
	if _, err := db.ExecContext(context.Background(), "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	// Set a reasonable connection pool for SQLite.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{SqlDB: db}, nil
}

// Migrate applies all pending schema migrations.
func (db *DB) Migrate(ctx context.Context) error {
	return migrations.Run(ctx, db.SqlDB)
}

// Close releases the underlying connection.
func (db *DB) Close() error {
	return db.SqlDB.Close()
}

// InTx runs fn with saver and box repositories bound to a single
// transaction. The transaction is committed only when fn returns nil;
// any error rolls back every statement fn issued.
func (db *DB) InTx(ctx context.Context, fn func(savers domain.SaverRepository, boxes domain.BoxRepository) error) error {
	tx, err := db.SqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&SaverRepository{db: tx}, &BoxRepository{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Users returns the user repository backed by this database.
func (db *DB) Users() domain.UserRepository { return NewUserRepository(db) }

// Savers returns the saver repository backed by this database.
func (db *DB) Savers() domain.SaverRepository { return NewSaverRepository(db) }

// Boxes returns the box repository backed by this database.
func (db *DB) Boxes() domain.BoxRepository { return NewBoxRepository(db) }
