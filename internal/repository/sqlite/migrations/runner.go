package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"
	"sort"
	"strings"
)

// Run brings the box database schema up to date by applying every embedded
// script that has not run yet, in lexical order. Applied scripts are
// recorded in a schema_migrations table keyed by filename, so reruns after
// a restart are no-ops.
func Run(ctx context.Context, db *sql.DB) error {
	if err := ensureLedgerTable(ctx, db); err != nil {
		return fmt.Errorf("ensure migration ledger: %w", err)
	}

	done, err := appliedSet(ctx, db)
	if err != nil {
		return fmt.Errorf("read migration ledger: %w", err)
	}

	scripts, err := scriptNames()
	if err != nil {
		return fmt.Errorf("list migration scripts: %w", err)
	}

	for _, name := range scripts {
		if done[name] {
			slog.Debug("schema script already applied", "script", name)
			continue
		}
		if err := runScript(ctx, db, name); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		slog.Info("schema script applied", "script", name)
	}
	return nil
}

func ensureLedgerTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`)
	return err
}

func appliedSet(ctx context.Context, db *sql.DB) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		done[name] = true
	}
	return done, rows.Err()
}

func scriptNames() ([]string, error) {
	entries, err := fs.ReadDir(FS, ".")
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// runScript executes one script and records it in the same transaction, so
// a failed script leaves neither schema changes nor a ledger row behind.
func runScript(ctx context.Context, db *sql.DB, name string) error {
	body, err := fs.ReadFile(FS, name)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, string(body)); err != nil {
		return fmt.Errorf("execute sql: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
		return fmt.Errorf("record script: %w", err)
	}
	return tx.Commit()
}
