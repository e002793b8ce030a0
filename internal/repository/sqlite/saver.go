package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Bloinx/investco/internal/domain"
)

// SaverRepository implements domain.SaverRepository using SQLite.
type SaverRepository struct {
	db executor
}

// NewSaverRepository creates a new SQLite-backed SaverRepository.
func NewSaverRepository(db *DB) *SaverRepository {
	return &SaverRepository{db: db.SqlDB}
}

func (r *SaverRepository) Create(ctx context.Context, saver *domain.Saver) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO savers (user_id, available_savings, valid_payments, late_payments, active, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		saver.UserID, saver.AvailableSavings, saver.ValidPayments, saver.LatePayments,
		saver.Active, saver.Position, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert saver: %w", err)
	}
	saver.CreatedAt = now
	saver.UpdatedAt = now
	return nil
}

func (r *SaverRepository) GetByUserID(ctx context.Context, userID int64) (*domain.Saver, error) {
	saver := &domain.Saver{}
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, available_savings, valid_payments, late_payments, active, position, created_at, updated_at
		 FROM savers WHERE user_id = ?`, userID,
	).Scan(&saver.UserID, &saver.AvailableSavings, &saver.ValidPayments, &saver.LatePayments,
		&saver.Active, &saver.Position, &saver.CreatedAt, &saver.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query saver by user id: %w", err)
	}
	return saver, nil
}

// ListRegistered returns active savers in first-payment order.
func (r *SaverRepository) ListRegistered(ctx context.Context) ([]domain.Saver, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, available_savings, valid_payments, late_payments, active, position, created_at, updated_at
		 FROM savers WHERE active = 1 ORDER BY position`,
	)
	if err != nil {
		return nil, fmt.Errorf("query registered savers: %w", err)
	}
	defer rows.Close()

	var savers []domain.Saver
	for rows.Next() {
		var s domain.Saver
		if err := rows.Scan(&s.UserID, &s.AvailableSavings, &s.ValidPayments, &s.LatePayments,
			&s.Active, &s.Position, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan saver: %w", err)
		}
		savers = append(savers, s)
	}
	return savers, rows.Err()
}

func (r *SaverRepository) CountRegistered(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM savers WHERE active = 1`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count registered savers: %w", err)
	}
	return count, nil
}

// SumSavings returns the sum of available savings across all ledger records,
// active or not. Used by the aggregate audit.
func (r *SaverRepository) SumSavings(ctx context.Context) (int64, error) {
	var sum int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(available_savings), 0) FROM savers`).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("sum savings: %w", err)
	}
	return sum, nil
}

func (r *SaverRepository) Update(ctx context.Context, saver *domain.Saver) error {
	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`UPDATE savers
		 SET available_savings = ?, valid_payments = ?, late_payments = ?, active = ?, position = ?, updated_at = ?
		 WHERE user_id = ?`,
		saver.AvailableSavings, saver.ValidPayments, saver.LatePayments,
		saver.Active, saver.Position, now, saver.UserID,
	)
	if err != nil {
		return fmt.Errorf("update saver: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	saver.UpdatedAt = now
	return nil
}
