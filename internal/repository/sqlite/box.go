package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Bloinx/investco/internal/domain"
)

// BoxRepository implements domain.BoxRepository using SQLite. There is a
// single box per deployment, stored in the row with id 1.
type BoxRepository struct {
	db executor
}

// NewBoxRepository creates a new SQLite-backed BoxRepository.
func NewBoxRepository(db *DB) *BoxRepository {
	return &BoxRepository{db: db.SqlDB}
}

func (r *BoxRepository) Create(ctx context.Context, box *domain.Box) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO boxes (id, contribution_amount, num_payments, pay_time_seconds, withdraw_fee_percent,
		                    created_at, current_period, total_savings, stage)
		 VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)`,
		box.Config.ContributionAmount, box.Config.NumPayments, int64(box.Config.PayTime/time.Second),
		box.Config.WithdrawFeePercent, box.Config.CreatedAt.UTC(),
		box.State.CurrentPeriod, box.State.TotalSavings, string(box.State.Stage),
	)
	if err != nil {
		return fmt.Errorf("insert box: %w", err)
	}
	return nil
}

func (r *BoxRepository) Get(ctx context.Context) (*domain.Box, error) {
	box := &domain.Box{}
	var payTimeSeconds int64
	var stage string
	err := r.db.QueryRowContext(ctx,
		`SELECT contribution_amount, num_payments, pay_time_seconds, withdraw_fee_percent,
		        created_at, current_period, total_savings, stage
		 FROM boxes WHERE id = 1`,
	).Scan(&box.Config.ContributionAmount, &box.Config.NumPayments, &payTimeSeconds,
		&box.Config.WithdrawFeePercent, &box.Config.CreatedAt,
		&box.State.CurrentPeriod, &box.State.TotalSavings, &stage)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("query box: %w", err)
	}
	box.Config.PayTime = time.Duration(payTimeSeconds) * time.Second
	box.State.Stage = domain.Stage(stage)
	return box, nil
}

func (r *BoxRepository) UpdateState(ctx context.Context, state domain.BoxState) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE boxes SET current_period = ?, total_savings = ?, stage = ? WHERE id = 1`,
		state.CurrentPeriod, state.TotalSavings, string(state.Stage),
	)
	if err != nil {
		return fmt.Errorf("update box state: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
