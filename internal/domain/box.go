package domain

import (
	"context"
	"fmt"
	"time"
)

// Stage is the lifecycle stage of a savings box. The box starts Active;
// StageFinished is declared as the terminal stage but no code path sets it.
type Stage string

const (
	StageActive   Stage = "active"
	StageFinished Stage = "finished"
)

// BoxConfig is the immutable configuration of a savings box, fixed at
// creation time.
type BoxConfig struct {
	ContributionAmount int64 // base units paid once per period
	NumPayments        int
	PayTime            time.Duration // period length
	WithdrawFeePercent int64         // 0..100
	CreatedAt          time.Time
}

// Validate rejects configurations that can never run a schedule.
// A zero fee is allowed.
func (c BoxConfig) Validate() error {
	if c.ContributionAmount <= 0 {
		return fmt.Errorf("%w: contribution amount must be positive", ErrInvalidInput)
	}
	if c.NumPayments <= 0 {
		return fmt.Errorf("%w: number of payments must be positive", ErrInvalidInput)
	}
	if c.PayTime <= 0 {
		return fmt.Errorf("%w: pay time must be positive", ErrInvalidInput)
	}
	if c.WithdrawFeePercent < 0 || c.WithdrawFeePercent > 100 {
		return fmt.Errorf("%w: withdraw fee percent must be between 0 and 100", ErrInvalidInput)
	}
	return nil
}

// TotalSavingsTarget is the full schedule amount: contribution × periods.
func (c BoxConfig) TotalSavingsTarget() int64 {
	return c.ContributionAmount * int64(c.NumPayments)
}

// RealPeriod derives the current payment period from wall-clock time.
// Periods are numbered from 1; the first period starts at CreatedAt.
func (c BoxConfig) RealPeriod(now time.Time) int {
	if now.Before(c.CreatedAt) {
		return 1
	}
	return int(now.Sub(c.CreatedAt)/c.PayTime) + 1
}

// BoxState is the mutable shared state of a box. CurrentPeriod starts at 1
// and only ever grows; TotalSavings mirrors the sum of all saver balances.
type BoxState struct {
	CurrentPeriod int
	TotalSavings  int64
	Stage         Stage
}

// Box couples the immutable configuration with the mutable state.
type Box struct {
	Config BoxConfig
	State  BoxState
}

// BoxRepository persists the single box row.
type BoxRepository interface {
	Create(ctx context.Context, box *Box) error
	Get(ctx context.Context) (*Box, error)
	UpdateState(ctx context.Context, state BoxState) error
}
