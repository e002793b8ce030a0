package domain

import (
	"context"
	"time"
)

// Saver is the per-participant ledger record. A record is created on a user's
// first successful payment and is never deleted. Only registered savers
// (Active) appear in the registry and may withdraw; a record created after
// the first period stays inactive but its contributions are still tracked.
type Saver struct {
	UserID           int64
	AvailableSavings int64 // base units, decremented by withdrawals
	ValidPayments    int
	LatePayments     int
	Active           bool
	Position         int // registry order, 1-based; 0 when not registered
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SaverRepository defines persistence for ledger records and the registry.
//
// The registry is append-only: ListRegistered returns active savers in
// first-payment order and there is no removal operation. Callers iterating
// the registry should expect O(n) cost in the number of registered savers.
type SaverRepository interface {
	Create(ctx context.Context, saver *Saver) error
	GetByUserID(ctx context.Context, userID int64) (*Saver, error)
	ListRegistered(ctx context.Context) ([]Saver, error)
	CountRegistered(ctx context.Context) (int, error)
	SumSavings(ctx context.Context) (int64, error)
	Update(ctx context.Context, saver *Saver) error
}
