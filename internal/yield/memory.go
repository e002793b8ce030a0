package yield

import (
	"context"
	"fmt"
	"sync"

	"github.com/Bloinx/investco/internal/domain"
)

// Pool is an in-memory yield pool used in local mode and tests. It tracks
// supplied positions per account and pays withdrawals out of the owner's
// position. No yield accrues.
type Pool struct {
	mu        sync.Mutex
	owner     string // account debited by withdrawals
	positions map[string]int64
	payouts   map[string]int64 // recipient -> total paid out
}

// NewPool creates an in-memory pool. Withdrawals draw down the given
// owner's position, matching how the box supplies on behalf of custody.
func NewPool(owner string) *Pool {
	return &Pool{
		owner:     owner,
		positions: make(map[string]int64),
		payouts:   make(map[string]int64),
	}
}

func (p *Pool) Supply(_ context.Context, _ string, amount int64, onBehalfOf string, _ uint16) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("supply amount must be positive, got %d", amount)
	}
	p.positions[onBehalfOf] += amount
	return nil
}

func (p *Pool) Withdraw(_ context.Context, _ string, amount int64, recipient string) (int64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if amount <= 0 {
		return 0, fmt.Errorf("withdraw amount must be positive, got %d", amount)
	}
	if p.positions[p.owner] < amount {
		return 0, fmt.Errorf("insufficient collateral: position %d, requested %d", p.positions[p.owner], amount)
	}
	p.positions[p.owner] -= amount
	p.payouts[recipient] += amount
	return amount, nil
}

func (p *Pool) AccountData(_ context.Context, account string) (domain.AccountData, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return domain.AccountData{CollateralValue: p.positions[account]}, nil
}

// PaidTo returns the total paid out to a recipient. Test helper.
func (p *Pool) PaidTo(recipient string) int64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.payouts[recipient]
}
