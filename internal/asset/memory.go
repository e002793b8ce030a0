package asset

import (
	"context"
	"fmt"
	"sync"
)

// Bank is an in-memory asset gateway used in local mode and tests.
// It tracks plain balances; transfers fail when the owner is short.
type Bank struct {
	mu         sync.Mutex
	balances   map[string]int64
	allowances map[string]int64 // spender -> approved amount
}

// NewBank creates an empty in-memory bank.
func NewBank() *Bank {
	return &Bank{
		balances:   make(map[string]int64),
		allowances: make(map[string]int64),
	}
}

// Mint credits an account out of thin air. Test and local-mode helper.
func (b *Bank) Mint(account string, amount int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.balances[account] += amount
}

func (b *Bank) TransferFrom(_ context.Context, owner, recipient string, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if amount <= 0 {
		return fmt.Errorf("transfer amount must be positive, got %d", amount)
	}
	if b.balances[owner] < amount {
		return fmt.Errorf("insufficient balance: account %s has %d, needs %d", owner, b.balances[owner], amount)
	}
	b.balances[owner] -= amount
	b.balances[recipient] += amount
	return nil
}

func (b *Bank) Approve(_ context.Context, spender string, amount int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allowances[spender] = amount
	return nil
}

func (b *Bank) BalanceOf(_ context.Context, account string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.balances[account], nil
}

// Allowance returns the approved amount for a spender. Test helper.
func (b *Bank) Allowance(spender string) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.allowances[spender]
}
