package domain

import (
	"context"
	"time"
)

// User is a registered account that can participate in the savings box.
// The wallet address identifies the account at the asset gateway and the
// yield pool; the box ledger itself is keyed by the user ID.
type User struct {
	ID            int64
	Email         string
	DisplayName   string
	WalletAddress string
	PasswordHash  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
