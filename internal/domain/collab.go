package domain

import "context"

// AssetGateway moves value between accounts of the underlying asset.
// Accounts are identified by wallet address.
type AssetGateway interface {
	// TransferFrom moves amount from owner to recipient.
	TransferFrom(ctx context.Context, owner, recipient string, amount int64) error
	// Approve authorizes spender to pull up to amount from the caller's
	// custody account.
	Approve(ctx context.Context, spender string, amount int64) error
	// BalanceOf returns the asset balance of an account.
	BalanceOf(ctx context.Context, account string) (int64, error)
}

// AccountData is the yield pool's view of an account.
type AccountData struct {
	CollateralValue int64
	DebtValue       int64
	AvailableBorrow int64
}

// YieldPool is the external venue holding deposited funds on the box's
// behalf. Yield accounting beyond what the pool reports is out of scope.
type YieldPool interface {
	Supply(ctx context.Context, asset string, amount int64, onBehalfOf string, referralCode uint16) error
	// Withdraw pays amount of asset to recipient and returns the amount
	// actually withdrawn.
	Withdraw(ctx context.Context, asset string, amount int64, recipient string) (int64, error)
	AccountData(ctx context.Context, account string) (AccountData, error)
}

// Notifier publishes fire-and-forget box events. Implementations must not
// block box operations on delivery and must not return errors to the caller;
// delivery failures are logged and dropped.
type Notifier interface {
	BoxCreated(cfg BoxConfig)
	UserRegistered(ref string, userID int64, position int)
	PaymentMade(ref string, userID int64, amount int64, period int)
	FundsWithdrawn(ref string, userID int64, net, fee int64)
	StageChanged(from, to Stage)
}
