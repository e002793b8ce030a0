package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Bloinx/investco/internal/domain"
)

// Addresses holds the fixed accounts and asset the box operates with.
type Addresses struct {
	Asset        string // asset identifier supplied to the yield pool
	Custody      string // account holding pulled contributions
	Operator     string // withdrawal fee recipient
	Pool         string // yield pool account approved to pull from custody
	ReferralCode uint16
}

// BoxService runs the savings box: payment admission, period advancement,
// lateness detection, and withdrawals.
//
// All mutating operations execute under a single mutex, so exactly one call
// is in flight per box at a time. The period-advance rescan iterates the
// whole registry inside the triggering call; latency grows linearly with
// the number of registered savers.
type BoxService struct {
	mu       sync.Mutex
	box      *domain.Box
	boxes    domain.BoxRepository
	savers   domain.SaverRepository
	ledger   domain.Ledger
	assets   domain.AssetGateway
	pool     domain.YieldPool
	notifier domain.Notifier
	addr     Addresses

	// Now is the clock used by the period oracle. Tests may replace it.
	Now func() time.Time
}

// NewBoxService creates a BoxService. Call Init before serving requests.
func NewBoxService(boxes domain.BoxRepository, savers domain.SaverRepository,
	ledger domain.Ledger, assets domain.AssetGateway, pool domain.YieldPool,
	notifier domain.Notifier, addr Addresses) *BoxService {
	return &BoxService{
		boxes:    boxes,
		savers:   savers,
		ledger:   ledger,
		assets:   assets,
		pool:     pool,
		notifier: notifier,
		addr:     addr,
		Now:      time.Now,
	}
}

// Init loads the persisted box or creates it from cfg on first run. The
// persisted configuration is authoritative across restarts; cfg is only
// consulted when no box exists yet.
func (s *BoxService) Init(ctx context.Context, cfg domain.BoxConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	box, err := s.boxes.Get(ctx)
	if err == nil {
		s.box = box
		return nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("load box: %w", err)
	}

	if cfg.CreatedAt.IsZero() {
		cfg.CreatedAt = s.Now().UTC()
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	box = &domain.Box{
		Config: cfg,
		State: domain.BoxState{
			CurrentPeriod: 1,
			TotalSavings:  0,
			Stage:         domain.StageActive,
		},
	}
	if err := s.boxes.Create(ctx, box); err != nil {
		return fmt.Errorf("create box: %w", err)
	}
	s.box = box

	s.notifier.BoxCreated(cfg)
	slog.Info("savings box created",
		"contribution", cfg.ContributionAmount,
		"payments", cfg.NumPayments,
		"pay_time", cfg.PayTime,
		"fee_percent", cfg.WithdrawFeePercent,
	)
	return nil
}

// PaymentReceipt summarizes a successful payment admission.
type PaymentReceipt struct {
	Ref              string
	Period           int
	Amount           int64
	AvailableSavings int64
	ValidPayments    int
}

// AdmitPayment catches the caller up by one fixed contribution. It derives
// the real period from the clock, advances the stored period (rescanning the
// registry for late savers) when a boundary has been crossed, registers
// first-time payers while the box is still in period 1, and then pulls and
// supplies the contribution.
//
// A collaborator failure aborts the call with nothing committed: the period
// advance is staged and only written alongside the payment, and the next
// call re-derives the identical scan result from the cumulative balances.
func (s *BoxService) AdmitPayment(ctx context.Context, user *domain.User) (*PaymentReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.box.Config
	real := cfg.RealPeriod(s.Now())
	if real > cfg.NumPayments {
		return nil, domain.ErrNoMorePayments
	}

	saver, err := s.savers.GetByUserID(ctx, user.ID)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("get saver: %w", err)
		}
		saver = nil
	}

	var available int64
	if saver != nil {
		available = saver.AvailableSavings
	}
	if cfg.ContributionAmount > cfg.TotalSavingsTarget()-available {
		return nil, domain.ErrPaymentsUpToDate
	}

	period := s.box.State.CurrentPeriod
	var lateBumps []domain.Saver
	if period < real {
		lateBumps, err = s.stageAdvance(ctx, real)
		if err != nil {
			return nil, err
		}
		period = real
	}

	registering := saver == nil && period == 1
	amount := cfg.ContributionAmount
	ref := uuid.NewString()

	// Collaborators first: pull the contribution into custody, authorize the
	// pool, and supply on the box's behalf. Any failure propagates before a
	// single ledger row is touched.
	if err := s.assets.TransferFrom(ctx, user.WalletAddress, s.addr.Custody, amount); err != nil {
		return nil, fmt.Errorf("pull contribution: %w", err)
	}
	if err := s.assets.Approve(ctx, s.addr.Pool, amount); err != nil {
		return nil, fmt.Errorf("approve pool: %w", err)
	}
	if err := s.pool.Supply(ctx, s.addr.Asset, amount, s.addr.Custody, s.addr.ReferralCode); err != nil {
		return nil, fmt.Errorf("supply pool: %w", err)
	}

	// Stage the final rows before touching the ledger. The scan may have
	// bumped the paying saver's lateness; that copy is the one the payment
	// folds into, so the bump loop skips it.
	creating := saver == nil
	var payerBumped bool
	var updated domain.Saver
	if creating {
		updated = domain.Saver{UserID: user.ID}
		if registering {
			count, err := s.savers.CountRegistered(ctx)
			if err != nil {
				return nil, fmt.Errorf("count registered: %w", err)
			}
			updated.Active = true
			updated.Position = count + 1
		}
	} else {
		updated = *saver
		for i := range lateBumps {
			if lateBumps[i].UserID == user.ID {
				updated = lateBumps[i]
				payerBumped = true
				break
			}
		}
	}
	updated.AvailableSavings += amount
	updated.ValidPayments++

	state := s.box.State
	state.CurrentPeriod = period
	state.TotalSavings += amount

	// Every row lands in one transaction; a failure anywhere rolls the
	// whole scan and payment back and leaves the cached state untouched.
	err = s.ledger.InTx(ctx, func(savers domain.SaverRepository, boxes domain.BoxRepository) error {
		for i := range lateBumps {
			if payerBumped && lateBumps[i].UserID == user.ID {
				continue
			}
			if err := savers.Update(ctx, &lateBumps[i]); err != nil {
				return fmt.Errorf("record late payments: %w", err)
			}
		}
		if creating {
			if err := savers.Create(ctx, &updated); err != nil {
				return fmt.Errorf("create saver: %w", err)
			}
		} else if err := savers.Update(ctx, &updated); err != nil {
			return fmt.Errorf("record payment: %w", err)
		}
		if err := boxes.UpdateState(ctx, state); err != nil {
			return fmt.Errorf("update box state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.box.State = state

	if registering {
		s.notifier.UserRegistered(ref, user.ID, updated.Position)
		slog.Info("saver registered", "ref", ref, "user_id", user.ID, "position", updated.Position)
	}
	s.notifier.PaymentMade(ref, user.ID, amount, period)
	slog.Info("payment recorded",
		"ref", ref, "user_id", user.ID, "amount", amount, "period", period)

	return &PaymentReceipt{
		Ref:              ref,
		Period:           period,
		Amount:           amount,
		AvailableSavings: updated.AvailableSavings,
		ValidPayments:    updated.ValidPayments,
	}, nil
}

// stageAdvance computes the lateness updates for one registry scan without
// writing anything. For each registered saver the number of completed
// payments is re-derived from the cumulative balance; the shortfall against
// the real period, net of lateness already recorded, is what gets added.
// Each missed period is therefore counted exactly once, and catching up
// later never erases lateness already on record.
func (s *BoxService) stageAdvance(ctx context.Context, real int) ([]domain.Saver, error) {
	registered, err := s.savers.ListRegistered(ctx)
	if err != nil {
		return nil, fmt.Errorf("list registry: %w", err)
	}

	contribution := s.box.Config.ContributionAmount
	var bumped []domain.Saver
	for i := range registered {
		saver := &registered[i]
		done := int(saver.AvailableSavings / contribution)
		shortfall := real - saver.LatePayments - done
		if done < real && shortfall > 0 {
			saver.LatePayments += shortfall
			bumped = append(bumped, *saver)
		}
	}
	return bumped, nil
}

// WithdrawalReceipt summarizes a successful withdrawal.
type WithdrawalReceipt struct {
	Ref              string
	Amount           int64
	Fee              int64
	Net              int64
	AvailableSavings int64
}

// Withdraw debits amount from the caller's available savings, then pays the
// net to the caller and the fee to the operator out of the yield pool.
//
// The ledger is debited before any payout is issued: a reentrant or
// concurrent caller observes the reduced balance before funds leave the
// pool. A failure on the fee leg after the net payout succeeded leaves the
// ledger debited; that window is part of the contract.
func (s *BoxService) Withdraw(ctx context.Context, user *domain.User, amount int64) (*WithdrawalReceipt, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidInput)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	saver, err := s.savers.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotRegistered
		}
		return nil, fmt.Errorf("get saver: %w", err)
	}
	if !saver.Active {
		return nil, domain.ErrUserNotRegistered
	}
	if amount > saver.AvailableSavings {
		return nil, domain.ErrWithdrawalTooLarge
	}

	fee := amount * s.box.Config.WithdrawFeePercent / 100
	net := amount - fee
	ref := uuid.NewString()

	updated := *saver
	updated.AvailableSavings -= amount
	state := s.box.State
	state.TotalSavings -= amount

	// Debit the saver and the aggregate together; neither row survives a
	// failure of the other.
	err = s.ledger.InTx(ctx, func(savers domain.SaverRepository, boxes domain.BoxRepository) error {
		if err := savers.Update(ctx, &updated); err != nil {
			return fmt.Errorf("debit saver: %w", err)
		}
		if err := boxes.UpdateState(ctx, state); err != nil {
			return fmt.Errorf("update box state: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.box.State = state

	if _, err := s.pool.Withdraw(ctx, s.addr.Asset, net, user.WalletAddress); err != nil {
		return nil, fmt.Errorf("pay out withdrawal: %w", err)
	}
	if fee > 0 {
		if _, err := s.pool.Withdraw(ctx, s.addr.Asset, fee, s.addr.Operator); err != nil {
			return nil, fmt.Errorf("pay out fee: %w", err)
		}
	}

	s.notifier.FundsWithdrawn(ref, user.ID, net, fee)
	slog.Info("withdrawal paid",
		"ref", ref, "user_id", user.ID, "net", net, "fee", fee)

	return &WithdrawalReceipt{
		Ref:              ref,
		Amount:           amount,
		Fee:              fee,
		Net:              net,
		AvailableSavings: updated.AvailableSavings,
	}, nil
}

// Saver returns the ledger record for a user.
func (s *BoxService) Saver(ctx context.Context, userID int64) (*domain.Saver, error) {
	return s.savers.GetByUserID(ctx, userID)
}

// FuturePayments returns the amount still owed against the full schedule.
// A user with no ledger record owes the whole target.
func (s *BoxService) FuturePayments(ctx context.Context, userID int64) (int64, error) {
	target := s.box.Config.TotalSavingsTarget()
	saver, err := s.savers.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return target, nil
		}
		return 0, fmt.Errorf("get saver: %w", err)
	}
	return target - saver.AvailableSavings, nil
}

// CurrentRealPeriod exposes the period oracle directly, independent of the
// stored counter.
func (s *BoxService) CurrentRealPeriod() int {
	return s.box.Config.RealPeriod(s.Now())
}

// UserCount returns the size of the registry.
func (s *BoxService) UserCount(ctx context.Context) (int, error) {
	return s.savers.CountRegistered(ctx)
}

// Box returns a copy of the current box configuration and state.
func (s *BoxService) Box() domain.Box {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.box
}

// AssetBalance passes a balance query through to the asset gateway. An empty
// account defaults to the custody account.
func (s *BoxService) AssetBalance(ctx context.Context, account string) (int64, error) {
	if account == "" {
		account = s.addr.Custody
	}
	return s.assets.BalanceOf(ctx, account)
}

// Collateral passes the custody account's pool position through unchanged.
func (s *BoxService) Collateral(ctx context.Context) (domain.AccountData, error) {
	return s.pool.AccountData(ctx, s.addr.Custody)
}

// AuditAggregate compares the stored savings aggregate with the sum of all
// ledger balances. It reports both values and never repairs a mismatch.
func (s *BoxService) AuditAggregate(ctx context.Context) (total, sum int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum, err = s.savers.SumSavings(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("sum ledger balances: %w", err)
	}
	return s.box.State.TotalSavings, sum, nil
}
