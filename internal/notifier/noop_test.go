package notifier_test

import (
	"testing"
	"time"

	"github.com/Bloinx/investco/internal/domain"
	"github.com/Bloinx/investco/internal/notifier"
)

// Both implementations must satisfy the notifier contract.
var (
	_ domain.Notifier = (*notifier.Noop)(nil)
	_ domain.Notifier = (*notifier.TelegramNotifier)(nil)
)

func TestNoop_AllEventsAreSilent(t *testing.T) {
	n := notifier.NewNoop()

	// Every event must be accepted without side effects or panics; the box
	// never blocks on notification delivery.
	n.BoxCreated(domain.BoxConfig{
		ContributionAmount: 100,
		NumPayments:        12,
		PayTime:            time.Hour,
		WithdrawFeePercent: 20,
	})
	n.UserRegistered("ref-1", 1, 1)
	n.PaymentMade("ref-2", 1, 100, 1)
	n.FundsWithdrawn("ref-3", 1, 80, 20)
	n.StageChanged(domain.StageActive, domain.StageFinished)
}
