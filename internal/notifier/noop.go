package notifier

import "github.com/Bloinx/investco/internal/domain"

// Noop discards every event. Used when no Telegram credentials are
// configured and in tests.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (Noop) BoxCreated(domain.BoxConfig)                {}
func (Noop) UserRegistered(string, int64, int)          {}
func (Noop) PaymentMade(string, int64, int64, int)      {}
func (Noop) FundsWithdrawn(string, int64, int64, int64) {}
func (Noop) StageChanged(domain.Stage, domain.Stage)    {}
