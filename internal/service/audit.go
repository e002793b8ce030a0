package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Auditor periodically checks that the stored savings aggregate matches the
// sum of all ledger balances. Mismatches are logged for the operator, never
// repaired automatically.
type Auditor struct {
	cron *cron.Cron
	box  *BoxService
}

// NewAuditor creates an Auditor around the given box.
func NewAuditor(box *BoxService) *Auditor {
	return &Auditor{
		cron: cron.New(cron.WithSeconds()),
		box:  box,
	}
}

// Register schedules the audit with a 6-field cron spec.
func (a *Auditor) Register(spec string) error {
	if _, err := a.cron.AddFunc(spec, a.run); err != nil {
		return fmt.Errorf("register audit task: %w", err)
	}
	return nil
}

// Start begins running scheduled audits.
func (a *Auditor) Start() { a.cron.Start() }

// Stop stops the scheduler and waits for a running audit to finish.
func (a *Auditor) Stop() {
	<-a.cron.Stop().Done()
}

// RunNow executes a single audit outside the schedule.
func (a *Auditor) RunNow() { a.run() }

func (a *Auditor) run() {
	total, sum, err := a.box.AuditAggregate(context.Background())
	if err != nil {
		slog.Error("savings audit failed", "error", err)
		return
	}
	if total != sum {
		slog.Error("savings aggregate mismatch", "aggregate", total, "ledger_sum", sum)
		return
	}
	slog.Debug("savings aggregate verified", "aggregate", total)
}
