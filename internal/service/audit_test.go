package service_test

import (
	"context"
	"testing"

	"github.com/Bloinx/investco/internal/service"
)

func TestAuditor_Register_InvalidSpec(t *testing.T) {
	f := newBoxFixture(t, smallBox())
	auditor := service.NewAuditor(f.box)

	if err := auditor.Register("not a cron spec"); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestAuditor_RunNow(t *testing.T) {
	f := newBoxFixture(t, smallBox())
	ctx := context.Background()

	alice := f.newUser(t, "alice", 1000)
	if _, err := f.box.AdmitPayment(ctx, alice); err != nil {
		t.Fatalf("AdmitPayment: %v", err)
	}

	auditor := service.NewAuditor(f.box)
	if err := auditor.Register("0 * * * * *"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	// The audit only logs; it must run cleanly against a consistent ledger.
	auditor.RunNow()

	total, sum, err := f.box.AuditAggregate(ctx)
	if err != nil {
		t.Fatalf("AuditAggregate: %v", err)
	}
	if total != sum || total != 100 {
		t.Fatalf("expected consistent aggregate of 100, got total=%d sum=%d", total, sum)
	}
}
