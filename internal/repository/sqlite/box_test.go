package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Bloinx/investco/internal/domain"
)

func testBox() *domain.Box {
	return &domain.Box{
		Config: domain.BoxConfig{
			ContributionAmount: 100,
			NumPayments:        12,
			PayTime:            7 * 24 * time.Hour,
			WithdrawFeePercent: 20,
			CreatedAt:          time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		},
		State: domain.BoxState{
			CurrentPeriod: 1,
			Stage:         domain.StageActive,
		},
	}
}

func TestBoxRepository_CreateAndGet(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	box := testBox()
	if err := db.Boxes().Create(ctx, box); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := db.Boxes().Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Config.ContributionAmount != 100 || got.Config.NumPayments != 12 {
		t.Fatalf("unexpected config: %+v", got.Config)
	}
	if got.Config.PayTime != 7*24*time.Hour {
		t.Fatalf("expected pay time %v, got %v", 7*24*time.Hour, got.Config.PayTime)
	}
	if !got.Config.CreatedAt.Equal(box.Config.CreatedAt) {
		t.Fatalf("expected created at %v, got %v", box.Config.CreatedAt, got.Config.CreatedAt)
	}
	if got.State.CurrentPeriod != 1 || got.State.Stage != domain.StageActive {
		t.Fatalf("unexpected state: %+v", got.State)
	}
}

func TestBoxRepository_Get_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Boxes().Get(context.Background())
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestBoxRepository_Create_SingleRow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Boxes().Create(ctx, testBox()); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := db.Boxes().Create(ctx, testBox()); err == nil {
		t.Fatal("expected error creating a second box")
	}
}

func TestBoxRepository_UpdateState(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if err := db.Boxes().Create(ctx, testBox()); err != nil {
		t.Fatalf("Create: %v", err)
	}

	state := domain.BoxState{CurrentPeriod: 4, TotalSavings: 700, Stage: domain.StageActive}
	if err := db.Boxes().UpdateState(ctx, state); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}

	got, err := db.Boxes().Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State.CurrentPeriod != 4 || got.State.TotalSavings != 700 {
		t.Fatalf("unexpected state after update: %+v", got.State)
	}
}

func TestBoxRepository_UpdateState_NotFound(t *testing.T) {
	db := newTestDB(t)

	err := db.Boxes().UpdateState(context.Background(), domain.BoxState{CurrentPeriod: 2})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
