package services

import (
	"context"
	"errors"
	"testing"

	"github.com/username/stockfolio/src/models"
)

func TestRegisterRejectsUnknownSymbols(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 5000)

	accepted, rejected, err := positions.Register(ctx, []string{"AAA", "BBB"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(accepted) != 1 || accepted[0] != "AAA" {
		t.Fatalf("expected accepted [AAA], got %v", accepted)
	}
	if len(rejected) != 1 || rejected[0] != "BBB" {
		t.Fatalf("expected rejected [BBB], got %v", rejected)
	}

	list, err := positions.List(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list) != 1 || list[0].Stock != "AAA" || list[0].Lots != 0 {
		t.Fatalf("expected only AAA with 0 lots, got %v", list)
	}
}

func TestRegisterIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 5000)

	if _, _, err := positions.Register(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if rows, err := positions.AdjustLots(ctx, "AAA", 3); err != nil || rows != 1 {
		t.Fatalf("adjust lots: rows=%d err=%v", rows, err)
	}

	// Re-registering must not reset the lot count.
	if _, _, err := positions.Register(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("second register: %v", err)
	}
	lots, ok := currentLots(t, db, "AAA")
	if !ok || lots != 3 {
		t.Fatalf("expected AAA with 3 lots after re-register, got %g (present=%v)", lots, ok)
	}
}

func TestAdjustLotsUnregisteredSymbol(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)

	rows, err := positions.AdjustLots(context.Background(), "ZZZ", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 0 {
		t.Fatalf("expected 0 rows affected for unregistered symbol, got %d", rows)
	}
}

func TestRemoveAbsentSymbolIsNoop(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)

	if err := positions.Remove(context.Background(), "GONE", false); err != nil {
		t.Fatalf("removing absent symbol should be a no-op, got %v", err)
	}
}

func TestRemoveBlocksNonzeroLotsWithoutForce(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 5000)
	if _, _, err := positions.Register(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := positions.AdjustLots(ctx, "AAA", 2); err != nil {
		t.Fatalf("adjust lots: %v", err)
	}

	err := positions.Remove(ctx, "AAA", false)
	if !errors.Is(err, models.ErrPositionHasLots) {
		t.Fatalf("expected ErrPositionHasLots, got %v", err)
	}
	if _, ok := currentLots(t, db, "AAA"); !ok {
		t.Fatalf("position should still exist after blocked removal")
	}

	if err := positions.Remove(ctx, "AAA", true); err != nil {
		t.Fatalf("forced removal should succeed: %v", err)
	}
	list, err := positions.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, p := range list {
		if p.Stock == "AAA" {
			t.Fatalf("AAA should be gone after forced removal")
		}
	}
}

func TestRemoveZeroLotPosition(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 5000)
	if _, _, err := positions.Register(ctx, []string{"AAA"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := positions.Remove(ctx, "AAA", false); err != nil {
		t.Fatalf("removing a zero-lot position should not require force: %v", err)
	}
}

func TestListOrderedByStock(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	positions := NewPositionService(db, prices)
	ctx := context.Background()

	seedPrice(t, db, "CCC", "2024-01-02", 10)
	seedPrice(t, db, "AAA", "2024-01-02", 20)
	seedPrice(t, db, "BBB", "2024-01-02", 30)

	if _, _, err := positions.Register(ctx, []string{"CCC", "AAA", "BBB"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	list, err := positions.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 positions, got %d", len(list))
	}
	for i, want := range []string{"AAA", "BBB", "CCC"} {
		if list[i].Stock != want {
			t.Fatalf("expected %s at index %d, got %s", want, i, list[i].Stock)
		}
	}
}
