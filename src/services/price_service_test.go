package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/username/stockfolio/src/models"
)

func TestLatestPricePicksMostRecentDate(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 4800)
	seedPrice(t, db, "AAA", "2024-01-05", 5000)
	seedPrice(t, db, "AAA", "2024-01-03", 4900)

	price, err := prices.LatestPrice(ctx, "AAA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if price != 5000 {
		t.Fatalf("expected latest close 5000, got %g", price)
	}
}

func TestLatestPriceUnavailable(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())

	_, err := prices.LatestPrice(context.Background(), "NOPE")
	if !errors.Is(err, models.ErrPriceUnavailable) {
		t.Fatalf("expected ErrPriceUnavailable, got %v", err)
	}
}

func TestKnownSymbol(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 5000)

	known, err := prices.KnownSymbol(ctx, "AAA")
	if err != nil || !known {
		t.Fatalf("expected AAA known, got known=%v err=%v", known, err)
	}
	known, err = prices.KnownSymbol(ctx, "BBB")
	if err != nil || known {
		t.Fatalf("expected BBB unknown, got known=%v err=%v", known, err)
	}
}

func TestImportCSVWithHeaderAndUpsert(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	ctx := context.Background()

	csvBody := strings.Join([]string{
		"stock,date,close",
		"AAA,2024-01-02,4800",
		"AAA,2024-01-05,5000",
		"BBB,2024-01-05,2000",
	}, "\n")

	imported, err := prices.ImportCSV(ctx, strings.NewReader(csvBody))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if imported != 3 {
		t.Fatalf("expected 3 imported rows, got %d", imported)
	}

	// Re-import with a corrected close; the (stock, date) row must be replaced.
	if _, err := prices.ImportCSV(ctx, strings.NewReader("AAA,2024-01-05,5100")); err != nil {
		t.Fatalf("upsert import: %v", err)
	}
	price, err := prices.LatestPrice(ctx, "AAA")
	if err != nil {
		t.Fatalf("latest price: %v", err)
	}
	if price != 5100 {
		t.Fatalf("expected upserted close 5100, got %g", price)
	}
}

func TestImportCSVRejectsBadRowAtomically(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	ctx := context.Background()

	csvBody := "CCC,2024-01-02,1000\nCCC,2024-01-03,not-a-number"
	if _, err := prices.ImportCSV(ctx, strings.NewReader(csvBody)); err == nil {
		t.Fatalf("expected error for malformed close price")
	}

	// The good row before the bad one must not have been committed.
	if _, err := prices.LatestPrice(ctx, "CCC"); !errors.Is(err, models.ErrPriceUnavailable) {
		t.Fatalf("expected no committed rows for CCC, got %v", err)
	}
}

func TestImportFlushesPriceCache(t *testing.T) {
	db := newTestDB(t)
	prices := NewPriceService(db, newTestPriceCache())
	ctx := context.Background()

	seedPrice(t, db, "AAA", "2024-01-02", 4800)
	if price, err := prices.LatestPrice(ctx, "AAA"); err != nil || price != 4800 {
		t.Fatalf("warm-up lookup: price=%g err=%v", price, err)
	}

	// A newer close arrives via import; the cached 4800 must not survive.
	if _, err := prices.ImportCSV(ctx, strings.NewReader("AAA,2024-01-06,5200")); err != nil {
		t.Fatalf("import: %v", err)
	}
	price, err := prices.LatestPrice(ctx, "AAA")
	if err != nil {
		t.Fatalf("post-import lookup: %v", err)
	}
	if price != 5200 {
		t.Fatalf("expected fresh close 5200 after import, got %g", price)
	}
}
