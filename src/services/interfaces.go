package services

import (
	"context"
	"io"

	"github.com/username/stockfolio/src/models"
)

// LedgerService manages the single cash balance. Deltas are additive;
// no floor or ceiling is enforced at this level.
type LedgerService interface {
	// AdjustBalance adds delta to the balance, creating the record on
	// first use, and returns the new balance.
	AdjustBalance(ctx context.Context, delta float64) (float64, error)
	// GetBalance returns the current balance, 0.0 if none exists yet.
	GetBalance(ctx context.Context) (float64, error)
}

// PositionService manages the book of tracked stocks and their lot counts.
type PositionService interface {
	// Register validates each symbol against the price catalog and inserts
	// the known ones with a lot count of 0. Re-registering an existing
	// symbol is a no-op and never resets its lots. Unknown symbols are
	// returned in rejected, not treated as an error.
	Register(ctx context.Context, symbols []string) (accepted, rejected []string, err error)
	// Remove deletes the position for stock. A position that still holds
	// lots is only removed when force is set; otherwise
	// models.ErrPositionHasLots is returned. Removing an absent symbol is
	// a no-op.
	Remove(ctx context.Context, stock string, force bool) error
	// AdjustLots adds delta to the stock's lot count and reports the
	// number of rows updated. 0 means the symbol was never registered.
	AdjustLots(ctx context.Context, stock string, delta float64) (int64, error)
	// List returns the current positions ordered by stock symbol.
	List(ctx context.Context) ([]models.Position, error)
}

// PriceResolver is the read side of the price catalog needed by consumers
// that only look prices up.
type PriceResolver interface {
	// LatestPrice returns the most recent closing price for stock, or
	// models.ErrPriceUnavailable when no history exists. Absence is an
	// explicit error; it never flows into arithmetic as a zero.
	LatestPrice(ctx context.Context, stock string) (float64, error)
}

// PriceService exposes the price catalog: latest-price lookup, symbol
// membership checks and bulk import.
type PriceService interface {
	PriceResolver
	// KnownSymbol reports whether stock has any entry in the catalog.
	KnownSymbol(ctx context.Context, stock string) (bool, error)
	// ImportCSV loads stock,date,close rows into the catalog, upserting
	// on (stock, date), and returns the number of rows imported.
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
}

// TradeService executes purchases against the ledger and position book.
type TradeService interface {
	// Buy purchases lots of stock at the latest catalog price. The debit
	// and the position credit commit in a single transaction; on any
	// failure no state is mutated.
	Buy(ctx context.Context, stock string, lots float64) (*models.BuyResult, error)
}

// RebalanceService computes target-allocation plans. It never executes
// trades and persists nothing.
type RebalanceService interface {
	ComputePlan(ctx context.Context, positions []models.Position, ratios map[string]float64) *models.RebalancePlan
}
