package models

import "errors"

// Domain errors. All of them are recoverable at the request boundary; the
// handler layer maps them to HTTP status codes.
var (
	// ErrUnknownSymbol reports a stock code absent from the price catalog.
	ErrUnknownSymbol = errors.New("unknown stock symbol")

	// ErrUnknownPosition reports an operation against a stock that was
	// never registered in the position book.
	ErrUnknownPosition = errors.New("stock is not a registered position")

	// ErrPriceUnavailable reports that no price history exists for a stock.
	ErrPriceUnavailable = errors.New("no price data available")

	// ErrInsufficientFunds reports a purchase whose cost exceeds the
	// current cash balance. No state is mutated.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidLots reports a non-positive lot count on a buy.
	ErrInvalidLots = errors.New("lot count must be positive")

	// ErrPositionHasLots reports an attempt to remove a position that
	// still holds lots without forcing the removal.
	ErrPositionHasLots = errors.New("position still holds lots")
)
