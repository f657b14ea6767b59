package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
)

type tradeServiceImpl struct {
	db     *sql.DB
	prices PriceResolver
}

// NewTradeService returns a TradeService. Purchases resolve their price
// through prices and commit debit and credit atomically on db.
func NewTradeService(db *sql.DB, prices PriceResolver) TradeService {
	return &tradeServiceImpl{db: db, prices: prices}
}

func (s *tradeServiceImpl) Buy(ctx context.Context, stock string, lots float64) (*models.BuyResult, error) {
	if lots <= 0 {
		return nil, fmt.Errorf("%w: got %g", models.ErrInvalidLots, lots)
	}

	price, err := s.prices.LatestPrice(ctx, stock)
	if err != nil {
		return nil, err
	}

	shares := lots * models.SharesPerLot
	totalCost := shares * price

	// Debit and credit must land together, so both run in one transaction.
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning buy transaction: %w", err)
	}
	defer tx.Rollback()

	var balance float64
	hasBalanceRow := true
	err = tx.QueryRowContext(ctx, "SELECT balance FROM portfolio_balance LIMIT 1").Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		balance = 0.0
		hasBalanceRow = false
	} else if err != nil {
		return nil, fmt.Errorf("reading balance: %w", err)
	}

	if totalCost > balance {
		return nil, fmt.Errorf("%w: cost %.2f exceeds balance %.2f", models.ErrInsufficientFunds, totalCost, balance)
	}

	if hasBalanceRow {
		if _, err := tx.ExecContext(ctx, "UPDATE portfolio_balance SET balance = balance - ?", totalCost); err != nil {
			return nil, fmt.Errorf("debiting balance: %w", err)
		}
	} else {
		if _, err := tx.ExecContext(ctx, "INSERT INTO portfolio_balance (balance) VALUES (?)", -totalCost); err != nil {
			return nil, fmt.Errorf("debiting balance: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		"UPDATE positions SET position_size = position_size + ? WHERE stock = ?", lots, stock)
	if err != nil {
		return nil, fmt.Errorf("crediting position %s: %w", stock, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("reading rows affected for %s: %w", stock, err)
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: %s", models.ErrUnknownPosition, stock)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing buy: %w", err)
	}

	newBalance := balance - totalCost
	logger.FromContext(ctx).Info("Executed buy",
		"stock", stock, "lots", lots, "shares", shares, "price", price,
		"totalCost", totalCost, "newBalance", newBalance)

	return &models.BuyResult{
		Stock:      stock,
		Lots:       lots,
		Shares:     shares,
		PriceShare: price,
		TotalCost:  totalCost,
		NewBalance: newBalance,
	}, nil
}
