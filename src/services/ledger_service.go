package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type ledgerServiceImpl struct {
	db *sql.DB
}

// NewLedgerService returns a LedgerService backed by the given database.
func NewLedgerService(db *sql.DB) LedgerService {
	return &ledgerServiceImpl{db: db}
}

func (s *ledgerServiceImpl) AdjustBalance(ctx context.Context, delta float64) (float64, error) {
	var current float64
	err := s.db.QueryRowContext(ctx, "SELECT balance FROM portfolio_balance LIMIT 1").Scan(&current)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.db.ExecContext(ctx, "INSERT INTO portfolio_balance (balance) VALUES (?)", delta); err != nil {
			return 0, fmt.Errorf("inserting initial balance: %w", err)
		}
		return delta, nil
	case err != nil:
		return 0, fmt.Errorf("reading balance: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, "UPDATE portfolio_balance SET balance = balance + ?", delta); err != nil {
		return 0, fmt.Errorf("updating balance: %w", err)
	}
	return current + delta, nil
}

func (s *ledgerServiceImpl) GetBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := s.db.QueryRowContext(ctx, "SELECT balance FROM portfolio_balance LIMIT 1").Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return 0.0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("reading balance: %w", err)
	}
	return balance, nil
}
