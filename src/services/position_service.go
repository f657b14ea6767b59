package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
)

type positionServiceImpl struct {
	db     *sql.DB
	prices PriceService
}

// NewPositionService returns a PositionService backed by the given database.
// The price service is used to validate symbols against the catalog.
func NewPositionService(db *sql.DB, prices PriceService) PositionService {
	return &positionServiceImpl{db: db, prices: prices}
}

func (s *positionServiceImpl) Register(ctx context.Context, symbols []string) ([]string, []string, error) {
	var accepted, rejected []string
	for _, stock := range symbols {
		if stock == "" {
			continue
		}
		known, err := s.prices.KnownSymbol(ctx, stock)
		if err != nil {
			return nil, nil, fmt.Errorf("validating symbol %s: %w", stock, err)
		}
		if !known {
			logger.FromContext(ctx).Info("Rejected unknown stock symbol", "stock", stock)
			rejected = append(rejected, stock)
			continue
		}
		accepted = append(accepted, stock)
	}

	for _, stock := range accepted {
		// INSERT OR IGNORE keeps re-registration from resetting lot counts.
		if _, err := s.db.ExecContext(ctx,
			"INSERT OR IGNORE INTO positions (stock, position_size) VALUES (?, ?)", stock, 0); err != nil {
			return nil, nil, fmt.Errorf("inserting position %s: %w", stock, err)
		}
	}
	return accepted, rejected, nil
}

func (s *positionServiceImpl) Remove(ctx context.Context, stock string, force bool) error {
	var lots float64
	err := s.db.QueryRowContext(ctx, "SELECT position_size FROM positions WHERE stock = ?", stock).Scan(&lots)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading position %s: %w", stock, err)
	}

	if lots != 0 && !force {
		return fmt.Errorf("%w: %s holds %g lots", models.ErrPositionHasLots, stock, lots)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM positions WHERE stock = ?", stock); err != nil {
		return fmt.Errorf("deleting position %s: %w", stock, err)
	}
	logger.FromContext(ctx).Info("Removed stock from positions", "stock", stock, "lotsDiscarded", lots)
	return nil
}

func (s *positionServiceImpl) AdjustLots(ctx context.Context, stock string, delta float64) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE positions SET position_size = position_size + ? WHERE stock = ?", delta, stock)
	if err != nil {
		return 0, fmt.Errorf("adjusting lots for %s: %w", stock, err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("reading rows affected for %s: %w", stock, err)
	}
	return rows, nil
}

func (s *positionServiceImpl) List(ctx context.Context) ([]models.Position, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT stock, position_size FROM positions ORDER BY stock ASC")
	if err != nil {
		return nil, fmt.Errorf("listing positions: %w", err)
	}
	defer rows.Close()

	var positions []models.Position
	for rows.Next() {
		var p models.Position
		if err := rows.Scan(&p.Stock, &p.Lots); err != nil {
			return nil, fmt.Errorf("scanning position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating positions: %w", err)
	}
	if positions == nil {
		positions = []models.Position{}
	}
	return positions, nil
}
