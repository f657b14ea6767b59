package services

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/stockfolio/src/logger"
	"github.com/username/stockfolio/src/models"
)

// CacheCleanupInterval is how often expired latest-price entries are purged.
const CacheCleanupInterval = 10 * time.Minute

type priceServiceImpl struct {
	db    *sql.DB
	cache *cache.Cache
}

// NewPriceService returns a PriceService backed by the stock_data table.
// Latest-price lookups are cached in priceCache; the cache is flushed on
// every import.
func NewPriceService(db *sql.DB, priceCache *cache.Cache) PriceService {
	return &priceServiceImpl{db: db, cache: priceCache}
}

func (s *priceServiceImpl) LatestPrice(ctx context.Context, stock string) (float64, error) {
	if cached, found := s.cache.Get(stock); found {
		if price, ok := cached.(float64); ok {
			return price, nil
		}
	}

	var price float64
	err := s.db.QueryRowContext(ctx,
		"SELECT close FROM stock_data WHERE stock = ? ORDER BY date DESC LIMIT 1", stock).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: %s", models.ErrPriceUnavailable, stock)
	}
	if err != nil {
		return 0, fmt.Errorf("reading latest price for %s: %w", stock, err)
	}

	s.cache.Set(stock, price, cache.DefaultExpiration)
	return price, nil
}

func (s *priceServiceImpl) KnownSymbol(ctx context.Context, stock string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM stock_data WHERE stock = ? LIMIT 1", stock).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking symbol %s: %w", stock, err)
	}
	return true, nil
}

// ImportCSV expects stock,date,close records, with an optional header row.
// Rows are upserted on (stock, date) inside a single transaction so a bad
// row aborts the whole import.
func (s *priceServiceImpl) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3
	reader.TrimLeadingSpace = true

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning import transaction: %w", err)
	}
	defer tx.Rollback()

	imported := 0
	line := 0
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("reading csv line %d: %w", line+1, err)
		}
		line++

		stock := strings.TrimSpace(record[0])
		date := strings.TrimSpace(record[1])
		closeStr := strings.TrimSpace(record[2])

		if line == 1 && strings.EqualFold(closeStr, "close") {
			continue // header row
		}

		closePrice, err := strconv.ParseFloat(closeStr, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid close price %q on line %d: %w", closeStr, line, err)
		}
		if stock == "" || date == "" {
			return 0, fmt.Errorf("empty stock or date on line %d", line)
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO stock_data (stock, date, close)
			VALUES (?, ?, ?)
			ON CONFLICT (stock, date) DO UPDATE SET close = excluded.close`,
			stock, date, closePrice); err != nil {
			return 0, fmt.Errorf("upserting price row for %s on line %d: %w", stock, line, err)
		}
		imported++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing import: %w", err)
	}

	s.cache.Flush()
	logger.FromContext(ctx).Info("Imported price catalog rows", "rows", imported)
	return imported, nil
}
