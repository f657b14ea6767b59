package services

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/stockfolio/src/logger"
	_ "modernc.org/sqlite"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

const testSchema = `
CREATE TABLE IF NOT EXISTS positions (
    stock TEXT PRIMARY KEY,
    position_size REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS portfolio_balance (
    balance REAL NOT NULL DEFAULT 0.0
);
CREATE TABLE IF NOT EXISTS stock_data (
    stock TEXT NOT NULL,
    date TEXT NOT NULL,
    close REAL NOT NULL,
    PRIMARY KEY (stock, date)
);
`

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("creating test schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestPriceCache() *cache.Cache {
	return cache.New(time.Minute, time.Minute)
}

func seedPrice(t *testing.T, db *sql.DB, stock, date string, closePrice float64) {
	t.Helper()
	if _, err := db.Exec("INSERT INTO stock_data (stock, date, close) VALUES (?, ?, ?)", stock, date, closePrice); err != nil {
		t.Fatalf("seeding price for %s: %v", stock, err)
	}
}

func currentLots(t *testing.T, db *sql.DB, stock string) (float64, bool) {
	t.Helper()
	var lots float64
	err := db.QueryRow("SELECT position_size FROM positions WHERE stock = ?", stock).Scan(&lots)
	if err == sql.ErrNoRows {
		return 0, false
	}
	if err != nil {
		t.Fatalf("reading lots for %s: %v", stock, err)
	}
	return lots, true
}

func mustBalance(t *testing.T, ledger LedgerService) float64 {
	t.Helper()
	balance, err := ledger.GetBalance(context.Background())
	if err != nil {
		t.Fatalf("reading balance: %v", err)
	}
	return balance
}
