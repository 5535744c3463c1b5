package core_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"smallbiz-ledger/internal/core"
	"smallbiz-ledger/internal/db"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed ids.
const (
	supplierID = 1
	customerID = 1
	widgetID   = 1 // opening stock 0
	gadgetID   = 2 // opening stock 5
	accountID  = 1 // opening balance 1000
)

type ledgerFixture struct {
	ctx       context.Context
	pool      *pgxpool.Pool
	stock     core.StockLedger
	purchases core.PurchaseService
	sales     core.SaleService
	payments  core.PaymentService
	receipts  core.ReceiptService
	reports   core.ReportingService
	master    core.MasterDataService
}

func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	_ = godotenv.Load("../../.env")

	// Integration tests truncate every table; never point this at a live database.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	logger, _ := logtest.NewNullLogger()
	if err := db.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE stock_transactions, purchase_items, purchases, sale_items, sales,
		               payments, receipts, items, accounts, suppliers, customers
		RESTART IDENTITY CASCADE;

		INSERT INTO suppliers (name, phone) VALUES ('Acme Supplies', '555-0100');
		INSERT INTO customers (name, phone) VALUES ('Bright Retail', '555-0200');

		INSERT INTO items (name, unit, base_price, selling_price, opening_stock, current_stock) VALUES
		('Widget', 'pcs', 5, 8, 0, 0),
		('Gadget', 'pcs', 10, 15, 5, 5);

		INSERT INTO accounts (bank_name, account_number, account_holder, opening_balance, balance)
		VALUES ('First Bank', '001-234', 'Test Shop', 1000, 1000);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}
	return pool
}

func setupLedger(t *testing.T) *ledgerFixture {
	t.Helper()
	pool := setupTestDB(t)
	stock := core.NewStockLedger(pool)
	balances := core.NewBalanceAdjuster()
	return &ledgerFixture{
		ctx:       context.Background(),
		pool:      pool,
		stock:     stock,
		purchases: core.NewPurchaseService(pool, stock),
		sales:     core.NewSaleService(pool, stock),
		payments:  core.NewPaymentService(pool, balances),
		receipts:  core.NewReceiptService(pool, balances),
		reports:   core.NewReportingService(pool),
		master:    core.NewMasterDataService(pool),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (f *ledgerFixture) currentStock(t *testing.T, itemID int) decimal.Decimal {
	t.Helper()
	var stock decimal.Decimal
	require.NoError(t, f.pool.QueryRow(f.ctx, "SELECT current_stock FROM items WHERE id = $1", itemID).Scan(&stock))
	return stock
}

func (f *ledgerFixture) ledgerSum(t *testing.T, itemID int) decimal.Decimal {
	t.Helper()
	var sum decimal.Decimal
	require.NoError(t, f.pool.QueryRow(f.ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM stock_transactions WHERE item_id = $1", itemID,
	).Scan(&sum))
	return sum
}

func (f *ledgerFixture) countRows(t *testing.T, table string) int {
	t.Helper()
	var n int
	require.NoError(t, f.pool.QueryRow(f.ctx, "SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func (f *ledgerFixture) balance(t *testing.T, id int) decimal.Decimal {
	t.Helper()
	var b decimal.Decimal
	require.NoError(t, f.pool.QueryRow(f.ctx, "SELECT balance FROM accounts WHERE id = $1", id).Scan(&b))
	return b
}

// assertStockAgrees checks opening stock + ledger sum == current stock.
func (f *ledgerFixture) assertStockAgrees(t *testing.T, itemID int, opening string) {
	t.Helper()
	expected := dec(opening).Add(f.ledgerSum(t, itemID))
	assert.True(t, expected.Equal(f.currentStock(t, itemID)),
		"item %d: opening+ledger=%s, current=%s", itemID, expected, f.currentStock(t, itemID))
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestStockLedger_RecordAndReverse(t *testing.T) {
	f := setupLedger(t)

	tx, err := f.pool.Begin(f.ctx)
	require.NoError(t, err)
	err = f.stock.RecordTx(f.ctx, tx, core.StockEntry{
		ItemID: widgetID, Type: core.MovementPurchase, Quantity: dec("10"), RelatedID: 99, Date: "2024-01-10",
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit(f.ctx))

	assert.True(t, f.currentStock(t, widgetID).Equal(dec("10")))
	moves, err := f.stock.MovementsForItem(f.ctx, widgetID)
	require.NoError(t, err)
	require.Len(t, moves, 1)
	assert.Equal(t, core.MovementPurchase, moves[0].Type)
	assert.Equal(t, 99, moves[0].RelatedID)
	assert.Equal(t, "2024-01-10", moves[0].Date)

	tx, err = f.pool.Begin(f.ctx)
	require.NoError(t, err)
	reversed, err := f.stock.ReverseTx(f.ctx, tx, 99, core.MovementPurchase, widgetID)
	require.NoError(t, err)
	require.NoError(t, tx.Commit(f.ctx))

	assert.True(t, reversed.Equal(dec("10")))
	assert.True(t, f.currentStock(t, widgetID).IsZero())
	moves, err = f.stock.MovementsForItem(f.ctx, widgetID)
	require.NoError(t, err)
	assert.Empty(t, moves)
}

func TestStockLedger_RecordRejectsNegativeStock(t *testing.T) {
	f := setupLedger(t)

	tx, err := f.pool.Begin(f.ctx)
	require.NoError(t, err)
	defer tx.Rollback(f.ctx)

	err = f.stock.RecordTx(f.ctx, tx, core.StockEntry{
		ItemID: gadgetID, Type: core.MovementSale, Quantity: dec("-6"), RelatedID: 1, Date: "2024-01-10",
	})
	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.Equal(t, "Gadget", stockErr.ItemName)
	assert.True(t, stockErr.Available.Equal(dec("5")))
	assert.True(t, stockErr.Requested.Equal(dec("6")))
}

func TestStockLedger_UnknownItem(t *testing.T) {
	f := setupLedger(t)

	tx, err := f.pool.Begin(f.ctx)
	require.NoError(t, err)
	defer tx.Rollback(f.ctx)

	err = f.stock.RecordTx(f.ctx, tx, core.StockEntry{
		ItemID: 999, Type: core.MovementPurchase, Quantity: dec("1"), RelatedID: 1, Date: "2024-01-10",
	})
	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
	assert.Equal(t, "item", nf.Entity)

	_, err = f.stock.MovementsForItem(f.ctx, 999)
	require.True(t, errors.As(err, &nf))
}
