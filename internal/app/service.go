package app

import (
	"context"

	"smallbiz-ledger/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Ledger is the set of core services all adapters (CLI, Web) call.
// It decouples presentation from business logic: adapters decode input,
// call one service method and render the result.
type Ledger struct {
	Purchases  core.PurchaseService
	Sales      core.SaleService
	Payments   core.PaymentService
	Receipts   core.ReceiptService
	Stock      core.StockLedger
	Reports    core.ReportingService
	MasterData core.MasterDataService

	// Ping reports database reachability for health checks.
	Ping func(ctx context.Context) error
}

// New wires every core service against one pool. Purchases and sales share
// the stock ledger; payments and receipts share the balance adjuster.
func New(pool *pgxpool.Pool) *Ledger {
	stock := core.NewStockLedger(pool)
	balances := core.NewBalanceAdjuster()
	return &Ledger{
		Purchases:  core.NewPurchaseService(pool, stock),
		Sales:      core.NewSaleService(pool, stock),
		Payments:   core.NewPaymentService(pool, balances),
		Receipts:   core.NewReceiptService(pool, balances),
		Stock:      stock,
		Reports:    core.NewReportingService(pool),
		MasterData: core.NewMasterDataService(pool),
		Ping:       pool.Ping,
	}
}
