package core_test

import (
	"errors"
	"testing"

	"smallbiz-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporting_PartyBalances(t *testing.T) {
	f := setupLedger(t)

	_, err := f.purchases.Create(f.ctx, widgetPurchase("10", "5"))
	require.NoError(t, err)
	_, err = f.sales.Create(f.ctx, widgetSale("4", "8"))
	require.NoError(t, err)
	_, err = f.payments.Create(f.ctx, core.CreatePaymentInput{
		SupplierID: supplierID, Amount: dec("30"), Method: "cash", Date: "2024-03-01",
	})
	require.NoError(t, err)
	_, err = f.receipts.Create(f.ctx, core.CreateReceiptInput{
		CustomerID: customerID, Amount: dec("12"), Method: "account", AccountID: intPtr(accountID), Date: "2024-03-01",
	})
	require.NoError(t, err)

	cb, err := f.reports.CustomerBalance(f.ctx, customerID)
	require.NoError(t, err)
	assert.True(t, cb.TotalSales.Equal(dec("32")))
	assert.True(t, cb.TotalReceipts.Equal(dec("12")))
	assert.True(t, cb.Outstanding.Equal(dec("20")))

	sb, err := f.reports.SupplierBalance(f.ctx, supplierID)
	require.NoError(t, err)
	assert.True(t, sb.TotalPurchases.Equal(dec("50")))
	assert.True(t, sb.Outstanding.Equal(dec("20")))

	all, err := f.reports.CustomerBalances(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Bright Retail", all[0].CustomerName)

	_, err = f.reports.SupplierBalance(f.ctx, 404)
	var nf *core.NotFoundError
	require.True(t, errors.As(err, &nf), "expected NotFoundError, got %v", err)
}

func TestReporting_AccountAndStockSummariesAgree(t *testing.T) {
	f := setupLedger(t)

	_, err := f.purchases.Create(f.ctx, widgetPurchase("10", "5"))
	require.NoError(t, err)
	_, err = f.sales.Create(f.ctx, widgetSale("3", "8"))
	require.NoError(t, err)
	_, err = f.payments.Create(f.ctx, core.CreatePaymentInput{
		SupplierID: supplierID, Amount: dec("50"), Method: "account", AccountID: intPtr(accountID), Date: "2024-03-01",
	})
	require.NoError(t, err)
	_, err = f.receipts.Create(f.ctx, core.CreateReceiptInput{
		CustomerID: customerID, Amount: dec("24"), Method: "account", AccountID: intPtr(accountID), Date: "2024-03-01",
	})
	require.NoError(t, err)

	accounts, err := f.reports.AccountSummaries(f.ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.True(t, accounts[0].Balance.Equal(dec("974")))
	assert.True(t, accounts[0].ImpliedOpening.Equal(dec("1000")))
	assert.True(t, accounts[0].Consistent)

	stock, err := f.reports.StockSummary(f.ctx)
	require.NoError(t, err)
	require.Len(t, stock, 2)
	for _, line := range stock {
		assert.True(t, line.Consistent, "item %s out of agreement", line.Name)
	}
}
