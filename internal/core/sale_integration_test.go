package core_test

import (
	"errors"
	"sync"
	"testing"

	"smallbiz-ledger/internal/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func widgetSale(qty, price string) core.CreateSaleInput {
	return core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: widgetID, Quantity: dec(qty), UnitPrice: dec(price)}},
	}
}

// Purchase 10, oversell, sell 4, then try to delete the purchase.
func TestLedger_PurchaseSaleScenario(t *testing.T) {
	f := setupLedger(t)

	p, err := f.purchases.Create(f.ctx, widgetPurchase("10", "5"))
	require.NoError(t, err)
	assert.True(t, f.currentStock(t, widgetID).Equal(dec("10")))
	assert.True(t, p.TotalAmount.Equal(dec("50")))

	_, err = f.sales.Create(f.ctx, widgetSale("12", "8"))
	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.True(t, f.currentStock(t, widgetID).Equal(dec("10")))
	assert.Equal(t, 0, f.countRows(t, "sales"))

	s, err := f.sales.Create(f.ctx, widgetSale("4", "8"))
	require.NoError(t, err)
	assert.Equal(t, "Bright Retail", s.CustomerName)
	assert.True(t, f.currentStock(t, widgetID).Equal(dec("6")))

	// Reversing the purchase would take stock to -4.
	err = f.purchases.Delete(f.ctx, p.ID)
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.True(t, f.currentStock(t, widgetID).Equal(dec("6")))
	assert.Equal(t, 1, f.countRows(t, "purchases"))
	f.assertStockAgrees(t, widgetID, "0")

	require.NoError(t, f.sales.Delete(f.ctx, s.ID))
	assert.True(t, f.currentStock(t, widgetID).Equal(dec("10")))
	require.NoError(t, f.purchases.Delete(f.ctx, p.ID))
	assert.True(t, f.currentStock(t, widgetID).IsZero())
	assert.Equal(t, 0, f.countRows(t, "stock_transactions"))
}

func TestSale_InsufficientStockWritesNothing(t *testing.T) {
	f := setupLedger(t)

	_, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items: []core.LineInput{
			{ItemID: gadgetID, Quantity: dec("3"), UnitPrice: dec("15")},
			{ItemID: widgetID, Quantity: dec("1"), UnitPrice: dec("8")},
		},
	})
	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.Equal(t, widgetID, stockErr.ItemID)

	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("5")), "first line decrement must roll back")
	assert.Equal(t, 0, f.countRows(t, "sales"))
	assert.Equal(t, 0, f.countRows(t, "sale_items"))
	assert.Equal(t, 0, f.countRows(t, "stock_transactions"))
}

func TestSale_RepeatedItemLinesShareStock(t *testing.T) {
	f := setupLedger(t)

	_, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items: []core.LineInput{
			{ItemID: gadgetID, Quantity: dec("3"), UnitPrice: dec("15")},
			{ItemID: gadgetID, Quantity: dec("3"), UnitPrice: dec("15")},
		},
	})
	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("5")))
}

func TestSale_UpdateQuantityChecksStock(t *testing.T) {
	f := setupLedger(t)

	s, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("2"), UnitPrice: dec("15")}},
	})
	require.NoError(t, err)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("3")))

	_, err = f.sales.Update(f.ctx, s.ID, core.UpdateSaleInput{
		Items: []core.LineQuantityInput{{ItemID: gadgetID, Quantity: dec("6")}},
	})
	var stockErr *core.InsufficientStockError
	require.True(t, errors.As(err, &stockErr), "expected InsufficientStockError, got %v", err)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("3")))

	updated, err := f.sales.Update(f.ctx, s.ID, core.UpdateSaleInput{
		Items: []core.LineQuantityInput{{ItemID: gadgetID, Quantity: dec("1")}},
	})
	require.NoError(t, err)
	assert.True(t, updated.Items[0].Quantity.Equal(dec("1")))
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("4")))
	f.assertStockAgrees(t, gadgetID, "5")
}

func TestSale_ConcurrentDeleteReversesOnce(t *testing.T) {
	f := setupLedger(t)

	s, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("2"), UnitPrice: dec("15")}},
	})
	require.NoError(t, err)

	const workers = 4
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = f.sales.Delete(f.ctx, s.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var nf *core.NotFoundError
		assert.True(t, errors.As(err, &nf), "losing delete should be NotFound, got %v", err)
	}
	assert.Equal(t, 1, succeeded)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("5")))
}

func TestSale_ConcurrentCreatesNeverOversell(t *testing.T) {
	f := setupLedger(t)

	const workers = 5
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.sales.Create(f.ctx, core.CreateSaleInput{
				CustomerID: customerID,
				Date:       "2024-02-05",
				Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("2"), UnitPrice: dec("15")}},
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		var stockErr *core.InsufficientStockError
		assert.True(t, errors.As(err, &stockErr), "unexpected error: %v", err)
	}
	assert.Equal(t, 2, succeeded)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("1")))
	f.assertStockAgrees(t, gadgetID, "5")
}

func TestSale_FractionalQuantitiesKeepLedgerInAgreement(t *testing.T) {
	f := setupLedger(t)

	_, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("1.00005"), UnitPrice: dec("15")}},
	})
	var ve *core.ValidationError
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.Equal(t, "items[0].quantity", ve.Field)

	_, err = f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("0.00001"), UnitPrice: dec("15")}},
	})
	require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("5")))
	assert.Equal(t, 0, f.countRows(t, "sales"))

	s, err := f.sales.Create(f.ctx, core.CreateSaleInput{
		CustomerID: customerID,
		Date:       "2024-02-05",
		Items:      []core.LineInput{{ItemID: gadgetID, Quantity: dec("1.2345"), UnitPrice: dec("15")}},
	})
	require.NoError(t, err)
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("3.7655")))
	f.assertStockAgrees(t, gadgetID, "5")

	require.NoError(t, f.sales.Delete(f.ctx, s.ID))
	assert.True(t, f.currentStock(t, gadgetID).Equal(dec("5")))
	f.assertStockAgrees(t, gadgetID, "5")
}
