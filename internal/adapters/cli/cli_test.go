package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"smallbiz-ledger/internal/app"
	"smallbiz-ledger/internal/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReports struct {
	core.ReportingService
}

func (fakeReports) CustomerBalances(context.Context) ([]core.CustomerBalance, error) {
	return []core.CustomerBalance{{
		CustomerID: 1, CustomerName: "Bright Retail",
		TotalSales: decimal.NewFromInt(32), TotalReceipts: decimal.NewFromInt(12), Outstanding: decimal.NewFromInt(20),
	}}, nil
}

func (fakeReports) SupplierBalance(_ context.Context, id int) (*core.SupplierBalance, error) {
	return nil, &core.NotFoundError{Entity: "supplier", ID: id}
}

func (fakeReports) StockSummary(context.Context) ([]core.StockSummaryLine, error) {
	return []core.StockSummaryLine{{
		ItemID: 1, Name: "Widget", Unit: "pcs",
		OpeningStock: decimal.Zero, LedgerQuantity: decimal.NewFromInt(6), CurrentStock: decimal.NewFromInt(5),
	}}, nil
}

func TestRun_CustomerBalances(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), &app.Ledger{Reports: fakeReports{}}, &out, []string{"customers"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Bright Retail")
	assert.Contains(t, out.String(), "20.00")
}

func TestRun_StockFlagsDisagreement(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), &app.Ledger{Reports: fakeReports{}}, &out, []string{"stock"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "NO")
}

func TestRun_Errors(t *testing.T) {
	l := &app.Ledger{Reports: fakeReports{}}
	var out bytes.Buffer

	assert.ErrorIs(t, Run(context.Background(), l, &out, nil), ErrUsage)
	assert.ErrorIs(t, Run(context.Background(), l, &out, []string{"purge"}), ErrUsage)
	assert.ErrorIs(t, Run(context.Background(), l, &out, []string{"supplier"}), ErrUsage)
	assert.ErrorIs(t, Run(context.Background(), l, &out, []string{"supplier", "x"}), ErrUsage)

	err := Run(context.Background(), l, &out, []string{"supplier", "9"})
	var nf *core.NotFoundError
	assert.True(t, errors.As(err, &nf))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd~", truncate("abcdefgh", 5))
}
