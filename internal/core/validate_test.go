package core

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validPurchase() CreatePurchaseInput {
	return CreatePurchaseInput{
		SupplierID: 1,
		Date:       "2024-01-15",
		Items:      []LineInput{{ItemID: 1, Quantity: decimal.NewFromInt(10), UnitPrice: decimal.NewFromInt(5)}},
	}
}

func TestValidateInput_CreatePurchase(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CreatePurchaseInput)
		field  string
	}{
		{name: "missing supplier", mutate: func(in *CreatePurchaseInput) { in.SupplierID = 0 }, field: "supplierId"},
		{name: "missing date", mutate: func(in *CreatePurchaseInput) { in.Date = "" }, field: "date"},
		{name: "bad date", mutate: func(in *CreatePurchaseInput) { in.Date = "15/01/2024" }, field: "date"},
		{name: "no items", mutate: func(in *CreatePurchaseInput) { in.Items = nil }, field: "items"},
		{name: "zero quantity", mutate: func(in *CreatePurchaseInput) { in.Items[0].Quantity = decimal.Zero }, field: "items[0].quantity"},
		{name: "negative quantity", mutate: func(in *CreatePurchaseInput) { in.Items[0].Quantity = decimal.NewFromInt(-1) }, field: "items[0].quantity"},
		{name: "negative price", mutate: func(in *CreatePurchaseInput) { in.Items[0].UnitPrice = decimal.NewFromInt(-1) }, field: "items[0].unitPrice"},
		{name: "missing item id", mutate: func(in *CreatePurchaseInput) { in.Items[0].ItemID = 0 }, field: "items[0].itemId"},
		{name: "negative paid", mutate: func(in *CreatePurchaseInput) { in.PaidAmount = decimal.NewFromInt(-5) }, field: "paidAmount"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validPurchase()
			tt.mutate(&in)
			err := validateInput(in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
		})
	}

	assert.NoError(t, validateInput(validPurchase()))
}

func TestValidateInput_UpdateMoney(t *testing.T) {
	bad := "2024-13-40"
	good := "2024-02-29"
	assert.Error(t, validateInput(UpdateMoneyInput{Date: &bad}))
	assert.NoError(t, validateInput(UpdateMoneyInput{Date: &good}))
	assert.NoError(t, validateInput(UpdateMoneyInput{}))
}

// Services reject bad input before touching the pool, so a nil pool is safe here.
func TestServices_ValidateBeforeDatabase(t *testing.T) {
	ctx := context.Background()
	var ve *ValidationError

	_, err := NewPurchaseService(nil, nil).Create(ctx, CreatePurchaseInput{})
	assert.True(t, errors.As(err, &ve), "purchase: %v", err)

	in := validPurchase()
	in.Status = "unknown"
	_, err = NewPurchaseService(nil, nil).Create(ctx, in)
	assert.True(t, errors.As(err, &ve), "purchase status: %v", err)

	_, err = NewSaleService(nil, nil).Create(ctx, CreateSaleInput{CustomerID: 1, Date: "2024-01-01"})
	assert.True(t, errors.As(err, &ve), "sale: %v", err)

	neg := decimal.NewFromInt(-1)
	_, err = NewSaleService(nil, nil).Update(ctx, 1, UpdateSaleInput{ReceivedAmount: &neg})
	assert.True(t, errors.As(err, &ve), "sale update: %v", err)

	acct := 1
	_, err = NewPaymentService(nil, nil).Create(ctx, CreatePaymentInput{
		SupplierID: 1, Amount: decimal.NewFromInt(10), Method: "cash", AccountID: &acct, Date: "2024-01-01",
	})
	assert.True(t, errors.As(err, &ve), "cash payment with account: %v", err)

	_, err = NewReceiptService(nil, nil).Create(ctx, CreateReceiptInput{
		CustomerID: 1, Amount: decimal.Zero, Method: "cash", Date: "2024-01-01",
	})
	assert.True(t, errors.As(err, &ve), "zero receipt: %v", err)

	empty := ""
	_, err = NewReceiptService(nil, nil).Update(ctx, 1, UpdateMoneyInput{Date: &empty})
	assert.True(t, errors.As(err, &ve), "empty date: %v", err)

	_, err = NewMasterDataService(nil).CreateItem(ctx, ItemInput{Name: "x", OpeningStock: neg})
	assert.True(t, errors.As(err, &ve), "negative opening stock: %v", err)
}

func TestValidateInput_DecimalScale(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		field string
	}{
		{
			name:  "payment amount below a cent",
			in:    CreatePaymentInput{SupplierID: 1, Amount: decimal.RequireFromString("10.005"), Method: "cash", Date: "2024-01-01"},
			field: "amount",
		},
		{
			name:  "receipt amount below a cent",
			in:    CreateReceiptInput{CustomerID: 1, Amount: decimal.RequireFromString("0.001"), Method: "cash", Date: "2024-01-01"},
			field: "amount",
		},
		{
			name: "line quantity past four places",
			in:   CreateSaleInput{CustomerID: 1, Date: "2024-01-01", Items: []LineInput{
				{ItemID: 1, Quantity: decimal.RequireFromString("1.00005"), UnitPrice: decimal.NewFromInt(1)},
			}},
			field: "items[0].quantity",
		},
		{
			name: "line quantity that rounds to zero",
			in:   CreatePurchaseInput{SupplierID: 1, Date: "2024-01-01", Items: []LineInput{
				{ItemID: 1, Quantity: decimal.RequireFromString("0.00001"), UnitPrice: decimal.NewFromInt(1)},
			}},
			field: "items[0].quantity",
		},
		{
			name: "unit price below a cent",
			in:   CreatePurchaseInput{SupplierID: 1, Date: "2024-01-01", Items: []LineInput{
				{ItemID: 1, Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString("2.499")},
			}},
			field: "items[0].unitPrice",
		},
		{
			name:  "updated line quantity",
			in:    UpdatePurchaseInput{Items: []LineQuantityInput{{ItemID: 1, Quantity: decimal.RequireFromString("3.14159")}}},
			field: "items[0].quantity",
		},
		{
			name:  "updated paid amount",
			in:    UpdatePurchaseInput{PaidAmount: decPtr("5.555")},
			field: "paidAmount",
		},
		{
			name:  "opening balance",
			in:    AccountInput{BankName: "B", AccountNumber: "1", AccountHolder: "H", OpeningBalance: decimal.RequireFromString("-0.125")},
			field: "openingBalance",
		},
		{
			name:  "opening stock",
			in:    ItemInput{Name: "Bolt", OpeningStock: decimal.RequireFromString("2.00001")},
			field: "openingStock",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateInput(tt.in)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, ve.Field)
			assert.Contains(t, ve.Message, "decimal places")
		})
	}
}

func TestValidateInput_DecimalScaleAccepted(t *testing.T) {
	assert.NoError(t, validateInput(CreatePaymentInput{
		SupplierID: 1, Amount: decimal.RequireFromString("10.50"), Method: "cash", Date: "2024-01-01",
	}))
	// Trailing zeros past the column scale still store exactly.
	assert.NoError(t, validateInput(CreatePaymentInput{
		SupplierID: 1, Amount: decimal.RequireFromString("10.000"), Method: "cash", Date: "2024-01-01",
	}))
	assert.NoError(t, validateInput(CreateSaleInput{CustomerID: 1, Date: "2024-01-01", Items: []LineInput{
		{ItemID: 1, Quantity: decimal.RequireFromString("1.2345"), UnitPrice: decimal.RequireFromString("0.99")},
	}}))
	assert.NoError(t, validateInput(UpdatePurchaseInput{}))
	assert.NoError(t, validateInput(AccountInput{BankName: "B", AccountNumber: "1", AccountHolder: "H", OpeningBalance: decimal.RequireFromString("-12.30")}))
}

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
