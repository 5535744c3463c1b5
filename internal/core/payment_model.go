package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Payment is money paid to a supplier. AccountID is set iff Method is account.
type Payment struct {
	ID           int             `json:"id"`
	SupplierID   int             `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"method"`
	AccountID    *int            `json:"accountId,omitempty"`
	Date         string          `json:"date"` // YYYY-MM-DD
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// Receipt is money received from a customer. AccountID is set iff Method is account.
type Receipt struct {
	ID           int             `json:"id"`
	CustomerID   int             `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Amount       decimal.Decimal `json:"amount"`
	Method       PaymentMethod   `json:"method"`
	AccountID    *int            `json:"accountId,omitempty"`
	Date         string          `json:"date"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type CreatePaymentInput struct {
	SupplierID int             `json:"supplierId" validate:"required,gt=0"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0,scale=2"`
	Method     string          `json:"method" validate:"required"`
	AccountID  *int            `json:"accountId,omitempty"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note       string          `json:"note" validate:"max=500"`
}

type CreateReceiptInput struct {
	CustomerID int             `json:"customerId" validate:"required,gt=0"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0,scale=2"`
	Method     string          `json:"method" validate:"required"`
	AccountID  *int            `json:"accountId,omitempty"`
	Date       string          `json:"date" validate:"required,datetime=2006-01-02"`
	Note       string          `json:"note" validate:"max=500"`
}

// UpdateMoneyInput is the only mutable part of a payment or receipt.
// Amount, method and account are fixed once recorded.
type UpdateMoneyInput struct {
	Date *string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type PaymentFilter struct {
	SupplierID *int
	AccountID  *int
}

type ReceiptFilter struct {
	CustomerID *int
	AccountID  *int
}

func paymentFromDoc(d *moneyDoc) *Payment {
	return &Payment{
		ID:           d.ID,
		SupplierID:   d.PartyID,
		SupplierName: d.PartyName,
		Amount:       d.Amount,
		Method:       d.Method,
		AccountID:    d.AccountID,
		Date:         d.Date,
		Note:         d.Note,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

func receiptFromDoc(d *moneyDoc) *Receipt {
	return &Receipt{
		ID:           d.ID,
		CustomerID:   d.PartyID,
		CustomerName: d.PartyName,
		Amount:       d.Amount,
		Method:       d.Method,
		AccountID:    d.AccountID,
		Date:         d.Date,
		Note:         d.Note,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}
