package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Purchase is stock bought from a supplier.
type Purchase struct {
	ID           int             `json:"id"`
	SupplierID   int             `json:"supplierId"`
	SupplierName string          `json:"supplierName"`
	Date         string          `json:"date"` // YYYY-MM-DD
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	PaidAmount   decimal.Decimal `json:"paidAmount"`
	Status       TradeStatus     `json:"status"`
	Items        []PurchaseItem  `json:"items,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// PurchaseItem is one line of a purchase.
type PurchaseItem struct {
	ID         int             `json:"id"`
	PurchaseID int             `json:"purchaseId"`
	ItemID     int             `json:"itemId"`
	ItemName   string          `json:"itemName"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// CreatePurchaseInput is the payload for recording a purchase. A zero
// TotalAmount defaults to the sum of the line totals.
type CreatePurchaseInput struct {
	SupplierID  int             `json:"supplierId" validate:"required,gt=0"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Items       []LineInput     `json:"items" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"gte=0,scale=2"`
	PaidAmount  decimal.Decimal `json:"paidAmount" validate:"gte=0,scale=2"`
	Status      string          `json:"status"`
}

// UpdatePurchaseInput changes only the fields that are set. Items rewrites
// the quantity of existing lines.
type UpdatePurchaseInput struct {
	PaidAmount  *decimal.Decimal    `json:"paidAmount,omitempty" validate:"omitempty,gte=0,scale=2"`
	TotalAmount *decimal.Decimal    `json:"totalAmount,omitempty" validate:"omitempty,gte=0,scale=2"`
	Status      *string             `json:"status,omitempty"`
	Items       []LineQuantityInput `json:"items,omitempty" validate:"omitempty,dive"`
}

// PurchaseFilter narrows List. Nil fields match everything.
type PurchaseFilter struct {
	SupplierID *int
	Status     *TradeStatus
}

func purchaseFromDoc(d *tradeDoc) *Purchase {
	p := &Purchase{
		ID:           d.ID,
		SupplierID:   d.PartyID,
		SupplierName: d.PartyName,
		Date:         d.Date,
		TotalAmount:  d.Total,
		PaidAmount:   d.Settled,
		Status:       d.Status,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	for _, l := range d.Lines {
		p.Items = append(p.Items, PurchaseItem{
			ID:         l.ID,
			PurchaseID: l.DocID,
			ItemID:     l.ItemID,
			ItemName:   l.ItemName,
			Unit:       l.Unit,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		})
	}
	return p
}
