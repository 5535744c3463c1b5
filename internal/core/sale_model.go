package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is stock sold to a customer.
type Sale struct {
	ID             int             `json:"id"`
	CustomerID     int             `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	Date           string          `json:"date"` // YYYY-MM-DD
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount"`
	Status         TradeStatus     `json:"status"`
	Items          []SaleItem      `json:"items,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type SaleItem struct {
	ID         int             `json:"id"`
	SaleID     int             `json:"saleId"`
	ItemID     int             `json:"itemId"`
	ItemName   string          `json:"itemName"`
	Unit       string          `json:"unit"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

type CreateSaleInput struct {
	CustomerID     int             `json:"customerId" validate:"required,gt=0"`
	Date           string          `json:"date" validate:"required,datetime=2006-01-02"`
	Items          []LineInput     `json:"items" validate:"required,min=1,dive"`
	TotalAmount    decimal.Decimal `json:"totalAmount" validate:"gte=0,scale=2"`
	ReceivedAmount decimal.Decimal `json:"receivedAmount" validate:"gte=0,scale=2"`
	Status         string          `json:"status"`
}

type UpdateSaleInput struct {
	ReceivedAmount *decimal.Decimal    `json:"receivedAmount,omitempty" validate:"omitempty,gte=0,scale=2"`
	TotalAmount    *decimal.Decimal    `json:"totalAmount,omitempty" validate:"omitempty,gte=0,scale=2"`
	Status         *string             `json:"status,omitempty"`
	Items          []LineQuantityInput `json:"items,omitempty" validate:"omitempty,dive"`
}

type SaleFilter struct {
	CustomerID *int
	Status     *TradeStatus
}

func saleFromDoc(d *tradeDoc) *Sale {
	s := &Sale{
		ID:             d.ID,
		CustomerID:     d.PartyID,
		CustomerName:   d.PartyName,
		Date:           d.Date,
		TotalAmount:    d.Total,
		ReceivedAmount: d.Settled,
		Status:         d.Status,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	for _, l := range d.Lines {
		s.Items = append(s.Items, SaleItem{
			ID:         l.ID,
			SaleID:     l.DocID,
			ItemID:     l.ItemID,
			ItemName:   l.ItemName,
			Unit:       l.Unit,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.TotalPrice,
		})
	}
	return s
}
