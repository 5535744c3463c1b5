package core

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TradeStatus is the settlement state of a purchase or sale.
type TradeStatus string

const (
	StatusRecorded  TradeStatus = "recorded"
	StatusPaid      TradeStatus = "paid"
	StatusPartial   TradeStatus = "partial"
	StatusCancelled TradeStatus = "cancelled"
)

// ParseTradeStatus returns the status for s. An empty string means recorded.
func ParseTradeStatus(s string) (TradeStatus, error) {
	switch TradeStatus(s) {
	case "":
		return StatusRecorded, nil
	case StatusRecorded, StatusPaid, StatusPartial, StatusCancelled:
		return TradeStatus(s), nil
	default:
		return "", &ValidationError{Field: "status", Message: fmt.Sprintf("must be one of recorded, paid, partial, cancelled (got %q)", s)}
	}
}

// PaymentMethod says whether money moved through cash or a bank account.
type PaymentMethod string

const (
	MethodCash    PaymentMethod = "cash"
	MethodAccount PaymentMethod = "account"
)

// ParsePaymentMethod returns the method for s.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case MethodCash, MethodAccount:
		return PaymentMethod(s), nil
	default:
		return "", &ValidationError{Field: "method", Message: fmt.Sprintf("must be cash or account (got %q)", s)}
	}
}

// StockMovementType identifies the document that produced a stock movement.
type StockMovementType string

const (
	MovementPurchase StockMovementType = "purchase"
	MovementSale     StockMovementType = "sale"
)

// sign returns +1 for inbound movements and -1 for outbound ones.
func (t StockMovementType) sign() decimal.Decimal {
	switch t {
	case MovementPurchase:
		return decimal.NewFromInt(1)
	case MovementSale:
		return decimal.NewFromInt(-1)
	default:
		panic(fmt.Sprintf("unknown stock movement type %q", string(t)))
	}
}

// Supplier is a party the business buys from.
type Supplier struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Customer is a party the business sells to.
type Customer struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"createdAt"`
}

// Item is a stocked product. CurrentStock is a derived aggregate owned by
// the stock ledger.
type Item struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	BasePrice    decimal.Decimal `json:"basePrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	OpeningStock decimal.Decimal `json:"openingStock"`
	CurrentStock decimal.Decimal `json:"currentStock"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Account is a bank account. Balance is a derived aggregate owned by the
// balance adjuster after creation.
type Account struct {
	ID             int             `json:"id"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountHolder  string          `json:"accountHolder"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// StockTransaction is one row of the stock ledger. Quantity is signed:
// positive for stock in, negative for stock out.
type StockTransaction struct {
	ID        int               `json:"id"`
	ItemID    int               `json:"itemId"`
	Type      StockMovementType `json:"type"`
	Quantity  decimal.Decimal   `json:"quantity"`
	RelatedID int               `json:"relatedId"`
	Date      string            `json:"date"` // YYYY-MM-DD
	CreatedAt time.Time         `json:"createdAt"`
}
