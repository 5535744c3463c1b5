package core

import (
	"context"

	"github.com/shopspring/decimal"
)

// PartyInput holds the fields to create a supplier or customer.
type PartyInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Phone   string `json:"phone" validate:"max=50"`
	Address string `json:"address" validate:"max=500"`
}

// ItemInput holds the fields to create an item. OpeningStock is the only
// stock write outside the stock ledger and can only be set here.
type ItemInput struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Unit         string          `json:"unit" validate:"max=50"`
	BasePrice    decimal.Decimal `json:"basePrice" validate:"gte=0,scale=2"`
	SellingPrice decimal.Decimal `json:"sellingPrice" validate:"gte=0,scale=2"`
	OpeningStock decimal.Decimal `json:"openingStock" validate:"gte=0,scale=4"`
}

// AccountInput holds the fields to create a bank account. OpeningBalance
// can only be set here; afterwards the balance adjuster owns the balance.
type AccountInput struct {
	BankName       string          `json:"bankName" validate:"required,max=200"`
	AccountNumber  string          `json:"accountNumber" validate:"required,max=100"`
	AccountHolder  string          `json:"accountHolder" validate:"required,max=200"`
	OpeningBalance decimal.Decimal `json:"openingBalance" validate:"scale=2"`
}

// MasterDataService creates and reads the records the ledgers reference.
// It has no update path for stock or balances.
type MasterDataService interface {
	CreateSupplier(ctx context.Context, input PartyInput) (*Supplier, error)
	GetSupplier(ctx context.Context, id int) (*Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	CreateCustomer(ctx context.Context, input PartyInput) (*Customer, error)
	GetCustomer(ctx context.Context, id int) (*Customer, error)
	ListCustomers(ctx context.Context) ([]Customer, error)

	CreateItem(ctx context.Context, input ItemInput) (*Item, error)
	GetItem(ctx context.Context, id int) (*Item, error)
	ListItems(ctx context.Context) ([]Item, error)

	CreateAccount(ctx context.Context, input AccountInput) (*Account, error)
	GetAccount(ctx context.Context, id int) (*Account, error)
	ListAccounts(ctx context.Context) ([]Account, error)
}
