package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type masterDataService struct {
	pool *pgxpool.Pool
}

// NewMasterDataService constructs a MasterDataService backed by PostgreSQL.
func NewMasterDataService(pool *pgxpool.Pool) MasterDataService {
	return &masterDataService{pool: pool}
}

func toPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// ── Suppliers & customers ─────────────────────────────────────────────────────

// party is the shared row shape of suppliers and customers.
type party struct {
	ID        int
	Name      string
	Phone     string
	Address   string
	CreatedAt time.Time
}

func (s *masterDataService) createParty(ctx context.Context, table string, input PartyInput) (*party, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	p := &party{}
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		INSERT INTO %s (name, phone, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at`, table),
		input.Name, toPtr(input.Phone), toPtr(input.Address),
	).Scan(&p.ID, &p.Name, &p.Phone, &p.Address, &p.CreatedAt)
	if err != nil {
		return nil, classifyDBError("create "+table, fmt.Errorf("insert %q: %w", input.Name, err))
	}
	return p, nil
}

func (s *masterDataService) getParty(ctx context.Context, table, entity string, id int) (*party, error) {
	p := &party{}
	err := s.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM %s WHERE id = $1`, table), id,
	).Scan(&p.ID, &p.Name, &p.Phone, &p.Address, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: entity, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", entity, id, err)
	}
	return p, nil
}

func (s *masterDataService) listParties(ctx context.Context, table string) ([]party, error) {
	rows, err := s.pool.Query(ctx, fmt.Sprintf(`
		SELECT id, name, COALESCE(phone, ''), COALESCE(address, ''), created_at
		FROM %s ORDER BY name, id`, table))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	var out []party
	for rows.Next() {
		var p party
		if err := rows.Scan(&p.ID, &p.Name, &p.Phone, &p.Address, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *masterDataService) CreateSupplier(ctx context.Context, input PartyInput) (*Supplier, error) {
	p, err := s.createParty(ctx, "suppliers", input)
	if err != nil {
		return nil, err
	}
	sup := Supplier(*p)
	return &sup, nil
}

func (s *masterDataService) GetSupplier(ctx context.Context, id int) (*Supplier, error) {
	p, err := s.getParty(ctx, "suppliers", "supplier", id)
	if err != nil {
		return nil, err
	}
	sup := Supplier(*p)
	return &sup, nil
}

func (s *masterDataService) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	ps, err := s.listParties(ctx, "suppliers")
	if err != nil {
		return nil, err
	}
	out := make([]Supplier, 0, len(ps))
	for _, p := range ps {
		out = append(out, Supplier(p))
	}
	return out, nil
}

func (s *masterDataService) CreateCustomer(ctx context.Context, input PartyInput) (*Customer, error) {
	p, err := s.createParty(ctx, "customers", input)
	if err != nil {
		return nil, err
	}
	c := Customer(*p)
	return &c, nil
}

func (s *masterDataService) GetCustomer(ctx context.Context, id int) (*Customer, error) {
	p, err := s.getParty(ctx, "customers", "customer", id)
	if err != nil {
		return nil, err
	}
	c := Customer(*p)
	return &c, nil
}

func (s *masterDataService) ListCustomers(ctx context.Context) ([]Customer, error) {
	ps, err := s.listParties(ctx, "customers")
	if err != nil {
		return nil, err
	}
	out := make([]Customer, 0, len(ps))
	for _, p := range ps {
		out = append(out, Customer(p))
	}
	return out, nil
}

// ── Items ─────────────────────────────────────────────────────────────────────

const itemColumns = `id, name, unit, base_price, selling_price, opening_stock, current_stock, created_at`

func scanItem(row pgx.Row) (*Item, error) {
	it := &Item{}
	if err := row.Scan(&it.ID, &it.Name, &it.Unit, &it.BasePrice, &it.SellingPrice,
		&it.OpeningStock, &it.CurrentStock, &it.CreatedAt); err != nil {
		return nil, err
	}
	return it, nil
}

// CreateItem inserts an item with current stock equal to its opening stock.
func (s *masterDataService) CreateItem(ctx context.Context, input ItemInput) (*Item, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	unit := input.Unit
	if unit == "" {
		unit = "unit"
	}
	it, err := scanItem(s.pool.QueryRow(ctx, `
		INSERT INTO items (name, unit, base_price, selling_price, opening_stock, current_stock)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+itemColumns,
		input.Name, unit, input.BasePrice, input.SellingPrice, input.OpeningStock,
	))
	if err != nil {
		return nil, classifyDBError("create item", fmt.Errorf("insert %q: %w", input.Name, err))
	}
	return it, nil
}

func (s *masterDataService) GetItem(ctx context.Context, id int) (*Item, error) {
	it, err := scanItem(s.pool.QueryRow(ctx, "SELECT "+itemColumns+" FROM items WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "item", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", id, err)
	}
	return it, nil
}

func (s *masterDataService) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+itemColumns+" FROM items ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

// ── Accounts ──────────────────────────────────────────────────────────────────

const accountColumns = `id, bank_name, account_number, account_holder, opening_balance, balance, created_at`

func scanAccount(row pgx.Row) (*Account, error) {
	a := &Account{}
	if err := row.Scan(&a.ID, &a.BankName, &a.AccountNumber, &a.AccountHolder,
		&a.OpeningBalance, &a.Balance, &a.CreatedAt); err != nil {
		return nil, err
	}
	return a, nil
}

// CreateAccount inserts an account with balance equal to its opening balance.
func (s *masterDataService) CreateAccount(ctx context.Context, input AccountInput) (*Account, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	a, err := scanAccount(s.pool.QueryRow(ctx, `
		INSERT INTO accounts (bank_name, account_number, account_holder, opening_balance, balance)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+accountColumns,
		input.BankName, input.AccountNumber, input.AccountHolder, input.OpeningBalance,
	))
	if err != nil {
		return nil, classifyDBError("create account", fmt.Errorf("insert %q: %w", input.AccountNumber, err))
	}
	return a, nil
}

func (s *masterDataService) GetAccount(ctx context.Context, id int) (*Account, error) {
	a, err := scanAccount(s.pool.QueryRow(ctx, "SELECT "+accountColumns+" FROM accounts WHERE id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: "account", ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get account %d: %w", id, err)
	}
	return a, nil
}

func (s *masterDataService) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.pool.Query(ctx, "SELECT "+accountColumns+" FROM accounts ORDER BY bank_name, id")
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, *a)
	}
	return out, rows.Err()
}
