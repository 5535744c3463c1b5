package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// CustomerBalance is what a customer still owes.
// Outstanding = TotalSales - TotalReceipts; negative means the customer is in credit.
type CustomerBalance struct {
	CustomerID    int             `json:"customerId"`
	CustomerName  string          `json:"customerName"`
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalReceipts decimal.Decimal `json:"totalReceipts"`
	Outstanding   decimal.Decimal `json:"outstanding"`
}

// SupplierBalance is what the business still owes a supplier.
// Outstanding = TotalPurchases - TotalPayments.
type SupplierBalance struct {
	SupplierID     int             `json:"supplierId"`
	SupplierName   string          `json:"supplierName"`
	TotalPurchases decimal.Decimal `json:"totalPurchases"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	Outstanding    decimal.Decimal `json:"outstanding"`
}

// AccountSummary ties an account balance back to its money movements.
// ImpliedOpening = Balance + TotalPayments - TotalReceipts, which equals
// OpeningBalance whenever only the balance adjuster has touched the account.
type AccountSummary struct {
	AccountID      int             `json:"accountId"`
	BankName       string          `json:"bankName"`
	AccountNumber  string          `json:"accountNumber"`
	AccountHolder  string          `json:"accountHolder"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Balance        decimal.Decimal `json:"balance"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	TotalReceipts  decimal.Decimal `json:"totalReceipts"`
	ImpliedOpening decimal.Decimal `json:"impliedOpening"`
	Consistent     bool            `json:"consistent"`
}

// StockSummaryLine compares an item's current stock with its ledger.
// Consistent is true when OpeningStock + LedgerQuantity == CurrentStock.
type StockSummaryLine struct {
	ItemID         int             `json:"itemId"`
	Name           string          `json:"name"`
	Unit           string          `json:"unit"`
	OpeningStock   decimal.Decimal `json:"openingStock"`
	CurrentStock   decimal.Decimal `json:"currentStock"`
	LedgerQuantity decimal.Decimal `json:"ledgerQuantity"`
	Consistent     bool            `json:"consistent"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregates, recomputed from current
// rows on every call.
type ReportingService interface {
	CustomerBalance(ctx context.Context, customerID int) (*CustomerBalance, error)
	SupplierBalance(ctx context.Context, supplierID int) (*SupplierBalance, error)

	// CustomerBalances and SupplierBalances return every party ordered by name.
	CustomerBalances(ctx context.Context) ([]CustomerBalance, error)
	SupplierBalances(ctx context.Context) ([]SupplierBalance, error)

	// AccountSummaries sums account-method payments and receipts per account.
	AccountSummaries(ctx context.Context) ([]AccountSummary, error)

	// StockSummary sums the stock ledger per item.
	StockSummary(ctx context.Context) ([]StockSummaryLine, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

type partyBalance struct {
	id      int
	name    string
	traded  decimal.Decimal
	settled decimal.Decimal
}

// partyBalanceSQL sums trade totals against money movements for one party table.
func partyBalanceSQL(trade tradeKind, money moneyKind) string {
	return fmt.Sprintf(`
		SELECT p.id, p.name,
		       COALESCE((SELECT SUM(t.total_amount) FROM %[2]s t WHERE t.%[3]s = p.id), 0),
		       COALESCE((SELECT SUM(m.amount) FROM %[4]s m WHERE m.%[5]s = p.id), 0)
		FROM %[1]s p`,
		trade.partyTable, trade.header, trade.partyFK, money.table, money.partyFK)
}

func (s *reportingService) partyBalance(ctx context.Context, trade tradeKind, money moneyKind, id int) (*partyBalance, error) {
	var b partyBalance
	err := s.pool.QueryRow(ctx, partyBalanceSQL(trade, money)+" WHERE p.id = $1", id).
		Scan(&b.id, &b.name, &b.traded, &b.settled)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: trade.partyEntity, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s balance: %w", trade.partyEntity, err)
	}
	return &b, nil
}

func (s *reportingService) partyBalances(ctx context.Context, trade tradeKind, money moneyKind) ([]partyBalance, error) {
	rows, err := s.pool.Query(ctx, partyBalanceSQL(trade, money)+" ORDER BY p.name, p.id")
	if err != nil {
		return nil, fmt.Errorf("failed to query %s balances: %w", trade.partyEntity, err)
	}
	defer rows.Close()

	var out []partyBalance
	for rows.Next() {
		var b partyBalance
		if err := rows.Scan(&b.id, &b.name, &b.traded, &b.settled); err != nil {
			return nil, fmt.Errorf("failed to scan %s balance: %w", trade.partyEntity, err)
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (b partyBalance) customer() CustomerBalance {
	return CustomerBalance{
		CustomerID:    b.id,
		CustomerName:  b.name,
		TotalSales:    b.traded,
		TotalReceipts: b.settled,
		Outstanding:   b.traded.Sub(b.settled),
	}
}

func (b partyBalance) supplier() SupplierBalance {
	return SupplierBalance{
		SupplierID:     b.id,
		SupplierName:   b.name,
		TotalPurchases: b.traded,
		TotalPayments:  b.settled,
		Outstanding:    b.traded.Sub(b.settled),
	}
}

// ── Party balances ────────────────────────────────────────────────────────────

func (s *reportingService) CustomerBalance(ctx context.Context, customerID int) (*CustomerBalance, error) {
	b, err := s.partyBalance(ctx, saleKind, receiptKind, customerID)
	if err != nil {
		return nil, err
	}
	cb := b.customer()
	return &cb, nil
}

func (s *reportingService) SupplierBalance(ctx context.Context, supplierID int) (*SupplierBalance, error) {
	b, err := s.partyBalance(ctx, purchaseKind, paymentKind, supplierID)
	if err != nil {
		return nil, err
	}
	sb := b.supplier()
	return &sb, nil
}

func (s *reportingService) CustomerBalances(ctx context.Context) ([]CustomerBalance, error) {
	rows, err := s.partyBalances(ctx, saleKind, receiptKind)
	if err != nil {
		return nil, err
	}
	out := make([]CustomerBalance, 0, len(rows))
	for _, b := range rows {
		out = append(out, b.customer())
	}
	return out, nil
}

func (s *reportingService) SupplierBalances(ctx context.Context) ([]SupplierBalance, error) {
	rows, err := s.partyBalances(ctx, purchaseKind, paymentKind)
	if err != nil {
		return nil, err
	}
	out := make([]SupplierBalance, 0, len(rows))
	for _, b := range rows {
		out = append(out, b.supplier())
	}
	return out, nil
}

// ── Accounts & stock ──────────────────────────────────────────────────────────

func (s *reportingService) AccountSummaries(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, a.bank_name, a.account_number, a.account_holder, a.opening_balance, a.balance,
		       COALESCE((SELECT SUM(p.amount) FROM payments p WHERE p.account_id = a.id AND p.method = 'account'), 0),
		       COALESCE((SELECT SUM(r.amount) FROM receipts r WHERE r.account_id = a.id AND r.method = 'account'), 0)
		FROM accounts a
		ORDER BY a.bank_name, a.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query account summaries: %w", err)
	}
	defer rows.Close()

	var out []AccountSummary
	for rows.Next() {
		var a AccountSummary
		if err := rows.Scan(&a.AccountID, &a.BankName, &a.AccountNumber, &a.AccountHolder,
			&a.OpeningBalance, &a.Balance, &a.TotalPayments, &a.TotalReceipts); err != nil {
			return nil, fmt.Errorf("failed to scan account summary: %w", err)
		}
		a.ImpliedOpening = a.Balance.Add(a.TotalPayments).Sub(a.TotalReceipts)
		a.Consistent = a.ImpliedOpening.Equal(a.OpeningBalance)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *reportingService) StockSummary(ctx context.Context) ([]StockSummaryLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT i.id, i.name, i.unit, i.opening_stock, i.current_stock,
		       COALESCE((SELECT SUM(st.quantity) FROM stock_transactions st WHERE st.item_id = i.id), 0)
		FROM items i
		ORDER BY i.name, i.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query stock summary: %w", err)
	}
	defer rows.Close()

	var out []StockSummaryLine
	for rows.Next() {
		var l StockSummaryLine
		if err := rows.Scan(&l.ItemID, &l.Name, &l.Unit, &l.OpeningStock, &l.CurrentStock, &l.LedgerQuantity); err != nil {
			return nil, fmt.Errorf("failed to scan stock summary: %w", err)
		}
		l.Consistent = l.OpeningStock.Add(l.LedgerQuantity).Equal(l.CurrentStock)
		out = append(out, l)
	}
	return out, rows.Err()
}
