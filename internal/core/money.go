package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// moneyKind names the table and columns of one money movement family and
// the direction it moves an account balance.
type moneyKind struct {
	entity      string // payment
	table       string // payments
	partyEntity string // supplier
	partyTable  string // suppliers
	partyFK     string // supplier_id
	dateCol     string // payment_date
	sign        int64  // -1 money out, +1 money in
}

var paymentKind = moneyKind{
	entity:      "payment",
	table:       "payments",
	partyEntity: "supplier",
	partyTable:  "suppliers",
	partyFK:     "supplier_id",
	dateCol:     "payment_date",
	sign:        -1,
}

var receiptKind = moneyKind{
	entity:      "receipt",
	table:       "receipts",
	partyEntity: "customer",
	partyTable:  "customers",
	partyFK:     "customer_id",
	dateCol:     "receipt_date",
	sign:        1,
}

// balanceDelta is the signed effect of amount on the paying or receiving account.
func (k moneyKind) balanceDelta(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(k.sign))
}

type moneyDoc struct {
	ID        int
	PartyID   int
	PartyName string
	Amount    decimal.Decimal
	Method    PaymentMethod
	AccountID *int
	Date      string
	Note      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type newMoneyDoc struct {
	PartyID   int
	Amount    decimal.Decimal
	Method    PaymentMethod
	AccountID *int
	Date      string
	Note      string
}

type moneyFilter struct {
	PartyID   *int
	AccountID *int
}

// moneyBook runs the lifecycle of payments or receipts. Account balances move
// only through the balance adjuster, and only for account-method rows.
type moneyBook struct {
	pool     *pgxpool.Pool
	balances BalanceAdjuster
	kind     moneyKind
}

func (b *moneyBook) create(ctx context.Context, in newMoneyDoc) (int, error) {
	k := b.kind
	var id int
	err := runInTx(ctx, b.pool, "create "+k.entity, func(tx pgx.Tx) error {
		var partyExists bool
		if err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE id = $1)", k.partyTable),
			in.PartyID,
		).Scan(&partyExists); err != nil {
			return fmt.Errorf("check %s: %w", k.partyEntity, err)
		}
		if !partyExists {
			return &NotFoundError{Entity: k.partyEntity, ID: in.PartyID}
		}

		if in.Method == MethodAccount {
			if err := b.balances.ApplyTx(ctx, tx, *in.AccountID, k.balanceDelta(in.Amount)); err != nil {
				return err
			}
		}

		if err := tx.QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO %s (%s, amount, method, account_id, %s, note)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id
		`, k.table, k.partyFK, k.dateCol),
			in.PartyID, in.Amount, string(in.Method), in.AccountID, in.Date, in.Note,
		).Scan(&id); err != nil {
			return fmt.Errorf("insert %s: %w", k.entity, err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// update changes only date and note; amounts and methods are immutable.
func (b *moneyBook) update(ctx context.Context, id int, date, note *string) error {
	k := b.kind
	return runInTx(ctx, b.pool, "update "+k.entity, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %[1]s
			SET %[2]s = COALESCE($2::date, %[2]s),
			    note = COALESCE($3, note),
			    updated_at = NOW()
			WHERE id = $1
		`, k.table, k.dateCol), id, date, note)
		if err != nil {
			return fmt.Errorf("update %s %d: %w", k.entity, id, err)
		}
		if tag.RowsAffected() == 0 {
			return &NotFoundError{Entity: k.entity, ID: id}
		}
		return nil
	})
}

// delete removes the row and reverses its balance effect.
func (b *moneyBook) delete(ctx context.Context, id int) error {
	k := b.kind
	return runInTx(ctx, b.pool, "delete "+k.entity, func(tx pgx.Tx) error {
		var amount decimal.Decimal
		var method string
		var accountID *int
		err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT amount, method, account_id FROM %s WHERE id = $1 FOR UPDATE", k.table),
			id,
		).Scan(&amount, &method, &accountID)
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: k.entity, ID: id}
		}
		if err != nil {
			return fmt.Errorf("lock %s %d: %w", k.entity, id, err)
		}

		if PaymentMethod(method) == MethodAccount && accountID != nil {
			if err := b.balances.ApplyTx(ctx, tx, *accountID, k.balanceDelta(amount).Neg()); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", k.table), id); err != nil {
			return fmt.Errorf("delete %s %d: %w", k.entity, id, err)
		}
		return nil
	})
}

func (b *moneyBook) selectSQL() string {
	k := b.kind
	return fmt.Sprintf(`
		SELECT m.id, m.%[3]s, p.name, m.amount, m.method, m.account_id, m.%[4]s::text, m.note, m.created_at, m.updated_at
		FROM %[1]s m
		JOIN %[2]s p ON p.id = m.%[3]s
	`, k.table, k.partyTable, k.partyFK, k.dateCol)
}

func scanMoneyDoc(row pgx.Row) (*moneyDoc, error) {
	var d moneyDoc
	var method string
	if err := row.Scan(&d.ID, &d.PartyID, &d.PartyName, &d.Amount, &method, &d.AccountID, &d.Date, &d.Note, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.Method = PaymentMethod(method)
	return &d, nil
}

func (b *moneyBook) get(ctx context.Context, id int) (*moneyDoc, error) {
	d, err := scanMoneyDoc(b.pool.QueryRow(ctx, b.selectSQL()+" WHERE m.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: b.kind.entity, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", b.kind.entity, id, err)
	}
	return d, nil
}

func (b *moneyBook) list(ctx context.Context, f moneyFilter) ([]moneyDoc, error) {
	k := b.kind
	var where []string
	var args []any
	if f.PartyID != nil {
		args = append(args, *f.PartyID)
		where = append(where, fmt.Sprintf("m.%s = $%d", k.partyFK, len(args)))
	}
	if f.AccountID != nil {
		args = append(args, *f.AccountID)
		where = append(where, fmt.Sprintf("m.account_id = $%d", len(args)))
	}

	query := b.selectSQL()
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY m.%s DESC, m.id DESC", k.dateCol)

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.table, err)
	}
	defer rows.Close()

	var out []moneyDoc
	for rows.Next() {
		d, err := scanMoneyDoc(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", k.entity, err)
		}
		out = append(out, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", k.table, err)
	}
	return out, nil
}

// checkMethod parses method and enforces that an account is given exactly
// when money moved through one.
func checkMethod(method string, accountID *int) (PaymentMethod, error) {
	m, err := ParsePaymentMethod(method)
	if err != nil {
		return "", err
	}
	switch m {
	case MethodAccount:
		if accountID == nil || *accountID <= 0 {
			return "", &ValidationError{Field: "accountId", Message: "is required when method is account"}
		}
	case MethodCash:
		if accountID != nil {
			return "", &ValidationError{Field: "accountId", Message: "must be empty when method is cash"}
		}
	}
	return m, nil
}

// checkDatePatch rejects an explicit empty date on update.
func checkDatePatch(date *string) error {
	if date != nil && *date == "" {
		return &ValidationError{Field: "date", Message: "must not be empty"}
	}
	return nil
}
