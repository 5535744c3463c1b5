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

// tradeKind names the tables and columns of one trade document family.
// Purchases and sales share their whole lifecycle and differ only here.
type tradeKind struct {
	entity      string // "purchase"
	movement    StockMovementType
	header      string // purchases
	lines       string // purchase_items
	lineFK      string // purchase_id
	partyEntity string // supplier
	partyTable  string // suppliers
	partyFK     string // supplier_id
	dateCol     string // purchase_date
	settledCol  string // paid_amount
}

var purchaseKind = tradeKind{
	entity:      "purchase",
	movement:    MovementPurchase,
	header:      "purchases",
	lines:       "purchase_items",
	lineFK:      "purchase_id",
	partyEntity: "supplier",
	partyTable:  "suppliers",
	partyFK:     "supplier_id",
	dateCol:     "purchase_date",
	settledCol:  "paid_amount",
}

var saleKind = tradeKind{
	entity:      "sale",
	movement:    MovementSale,
	header:      "sales",
	lines:       "sale_items",
	lineFK:      "sale_id",
	partyEntity: "customer",
	partyTable:  "customers",
	partyFK:     "customer_id",
	dateCol:     "sale_date",
	settledCol:  "received_amount",
}

// tradeDoc is the storage shape shared by Purchase and Sale.
type tradeDoc struct {
	ID        int
	PartyID   int
	PartyName string
	Date      string
	Total     decimal.Decimal
	Settled   decimal.Decimal
	Status    TradeStatus
	Lines     []tradeLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

type tradeLine struct {
	ID         int
	DocID      int
	ItemID     int
	ItemName   string
	Unit       string
	Quantity   decimal.Decimal
	UnitPrice  decimal.Decimal
	TotalPrice decimal.Decimal
}

type newTradeDoc struct {
	PartyID int
	Date    string
	Lines   []LineInput
	Total   decimal.Decimal
	Settled decimal.Decimal
	Status  TradeStatus
}

type tradeDocPatch struct {
	Settled *decimal.Decimal
	Total   *decimal.Decimal
	Status  *TradeStatus
	Lines   []LineQuantityInput
}

type tradeFilter struct {
	PartyID *int
	Status  *TradeStatus
}

// tradeBook runs the transactional lifecycle of one trade document family.
// Every stock effect goes through the stock ledger.
type tradeBook struct {
	pool  *pgxpool.Pool
	stock StockLedger
	kind  tradeKind
}

// create inserts the header, its lines and one stock movement per line in a
// single transaction and returns the new document id.
func (b *tradeBook) create(ctx context.Context, in newTradeDoc) (int, error) {
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

		for _, line := range in.Lines {
			var itemExists bool
			if err := tx.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)", line.ItemID).Scan(&itemExists); err != nil {
				return fmt.Errorf("check item %d: %w", line.ItemID, err)
			}
			if !itemExists {
				return &NotFoundError{Entity: "item", ID: line.ItemID}
			}
		}

		if err := tx.QueryRow(ctx, fmt.Sprintf(`
			INSERT INTO %s (%s, %s, total_amount, %s, status)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, k.header, k.partyFK, k.dateCol, k.settledCol),
			in.PartyID, in.Date, in.Total, in.Settled, string(in.Status),
		).Scan(&id); err != nil {
			return fmt.Errorf("insert %s: %w", k.entity, err)
		}

		for i, line := range in.Lines {
			if _, err := tx.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s, line_number, item_id, quantity, unit_price, total_price)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, k.lines, k.lineFK),
				id, i+1, line.ItemID, line.Quantity, line.UnitPrice, lineTotal(line.Quantity, line.UnitPrice),
			); err != nil {
				return fmt.Errorf("insert %s line %d: %w", k.entity, i+1, err)
			}

			if err := b.stock.RecordTx(ctx, tx, StockEntry{
				ItemID:    line.ItemID,
				Type:      k.movement,
				Quantity:  line.Quantity.Mul(k.movement.sign()),
				RelatedID: id,
				Date:      in.Date,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// update applies scalar changes and line quantity changes. A line change
// appends the quantity delta to the stock ledger for the same document.
func (b *tradeBook) update(ctx context.Context, id int, in tradeDocPatch) error {
	k := b.kind
	return runInTx(ctx, b.pool, "update "+k.entity, func(tx pgx.Tx) error {
		var date string
		err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT %s::text FROM %s WHERE id = $1 FOR UPDATE", k.dateCol, k.header),
			id,
		).Scan(&date)
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: k.entity, ID: id}
		}
		if err != nil {
			return fmt.Errorf("lock %s %d: %w", k.entity, id, err)
		}

		var status *string
		if in.Status != nil {
			s := string(*in.Status)
			status = &s
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf(`
			UPDATE %s
			SET %s = COALESCE($2, %s),
			    total_amount = COALESCE($3, total_amount),
			    status = COALESCE($4, status),
			    updated_at = NOW()
			WHERE id = $1
		`, k.header, k.settledCol, k.settledCol),
			id, in.Settled, in.Total, status,
		); err != nil {
			return fmt.Errorf("update %s %d: %w", k.entity, id, err)
		}

		for _, change := range in.Lines {
			if err := b.changeLineTx(ctx, tx, id, date, change); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *tradeBook) changeLineTx(ctx context.Context, tx pgx.Tx, docID int, date string, change LineQuantityInput) error {
	k := b.kind
	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT id, quantity, unit_price
		FROM %s
		WHERE %s = $1 AND item_id = $2
		FOR UPDATE
	`, k.lines, k.lineFK), docID, change.ItemID)
	if err != nil {
		return fmt.Errorf("lock %s lines for item %d: %w", k.entity, change.ItemID, err)
	}

	var matches []tradeLine
	for rows.Next() {
		var l tradeLine
		if err := rows.Scan(&l.ID, &l.Quantity, &l.UnitPrice); err != nil {
			rows.Close()
			return fmt.Errorf("scan %s line: %w", k.entity, err)
		}
		matches = append(matches, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s lines: %w", k.entity, err)
	}

	switch len(matches) {
	case 0:
		return &NotFoundError{Entity: k.entity + " line item", ID: change.ItemID}
	case 1:
	default:
		return &ValidationError{
			Field:   "items",
			Message: fmt.Sprintf("item %d appears on %d lines of %s %d; delete and re-create it instead", change.ItemID, len(matches), k.entity, docID),
		}
	}

	line := matches[0]
	delta := change.Quantity.Sub(line.Quantity)
	if delta.IsZero() {
		return nil
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(`
		UPDATE %s SET quantity = $1, total_price = $2 WHERE id = $3
	`, k.lines), change.Quantity, lineTotal(change.Quantity, line.UnitPrice), line.ID); err != nil {
		return fmt.Errorf("update %s line %d: %w", k.entity, line.ID, err)
	}

	return b.stock.RecordTx(ctx, tx, StockEntry{
		ItemID:    change.ItemID,
		Type:      k.movement,
		Quantity:  delta.Mul(k.movement.sign()),
		RelatedID: docID,
		Date:      date,
	})
}

// delete tears a document down in order: lock header, reverse stock per item,
// delete lines, delete header.
func (b *tradeBook) delete(ctx context.Context, id int) error {
	k := b.kind
	return runInTx(ctx, b.pool, "delete "+k.entity, func(tx pgx.Tx) error {
		var locked int
		err := tx.QueryRow(ctx,
			fmt.Sprintf("SELECT id FROM %s WHERE id = $1 FOR UPDATE", k.header),
			id,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return &NotFoundError{Entity: k.entity, ID: id}
		}
		if err != nil {
			return fmt.Errorf("lock %s %d: %w", k.entity, id, err)
		}

		rows, err := tx.Query(ctx,
			fmt.Sprintf("SELECT DISTINCT item_id FROM %s WHERE %s = $1 ORDER BY item_id", k.lines, k.lineFK),
			id,
		)
		if err != nil {
			return fmt.Errorf("read %s lines: %w", k.entity, err)
		}
		itemIDs, err := pgx.CollectRows(rows, pgx.RowTo[int])
		if err != nil {
			return fmt.Errorf("collect %s lines: %w", k.entity, err)
		}

		for _, itemID := range itemIDs {
			if _, err := b.stock.ReverseTx(ctx, tx, id, k.movement, itemID); err != nil {
				return err
			}
		}

		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", k.lines, k.lineFK), id); err != nil {
			return fmt.Errorf("delete %s lines: %w", k.entity, err)
		}
		if _, err := tx.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", k.header), id); err != nil {
			return fmt.Errorf("delete %s %d: %w", k.entity, id, err)
		}
		return nil
	})
}

// get reads one document with its party name and lines.
func (b *tradeBook) get(ctx context.Context, q querier, id int) (*tradeDoc, error) {
	k := b.kind
	var d tradeDoc
	var status string
	err := q.QueryRow(ctx, fmt.Sprintf(`
		SELECT h.id, h.%[3]s, p.name, h.%[4]s::text, h.total_amount, h.%[5]s, h.status, h.created_at, h.updated_at
		FROM %[1]s h
		JOIN %[2]s p ON p.id = h.%[3]s
		WHERE h.id = $1
	`, k.header, k.partyTable, k.partyFK, k.dateCol, k.settledCol), id).Scan(
		&d.ID, &d.PartyID, &d.PartyName, &d.Date, &d.Total, &d.Settled, &status, &d.CreatedAt, &d.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, &NotFoundError{Entity: k.entity, ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %d: %w", k.entity, id, err)
	}
	d.Status = TradeStatus(status)

	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT l.id, l.%[2]s, l.item_id, i.name, i.unit, l.quantity, l.unit_price, l.total_price
		FROM %[1]s l
		JOIN items i ON i.id = l.item_id
		WHERE l.%[2]s = $1
		ORDER BY l.line_number
	`, k.lines, k.lineFK), id)
	if err != nil {
		return nil, fmt.Errorf("get %s lines: %w", k.entity, err)
	}
	defer rows.Close()

	for rows.Next() {
		var l tradeLine
		if err := rows.Scan(&l.ID, &l.DocID, &l.ItemID, &l.ItemName, &l.Unit, &l.Quantity, &l.UnitPrice, &l.TotalPrice); err != nil {
			return nil, fmt.Errorf("scan %s line: %w", k.entity, err)
		}
		d.Lines = append(d.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s lines: %w", k.entity, err)
	}
	return &d, nil
}

// list returns document headers, newest first. Lines are not loaded.
func (b *tradeBook) list(ctx context.Context, f tradeFilter) ([]tradeDoc, error) {
	k := b.kind
	var where []string
	var args []any
	if f.PartyID != nil {
		args = append(args, *f.PartyID)
		where = append(where, fmt.Sprintf("h.%s = $%d", k.partyFK, len(args)))
	}
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("h.status = $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT h.id, h.%[3]s, p.name, h.%[4]s::text, h.total_amount, h.%[5]s, h.status, h.created_at, h.updated_at
		FROM %[1]s h
		JOIN %[2]s p ON p.id = h.%[3]s
	`, k.header, k.partyTable, k.partyFK, k.dateCol, k.settledCol)
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY h.%s DESC, h.id DESC", k.dateCol)

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", k.header, err)
	}
	defer rows.Close()

	var out []tradeDoc
	for rows.Next() {
		var d tradeDoc
		var status string
		if err := rows.Scan(&d.ID, &d.PartyID, &d.PartyName, &d.Date, &d.Total, &d.Settled, &status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan %s: %w", k.entity, err)
		}
		d.Status = TradeStatus(status)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", k.header, err)
	}
	return out, nil
}
