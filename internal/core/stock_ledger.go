package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// StockEntry is one movement to append to the stock ledger. Quantity is
// signed: positive adds stock, negative removes it.
type StockEntry struct {
	ItemID    int
	Type      StockMovementType
	Quantity  decimal.Decimal
	RelatedID int
	Date      string // YYYY-MM-DD
}

// StockLedger is the only writer of items.current_stock. The Tx methods run
// inside the caller's purchase or sale transaction.
type StockLedger interface {
	// RecordTx appends entry and moves current_stock by entry.Quantity.
	// Fails with InsufficientStockError if the item would go below zero and
	// NotFoundError if the item does not exist.
	RecordTx(ctx context.Context, tx pgx.Tx, entry StockEntry) error

	// ReverseTx deletes every movement for (relatedID, movementType, itemID)
	// and applies the inverse of their sum. Returns the quantity reversed.
	ReverseTx(ctx context.Context, tx pgx.Tx, relatedID int, movementType StockMovementType, itemID int) (decimal.Decimal, error)

	// MovementsForItem returns an item's movements, oldest first.
	MovementsForItem(ctx context.Context, itemID int) ([]StockTransaction, error)
}

type stockLedger struct {
	pool *pgxpool.Pool
}

func NewStockLedger(pool *pgxpool.Pool) StockLedger {
	return &stockLedger{pool: pool}
}

func (l *stockLedger) RecordTx(ctx context.Context, tx pgx.Tx, entry StockEntry) error {
	if err := adjustStockTx(ctx, tx, entry.ItemID, entry.Quantity); err != nil {
		return err
	}

	_, err := tx.Exec(ctx, `
		INSERT INTO stock_transactions (item_id, type, quantity, related_id, transaction_date)
		VALUES ($1, $2, $3, $4, $5)
	`, entry.ItemID, string(entry.Type), entry.Quantity, entry.RelatedID, entry.Date)
	if err != nil {
		return fmt.Errorf("insert stock transaction for item %d: %w", entry.ItemID, err)
	}
	return nil
}

func (l *stockLedger) ReverseTx(ctx context.Context, tx pgx.Tx, relatedID int, movementType StockMovementType, itemID int) (decimal.Decimal, error) {
	rows, err := tx.Query(ctx, `
		DELETE FROM stock_transactions
		WHERE related_id = $1 AND type = $2 AND item_id = $3
		RETURNING quantity
	`, relatedID, string(movementType), itemID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("delete stock transactions for %s %d, item %d: %w", movementType, relatedID, itemID, err)
	}

	total := decimal.Zero
	for rows.Next() {
		var qty decimal.Decimal
		if err := rows.Scan(&qty); err != nil {
			rows.Close()
			return decimal.Zero, fmt.Errorf("scan reversed quantity: %w", err)
		}
		total = total.Add(qty)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return decimal.Zero, fmt.Errorf("iterate reversed stock transactions: %w", err)
	}

	if total.IsZero() {
		return total, nil
	}
	if err := adjustStockTx(ctx, tx, itemID, total.Neg()); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (l *stockLedger) MovementsForItem(ctx context.Context, itemID int) ([]StockTransaction, error) {
	var exists bool
	if err := l.pool.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM items WHERE id = $1)", itemID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check item %d: %w", itemID, err)
	}
	if !exists {
		return nil, &NotFoundError{Entity: "item", ID: itemID}
	}

	rows, err := l.pool.Query(ctx, `
		SELECT id, item_id, type, quantity, related_id, transaction_date::text, created_at
		FROM stock_transactions
		WHERE item_id = $1
		ORDER BY id
	`, itemID)
	if err != nil {
		return nil, fmt.Errorf("query stock transactions for item %d: %w", itemID, err)
	}
	defer rows.Close()

	var out []StockTransaction
	for rows.Next() {
		var st StockTransaction
		var movementType string
		if err := rows.Scan(&st.ID, &st.ItemID, &movementType, &st.Quantity, &st.RelatedID, &st.Date, &st.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock transaction: %w", err)
		}
		st.Type = StockMovementType(movementType)
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock transactions: %w", err)
	}
	return out, nil
}

// adjustStockTx moves current_stock by delta in a single guarded row update,
// so concurrent movements on the same item serialise on the row lock and
// never go below zero.
func adjustStockTx(ctx context.Context, tx pgx.Tx, itemID int, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx, `
		UPDATE items
		SET current_stock = current_stock + $1, updated_at = NOW()
		WHERE id = $2 AND current_stock + $1 >= 0
	`, delta, itemID)
	if err != nil {
		return fmt.Errorf("adjust stock for item %d: %w", itemID, err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	var name string
	var stock decimal.Decimal
	err = tx.QueryRow(ctx, "SELECT name, current_stock FROM items WHERE id = $1", itemID).Scan(&name, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return &NotFoundError{Entity: "item", ID: itemID}
	}
	if err != nil {
		return fmt.Errorf("read stock for item %d: %w", itemID, err)
	}
	return &InsufficientStockError{ItemID: itemID, ItemName: name, Available: stock, Requested: delta.Neg()}
}
