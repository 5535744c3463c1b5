package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// BalanceAdjuster is the only writer of accounts.balance after an account is
// created. A reversal is ApplyTx with the negated delta.
type BalanceAdjuster interface {
	// ApplyTx adds delta to the account balance inside the caller's
	// transaction. Balances may go negative.
	ApplyTx(ctx context.Context, tx pgx.Tx, accountID int, delta decimal.Decimal) error
}

type balanceAdjuster struct{}

func NewBalanceAdjuster() BalanceAdjuster {
	return balanceAdjuster{}
}

func (balanceAdjuster) ApplyTx(ctx context.Context, tx pgx.Tx, accountID int, delta decimal.Decimal) error {
	tag, err := tx.Exec(ctx, `
		UPDATE accounts
		SET balance = balance + $1, updated_at = NOW()
		WHERE id = $2
	`, delta, accountID)
	if err != nil {
		return fmt.Errorf("adjust balance for account %d: %w", accountID, err)
	}
	if tag.RowsAffected() == 0 {
		return &NotFoundError{Entity: "account", ID: accountID}
	}
	return nil
}
