package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDBError(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
		wrapped   bool
	}{
		{name: "serialization failure", err: &pgconn.PgError{Code: "40001"}, retryable: true, wrapped: true},
		{name: "deadlock", err: fmt.Errorf("lock: %w", &pgconn.PgError{Code: "40P01"}), retryable: true, wrapped: true},
		{name: "foreign key violation", err: &pgconn.PgError{Code: "23503"}, wrapped: true},
		{name: "plain error", err: errors.New("connection reset"), wrapped: true},
		{name: "domain error passes through", err: &NotFoundError{Entity: "sale", ID: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyDBError("delete sale", tt.err)
			var dbErr *DatabaseError
			if !tt.wrapped {
				assert.Same(t, tt.err, got)
				assert.False(t, errors.As(got, &dbErr))
				return
			}
			require.True(t, errors.As(got, &dbErr))
			assert.Equal(t, "delete sale", dbErr.Op)
			assert.Equal(t, tt.retryable, IsRetryable(got))
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, classifyDBError("noop", nil))
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "item 7 not found", (&NotFoundError{Entity: "item", ID: 7}).Error())
	assert.Equal(t, "validation failed: date is required", (&ValidationError{Field: "date", Message: "is required"}).Error())

	stockErr := &InsufficientStockError{
		ItemID: 1, ItemName: "Widget",
		Available: decimal.NewFromInt(10), Requested: decimal.NewFromInt(12),
	}
	assert.Contains(t, stockErr.Error(), "available 10, required 12")
}
