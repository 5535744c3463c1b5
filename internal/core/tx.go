package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "smallbiz-ledger/internal/core"

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so read helpers can
// run inside or outside a transaction.
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// runInTx executes fn inside one database transaction. Any error from fn
// rolls the transaction back; driver errors come back as DatabaseError.
func runInTx(ctx context.Context, pool *pgxpool.Pool, op string, fn func(tx pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return classifyDBError(op, fmt.Errorf("begin transaction: %w", err))
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return classifyDBError(op, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return classifyDBError(op, fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(tracerName).Start(ctx, name, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
