package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// SaleService records stock sold to customers. A sale never takes an item
// below zero stock; the check and the decrement are one row update.
type SaleService interface {
	// Create records a sale and removes each line's quantity from stock.
	// Fails with InsufficientStockError and writes nothing if any line
	// exceeds current stock.
	Create(ctx context.Context, in CreateSaleInput) (*Sale, error)
	Update(ctx context.Context, id int, in UpdateSaleInput) (*Sale, error)
	// Delete removes the sale and returns its quantities to stock.
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Sale, error)
	List(ctx context.Context, filter SaleFilter) ([]Sale, error)
}

type saleService struct {
	pool *pgxpool.Pool
	book *tradeBook
}

func NewSaleService(pool *pgxpool.Pool, stock StockLedger) SaleService {
	return &saleService{
		pool: pool,
		book: &tradeBook{pool: pool, stock: stock, kind: saleKind},
	}
}

func (s *saleService) Create(ctx context.Context, in CreateSaleInput) (_ *Sale, err error) {
	ctx, span := startSpan(ctx, "SaleService.Create", attribute.Int("customer.id", in.CustomerID))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	status, err := ParseTradeStatus(in.Status)
	if err != nil {
		return nil, err
	}
	total := in.TotalAmount
	if total.IsZero() {
		total = sumLines(in.Items)
	}

	id, err := s.book.create(ctx, newTradeDoc{
		PartyID: in.CustomerID,
		Date:    in.Date,
		Lines:   in.Items,
		Total:   total,
		Settled: in.ReceivedAmount,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *saleService) Update(ctx context.Context, id int, in UpdateSaleInput) (_ *Sale, err error) {
	ctx, span := startSpan(ctx, "SaleService.Update", attribute.Int("sale.id", id))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	patch, err := tradePatch(in.ReceivedAmount, in.TotalAmount, in.Status, in.Items)
	if err != nil {
		return nil, err
	}
	if err := s.book.update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *saleService) Delete(ctx context.Context, id int) (err error) {
	ctx, span := startSpan(ctx, "SaleService.Delete", attribute.Int("sale.id", id))
	defer func() { endSpan(span, err) }()

	return s.book.delete(ctx, id)
}

func (s *saleService) Get(ctx context.Context, id int) (*Sale, error) {
	d, err := s.book.get(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return saleFromDoc(d), nil
}

func (s *saleService) List(ctx context.Context, filter SaleFilter) ([]Sale, error) {
	docs, err := s.book.list(ctx, tradeFilter{PartyID: filter.CustomerID, Status: filter.Status})
	if err != nil {
		return nil, err
	}
	out := make([]Sale, 0, len(docs))
	for i := range docs {
		out = append(out, *saleFromDoc(&docs[i]))
	}
	return out, nil
}
