package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PurchaseService records stock bought from suppliers. Every mutation moves
// item stock through the stock ledger in the same transaction.
type PurchaseService interface {
	// Create records a purchase and adds each line's quantity to stock.
	Create(ctx context.Context, in CreatePurchaseInput) (*Purchase, error)

	// Update changes paid amount, total, status or line quantities. A line
	// quantity change moves stock by the difference.
	Update(ctx context.Context, id int, in UpdatePurchaseInput) (*Purchase, error)

	// Delete removes the purchase and takes its quantities back out of
	// stock. Fails with InsufficientStockError if that stock was already sold.
	Delete(ctx context.Context, id int) error

	Get(ctx context.Context, id int) (*Purchase, error)
	List(ctx context.Context, filter PurchaseFilter) ([]Purchase, error)
}

type purchaseService struct {
	pool *pgxpool.Pool
	book *tradeBook
}

func NewPurchaseService(pool *pgxpool.Pool, stock StockLedger) PurchaseService {
	return &purchaseService{
		pool: pool,
		book: &tradeBook{pool: pool, stock: stock, kind: purchaseKind},
	}
}

func (s *purchaseService) Create(ctx context.Context, in CreatePurchaseInput) (_ *Purchase, err error) {
	ctx, span := startSpan(ctx, "PurchaseService.Create", attribute.Int("supplier.id", in.SupplierID))
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
		PartyID: in.SupplierID,
		Date:    in.Date,
		Lines:   in.Items,
		Total:   total,
		Settled: in.PaidAmount,
		Status:  status,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *purchaseService) Update(ctx context.Context, id int, in UpdatePurchaseInput) (_ *Purchase, err error) {
	ctx, span := startSpan(ctx, "PurchaseService.Update", attribute.Int("purchase.id", id))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	patch, err := tradePatch(in.PaidAmount, in.TotalAmount, in.Status, in.Items)
	if err != nil {
		return nil, err
	}
	if err := s.book.update(ctx, id, patch); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *purchaseService) Delete(ctx context.Context, id int) (err error) {
	ctx, span := startSpan(ctx, "PurchaseService.Delete", attribute.Int("purchase.id", id))
	defer func() { endSpan(span, err) }()

	return s.book.delete(ctx, id)
}

func (s *purchaseService) Get(ctx context.Context, id int) (*Purchase, error) {
	d, err := s.book.get(ctx, s.pool, id)
	if err != nil {
		return nil, err
	}
	return purchaseFromDoc(d), nil
}

func (s *purchaseService) List(ctx context.Context, filter PurchaseFilter) ([]Purchase, error) {
	docs, err := s.book.list(ctx, tradeFilter{PartyID: filter.SupplierID, Status: filter.Status})
	if err != nil {
		return nil, err
	}
	out := make([]Purchase, 0, len(docs))
	for i := range docs {
		out = append(out, *purchaseFromDoc(&docs[i]))
	}
	return out, nil
}
