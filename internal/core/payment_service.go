package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

// PaymentService records money paid to suppliers. Account-method payments
// debit the account balance in the same transaction.
type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*Payment, error)
	Update(ctx context.Context, id int, in UpdateMoneyInput) (*Payment, error)
	// Delete removes the payment and credits its amount back to the account.
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Payment, error)
	List(ctx context.Context, filter PaymentFilter) ([]Payment, error)
}

// ReceiptService records money received from customers. Account-method
// receipts credit the account balance in the same transaction.
type ReceiptService interface {
	Create(ctx context.Context, in CreateReceiptInput) (*Receipt, error)
	Update(ctx context.Context, id int, in UpdateMoneyInput) (*Receipt, error)
	// Delete removes the receipt and debits its amount back off the account.
	Delete(ctx context.Context, id int) error
	Get(ctx context.Context, id int) (*Receipt, error)
	List(ctx context.Context, filter ReceiptFilter) ([]Receipt, error)
}

type paymentService struct {
	book *moneyBook
}

func NewPaymentService(pool *pgxpool.Pool, balances BalanceAdjuster) PaymentService {
	return &paymentService{book: &moneyBook{pool: pool, balances: balances, kind: paymentKind}}
}

func (s *paymentService) Create(ctx context.Context, in CreatePaymentInput) (_ *Payment, err error) {
	ctx, span := startSpan(ctx, "PaymentService.Create",
		attribute.Int("supplier.id", in.SupplierID),
		attribute.String("payment.method", in.Method),
	)
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	method, err := checkMethod(in.Method, in.AccountID)
	if err != nil {
		return nil, err
	}

	id, err := s.book.create(ctx, newMoneyDoc{
		PartyID:   in.SupplierID,
		Amount:    in.Amount,
		Method:    method,
		AccountID: in.AccountID,
		Date:      in.Date,
		Note:      in.Note,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *paymentService) Update(ctx context.Context, id int, in UpdateMoneyInput) (_ *Payment, err error) {
	ctx, span := startSpan(ctx, "PaymentService.Update", attribute.Int("payment.id", id))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkDatePatch(in.Date); err != nil {
		return nil, err
	}
	if err := s.book.update(ctx, id, in.Date, in.Note); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *paymentService) Delete(ctx context.Context, id int) (err error) {
	ctx, span := startSpan(ctx, "PaymentService.Delete", attribute.Int("payment.id", id))
	defer func() { endSpan(span, err) }()

	return s.book.delete(ctx, id)
}

func (s *paymentService) Get(ctx context.Context, id int) (*Payment, error) {
	d, err := s.book.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return paymentFromDoc(d), nil
}

func (s *paymentService) List(ctx context.Context, filter PaymentFilter) ([]Payment, error) {
	docs, err := s.book.list(ctx, moneyFilter{PartyID: filter.SupplierID, AccountID: filter.AccountID})
	if err != nil {
		return nil, err
	}
	out := make([]Payment, 0, len(docs))
	for i := range docs {
		out = append(out, *paymentFromDoc(&docs[i]))
	}
	return out, nil
}

type receiptService struct {
	book *moneyBook
}

func NewReceiptService(pool *pgxpool.Pool, balances BalanceAdjuster) ReceiptService {
	return &receiptService{book: &moneyBook{pool: pool, balances: balances, kind: receiptKind}}
}

func (s *receiptService) Create(ctx context.Context, in CreateReceiptInput) (_ *Receipt, err error) {
	ctx, span := startSpan(ctx, "ReceiptService.Create",
		attribute.Int("customer.id", in.CustomerID),
		attribute.String("payment.method", in.Method),
	)
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	method, err := checkMethod(in.Method, in.AccountID)
	if err != nil {
		return nil, err
	}

	id, err := s.book.create(ctx, newMoneyDoc{
		PartyID:   in.CustomerID,
		Amount:    in.Amount,
		Method:    method,
		AccountID: in.AccountID,
		Date:      in.Date,
		Note:      in.Note,
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *receiptService) Update(ctx context.Context, id int, in UpdateMoneyInput) (_ *Receipt, err error) {
	ctx, span := startSpan(ctx, "ReceiptService.Update", attribute.Int("receipt.id", id))
	defer func() { endSpan(span, err) }()

	if err := validateInput(in); err != nil {
		return nil, err
	}
	if err := checkDatePatch(in.Date); err != nil {
		return nil, err
	}
	if err := s.book.update(ctx, id, in.Date, in.Note); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *receiptService) Delete(ctx context.Context, id int) (err error) {
	ctx, span := startSpan(ctx, "ReceiptService.Delete", attribute.Int("receipt.id", id))
	defer func() { endSpan(span, err) }()

	return s.book.delete(ctx, id)
}

func (s *receiptService) Get(ctx context.Context, id int) (*Receipt, error) {
	d, err := s.book.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return receiptFromDoc(d), nil
}

func (s *receiptService) List(ctx context.Context, filter ReceiptFilter) ([]Receipt, error) {
	docs, err := s.book.list(ctx, moneyFilter{PartyID: filter.CustomerID, AccountID: filter.AccountID})
	if err != nil {
		return nil, err
	}
	out := make([]Receipt, 0, len(docs))
	for i := range docs {
		out = append(out, *receiptFromDoc(&docs[i]))
	}
	return out, nil
}
