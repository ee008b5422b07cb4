package ports

import (
	"context"

	"github.com/rof/invgen/internal/core/domain"
)

// CreatePaymentInput carries a new payment. Date is parsed by the service.
type CreatePaymentInput struct {
	RecordID       string
	Type           string
	Amount         float64
	Date           string
	Notes          string
	IdempotencyKey string
}

// CreatePaymentResult is returned after creating a payment.
type CreatePaymentResult struct {
	Payment *domain.Payment
	// AlreadyExisted is true when the Idempotency-Key matched an earlier payment.
	AlreadyExisted bool
}

// UpdatePaymentInput carries a partial update; nil fields are unchanged.
type UpdatePaymentInput struct {
	Type   *string
	Amount *float64
	Date   *string
	Notes  *string
}

type PaymentService interface {
	Create(ctx context.Context, in CreatePaymentInput) (*CreatePaymentResult, error)
	ListGrouped(ctx context.Context) ([]*domain.RecordPayments, error)
	Update(ctx context.Context, id string, in UpdatePaymentInput) (*domain.Payment, error)
	Delete(ctx context.Context, id string) (*domain.Payment, error)
}
