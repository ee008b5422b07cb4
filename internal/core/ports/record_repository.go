package ports

import (
	"context"
	"errors"
	"time"

	"github.com/rof/invgen/internal/core/domain"
)

// ErrTransactionsUnsupported is returned by a Transactor when the store
// deployment cannot run multi-document transactions.
var ErrTransactionsUnsupported = errors.New("store does not support transactions")

// Transactor runs fn atomically. The ctx passed to fn must be used for every
// store call that belongs to the transaction.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// RecordRepository defines persistence operations for records.
type RecordRepository interface {
	Create(ctx context.Context, r *domain.Record) error
	Update(ctx context.Context, id string, r *domain.Record) (*domain.Record, error)
	FindByID(ctx context.Context, id string) (*domain.Record, error)
	List(ctx context.Context) ([]*domain.Record, error)
	Delete(ctx context.Context, id string) error
	// ListWithPayments joins every record with the payments referencing it.
	ListWithPayments(ctx context.Context) ([]*domain.RecordPayments, error)
}

// PaymentPatch holds the fields of a payment update; nil means unchanged.
type PaymentPatch struct {
	Type   *domain.PaymentType
	Amount *float64
	Date   *time.Time
	Notes  *string
}

// PaymentRepository defines persistence operations for payments.
type PaymentRepository interface {
	Create(ctx context.Context, p *domain.Payment) error
	FindByID(ctx context.Context, id string) (*domain.Payment, error)
	Update(ctx context.Context, id string, patch PaymentPatch) (*domain.Payment, error)
	Delete(ctx context.Context, id string) (*domain.Payment, error)
	ListByRecord(ctx context.Context, recordID string) ([]*domain.Payment, error)
	// DeleteByRecord removes every payment referencing recordID. Deleting
	// zero payments is not an error.
	DeleteByRecord(ctx context.Context, recordID string) (int64, error)
}

// IdempotencyStore remembers which payment an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, key string) (paymentID string, found bool, err error)
	Remember(ctx context.Context, key, paymentID string) error
}
