package ports

import (
	"context"

	"github.com/rof/invgen/internal/core/domain"
)

// RecordInput carries the record form used for both create and edit.
type RecordInput struct {
	UnitNo      string
	Name        string
	EmailID     string
	ContactNo   string
	BookingDate string
	UnitType    string
	AreaSqYrd   float64
}

// DeleteRecordResult reports what a cascading delete removed.
type DeleteRecordResult struct {
	PaymentsDeleted int64
	// Transactional is false when the store could not run the delete as
	// one transaction and the fallback sequence was used.
	Transactional bool
}

type RecordService interface {
	List(ctx context.Context) ([]*domain.Record, error)
	Create(ctx context.Context, in RecordInput) (*domain.Record, error)
	Update(ctx context.Context, id string, in RecordInput) (*domain.Record, error)
	Delete(ctx context.Context, id string) (*DeleteRecordResult, error)
}
