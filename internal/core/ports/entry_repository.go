package ports

import (
	"context"
	"io"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/scope"
)

// EntryFilter carries the query for listing entries. Project and Created
// come from the scope filter and are always enforced.
type EntryFilter struct {
	Project domain.Project // empty = no filter (admin)
	Created *scope.Range   // optional: createdAt in [Start, End)
	Skip    int
	Limit   int // 0 = no limit
}

// EntryRepository defines persistence operations for entries.
type EntryRepository interface {
	Create(ctx context.Context, e *domain.Entry) error
	// List returns entries matching filter, newest first, and the total
	// number of matches ignoring Skip/Limit.
	List(ctx context.Context, filter EntryFilter) ([]*domain.Entry, int64, error)
}

// ImageStore keeps uploaded entry images.
type ImageStore interface {
	Save(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error
}
