package ports

import (
	"context"
	"io"

	"github.com/rof/invgen/internal/core/domain"
)

// Upload is a file received with a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// AddEntryInput carries the entry form. Project is only honoured for
// admins; everyone else is bound to the project in their token.
type AddEntryInput struct {
	Caller          domain.Principal
	Name            string
	Phone           string
	Type            string
	Remarks         string
	BrokerName      string
	FirmName        string
	BrokerContactNo string
	Project         string
	Image           *Upload
}

// ListEntriesInput carries the listing query.
type ListEntriesInput struct {
	Caller     domain.Principal
	Page       int
	Project    string
	DateFilter string
}

// ListEntriesResult is one page of entries.
type ListEntriesResult struct {
	Page         int
	TotalPages   int
	TotalEntries int64
	Entries      []*domain.Entry
}

type EntryService interface {
	Add(ctx context.Context, in AddEntryInput) (*domain.Entry, error)
	List(ctx context.Context, in ListEntriesInput) (*ListEntriesResult, error)
}
