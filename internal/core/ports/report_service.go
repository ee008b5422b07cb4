package ports

import (
	"context"

	"github.com/rof/invgen/internal/core/domain"
)

// PDFRenderer turns an HTML document into a PDF.
type PDFRenderer interface {
	RenderPDF(ctx context.Context, html string) ([]byte, error)
}

// Document is a generated file ready to be sent to the client.
type Document struct {
	Filename    string
	ContentType string
	// Inline asks the client to display the document instead of saving it.
	Inline bool
	Data   []byte
}

// ExportEntriesInput carries the export query.
type ExportEntriesInput struct {
	Caller  domain.Principal
	Option  string
	Project string
}

type ReportService interface {
	ExportEntries(ctx context.Context, in ExportEntriesInput) (*Document, error)
	PaymentReceipt(ctx context.Context, paymentID string) (*Document, error)
	RecordStatement(ctx context.Context, recordID string) (*Document, error)
}
