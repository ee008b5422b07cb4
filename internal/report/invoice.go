package report

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/rof/invgen/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// PDFContentType is the MIME type of rendered invoices.
const PDFContentType = "application/pdf"

// Receipt is the data behind a single-payment receipt. Record is nil when
// the payment references a record that no longer exists.
type Receipt struct {
	Payment *domain.Payment
	Record  *domain.Record
}

// Statement is the data behind a record's payment summary.
type Statement struct {
	Record      *domain.Record
	Payments    []*domain.Payment
	Totals      domain.PaymentTotals
	GeneratedAt time.Time
}

// GrandTotal sums security and facility payments only.
func (s Statement) GrandTotal() float64 {
	return s.Totals.Security + s.Totals.Facility
}

// Templates renders invoice HTML with dates shown in a fixed location.
type Templates struct {
	receipt   *template.Template
	statement *template.Template
}

func NewTemplates(loc *time.Location) (*Templates, error) {
	if loc == nil {
		loc = time.Local
	}
	funcs := template.FuncMap{
		"inr":  FormatINR,
		"date": func(t time.Time) string { return FormatDate(t, loc) },
		"inc":  func(i int) int { return i + 1 },
	}

	receipt, err := template.New("receipt.html").Funcs(funcs).ParseFS(templateFS, "templates/receipt.html")
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}
	statement, err := template.New("statement.html").Funcs(funcs).ParseFS(templateFS, "templates/statement.html")
	if err != nil {
		return nil, fmt.Errorf("parse statement template: %w", err)
	}
	return &Templates{receipt: receipt, statement: statement}, nil
}

func (t *Templates) ReceiptHTML(r Receipt) (string, error) {
	var buf bytes.Buffer
	if err := t.receipt.Execute(&buf, r); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return buf.String(), nil
}

func (t *Templates) StatementHTML(s Statement) (string, error) {
	var buf bytes.Buffer
	if err := t.statement.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("render statement: %w", err)
	}
	return buf.String(), nil
}

// ReceiptFilename is the attachment name of a payment receipt.
func ReceiptFilename(paymentID string) string {
	return fmt.Sprintf("payment-receipt-%s.pdf", paymentID)
}

// StatementFilename is the inline name of a record summary.
func StatementFilename(unitNo string) string {
	return fmt.Sprintf("summary-invoice-%s.pdf", unitNo)
}
