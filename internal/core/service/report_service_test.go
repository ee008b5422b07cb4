package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/report"
)

type stubRenderer struct {
	html  []string
	err   error
	calls int
}

func (r *stubRenderer) RenderPDF(_ context.Context, html string) ([]byte, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	r.html = append(r.html, html)
	return []byte("%PDF-1.4 stub"), nil
}

type reportFixture struct {
	svc      *ReportService
	entries  *stubEntryRepo
	store    *memStore
	renderer *stubRenderer
}

func newReportFixture(t *testing.T, now time.Time) *reportFixture {
	t.Helper()
	fx := &reportFixture{entries: &stubEntryRepo{}, store: newMemStore(), renderer: &stubRenderer{}}
	users := newStubUserRepo()
	users.users["u-n"] = &domain.User{ID: "u-n", Name: "Neha", Role: domain.RoleUser, Project: domain.ProjectNormanton}

	svc, err := NewReportService(ReportServiceDeps{
		Entries:  fx.entries,
		Users:    users,
		Records:  &stubRecordRepo{memStore: fx.store},
		Payments: &stubPaymentRepo{memStore: fx.store},
		Renderer: fx.renderer,
	}, time.UTC, zerolog.Nop())
	if err != nil {
		t.Fatalf("new report service: %v", err)
	}
	svc.now = func() time.Time { return now }
	fx.svc = svc
	return fx
}

func TestReportService_ExportEntries(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	fx := newReportFixture(t, now)
	seedEntries(fx.entries, now)

	doc, err := fx.svc.ExportEntries(context.Background(), ports.ExportEntriesInput{Caller: normantonUser, Option: "today"})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if doc.Filename != "entries_today.xlsx" || doc.ContentType != report.WorkbookContentType || len(doc.Data) == 0 {
		t.Fatalf("unexpected document: %s %s %d bytes", doc.Filename, doc.ContentType, len(doc.Data))
	}
	if fx.entries.lastFilter.Project != domain.ProjectNormanton || fx.entries.lastFilter.Limit != 0 {
		t.Fatalf("export must be scoped and unpaginated: %+v", fx.entries.lastFilter)
	}
}

func TestReportService_ExportEntries_Empty(t *testing.T) {
	fx := newReportFixture(t, time.Now())

	if _, err := fx.svc.ExportEntries(context.Background(), ports.ExportEntriesInput{Caller: adminCaller}); err != domain.ErrNoEntriesToExport {
		t.Fatalf("expected ErrNoEntriesToExport, got %v", err)
	}
}

func TestReportService_ExportEntries_UnknownOption(t *testing.T) {
	now := time.Now()
	fx := newReportFixture(t, now)
	seedEntries(fx.entries, now)

	doc, err := fx.svc.ExportEntries(context.Background(), ports.ExportEntriesInput{Caller: adminCaller, Option: "forever"})
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if doc.Filename != "entries_all.xlsx" {
		t.Fatalf("unexpected filename %s", doc.Filename)
	}
}

func TestReportService_PaymentReceipt(t *testing.T) {
	fx := newReportFixture(t, time.Now())
	recordID := seedRecord(fx.store)
	fx.store.payments["pay-1"] = &domain.Payment{ID: "pay-1", RecordID: recordID, Type: domain.PaymentSecurity, Amount: 5000}

	doc, err := fx.svc.PaymentReceipt(context.Background(), "pay-1")
	if err != nil {
		t.Fatalf("receipt failed: %v", err)
	}
	if doc.Filename != "payment-receipt-pay-1.pdf" || doc.Inline || doc.ContentType != "application/pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !strings.Contains(fx.renderer.html[0], "Asha") {
		t.Fatalf("receipt should name the customer")
	}
}

func TestReportService_PaymentReceipt_StaleRecord(t *testing.T) {
	fx := newReportFixture(t, time.Now())
	fx.store.payments["pay-1"] = &domain.Payment{ID: "pay-1", RecordID: "rec-gone", Type: domain.PaymentSecurity, Amount: 1}

	if _, err := fx.svc.PaymentReceipt(context.Background(), "pay-1"); err != nil {
		t.Fatalf("stale record should still render: %v", err)
	}
}

func TestReportService_PaymentReceipt_NotFound(t *testing.T) {
	fx := newReportFixture(t, time.Now())

	if _, err := fx.svc.PaymentReceipt(context.Background(), "missing"); err != domain.ErrPaymentNotFound {
		t.Fatalf("expected ErrPaymentNotFound, got %v", err)
	}
	if fx.renderer.calls != 0 {
		t.Fatalf("renderer must not be called for a missing payment")
	}
}

func TestReportService_RecordStatement(t *testing.T) {
	fx := newReportFixture(t, time.Now())
	recordID := seedRecord(fx.store)
	seedPayments(t, fx.store, recordID, 2)

	doc, err := fx.svc.RecordStatement(context.Background(), recordID)
	if err != nil {
		t.Fatalf("statement failed: %v", err)
	}
	if doc.Filename != "summary-invoice-A1.pdf" || !doc.Inline {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if !strings.Contains(fx.renderer.html[0], "Grand Total:</strong> ₹200.00") {
		t.Fatalf("statement totals missing")
	}
}

func TestReportService_RecordStatement_RenderFailure(t *testing.T) {
	fx := newReportFixture(t, time.Now())
	recordID := seedRecord(fx.store)
	fx.renderer.err = errors.New("chrome crashed")

	if _, err := fx.svc.RecordStatement(context.Background(), recordID); err == nil {
		t.Fatalf("expected render error")
	}
	if _, err := fx.svc.RecordStatement(context.Background(), "rec-404"); err != domain.ErrRecordNotFound {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
