package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
	"github.com/rof/invgen/internal/core/scope"
	"github.com/rof/invgen/internal/report"
)

// ReportService produces the entries workbook and payment invoices.
type ReportService struct {
	entries   ports.EntryRepository
	users     ports.UserRepository
	records   ports.RecordRepository
	payments  ports.PaymentRepository
	renderer  ports.PDFRenderer
	templates *report.Templates
	loc       *time.Location
	logger    zerolog.Logger
	now       func() time.Time
}

type ReportServiceDeps struct {
	Entries  ports.EntryRepository
	Users    ports.UserRepository
	Records  ports.RecordRepository
	Payments ports.PaymentRepository
	Renderer ports.PDFRenderer
}

func NewReportService(deps ReportServiceDeps, loc *time.Location, logger zerolog.Logger) (*ReportService, error) {
	if loc == nil {
		loc = time.Local
	}
	templates, err := report.NewTemplates(loc)
	if err != nil {
		return nil, err
	}
	return &ReportService{
		entries:   deps.Entries,
		users:     deps.Users,
		records:   deps.Records,
		payments:  deps.Payments,
		renderer:  deps.Renderer,
		templates: templates,
		loc:       loc,
		logger:    logger,
		now:       time.Now,
	}, nil
}

// ExportEntries builds a workbook of every entry visible to the caller in
// the chosen bucket.
func (s *ReportService) ExportEntries(ctx context.Context, in ports.ExportEntriesInput) (*ports.Document, error) {
	f := scope.Resolve(in.Caller, in.Project, in.Option, s.now().In(s.loc))
	entries, _, err := s.entries.List(ctx, ports.EntryFilter{Project: f.Project, Created: f.Created})
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, domain.ErrNoEntriesToExport
	}
	if err := attachCreators(ctx, s.users, entries); err != nil {
		return nil, err
	}

	data, err := report.EntriesWorkbook(entries, s.loc)
	if err != nil {
		return nil, err
	}

	option := ""
	if scope.ParseBucket(in.Option) != scope.None {
		option = in.Option
	}
	s.logger.Info().Int("rows", len(entries)).Str("option", option).Str("project", string(f.Project)).Msg("entries exported")
	return &ports.Document{
		Filename:    report.WorkbookFilename(option),
		ContentType: report.WorkbookContentType,
		Data:        data,
	}, nil
}

// PaymentReceipt renders the receipt of one payment. A payment whose
// record has been removed still renders, with placeholder customer fields.
func (s *ReportService) PaymentReceipt(ctx context.Context, paymentID string) (*ports.Document, error) {
	p, err := s.payments.FindByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	rec, err := s.records.FindByID(ctx, p.RecordID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	html, err := s.templates.ReceiptHTML(report.Receipt{Payment: p, Record: rec})
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		s.logger.Error().Err(err).Str("payment_id", p.ID).Msg("failed to render receipt")
		return nil, err
	}
	return &ports.Document{
		Filename:    report.ReceiptFilename(p.ID),
		ContentType: report.PDFContentType,
		Data:        pdf,
	}, nil
}

// RecordStatement renders every payment of a record with per-type totals.
func (s *ReportService) RecordStatement(ctx context.Context, recordID string) (*ports.Document, error) {
	rec, err := s.records.FindByID(ctx, recordID)
	if err != nil {
		return nil, err
	}
	payments, err := s.payments.ListByRecord(ctx, rec.ID)
	if err != nil {
		return nil, err
	}

	st := report.Statement{Record: rec, Payments: payments, GeneratedAt: s.now()}
	for _, p := range payments {
		st.Totals.Add(p)
	}

	html, err := s.templates.StatementHTML(st)
	if err != nil {
		return nil, err
	}
	pdf, err := s.renderer.RenderPDF(ctx, html)
	if err != nil {
		s.logger.Error().Err(err).Str("record_id", rec.ID).Msg("failed to render statement")
		return nil, err
	}
	return &ports.Document{
		Filename:    report.StatementFilename(rec.UnitNo),
		ContentType: report.PDFContentType,
		Inline:      true,
		Data:        pdf,
	}, nil
}
