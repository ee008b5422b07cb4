package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

type RecordService struct {
	records  ports.RecordRepository
	payments ports.PaymentRepository
	tx       ports.Transactor
	loc      *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewRecordService builds the service. tx may be nil, in which case deletes
// always use the non-transactional sequence.
func NewRecordService(records ports.RecordRepository, payments ports.PaymentRepository, tx ports.Transactor, loc *time.Location, logger zerolog.Logger) *RecordService {
	if loc == nil {
		loc = time.Local
	}
	return &RecordService{records: records, payments: payments, tx: tx, loc: loc, logger: logger, now: time.Now}
}

func (s *RecordService) List(ctx context.Context) ([]*domain.Record, error) {
	return s.records.List(ctx)
}

func (s *RecordService) Create(ctx context.Context, in ports.RecordInput) (*domain.Record, error) {
	r, err := s.build(in)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	r.CreatedAt, r.UpdatedAt = now, now

	if err := s.records.Create(ctx, r); err != nil {
		s.logger.Error().Err(err).Msg("failed to create record")
		return nil, err
	}
	s.logger.Info().Str("record_id", r.ID).Str("unit_no", r.UnitNo).Msg("record created")
	return r, nil
}

func (s *RecordService) Update(ctx context.Context, id string, in ports.RecordInput) (*domain.Record, error) {
	existing, err := s.records.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r, err := s.build(in)
	if err != nil {
		return nil, err
	}
	r.ID = existing.ID
	r.CreatedAt = existing.CreatedAt
	r.UpdatedAt = s.now().UTC()

	return s.records.Update(ctx, id, r)
}

// Delete removes the record and every payment referencing it. Payments go
// first so that a failure part-way never leaves payments without a record.
func (s *RecordService) Delete(ctx context.Context, id string) (*ports.DeleteRecordResult, error) {
	if _, err := s.records.FindByID(ctx, id); err != nil {
		return nil, err
	}

	res := &ports.DeleteRecordResult{}
	cascade := func(ctx context.Context) error {
		n, err := s.payments.DeleteByRecord(ctx, id)
		if err != nil {
			return err
		}
		res.PaymentsDeleted = n
		return s.records.Delete(ctx, id)
	}

	var err error
	if s.tx != nil {
		err = s.tx.WithTransaction(ctx, cascade)
		res.Transactional = err == nil
	}
	if s.tx == nil || errors.Is(err, ports.ErrTransactionsUnsupported) {
		res.PaymentsDeleted = 0
		err = cascade(ctx)
		if err != nil && res.PaymentsDeleted > 0 {
			s.logger.Warn().Err(err).Str("record_id", id).Int64("payments_deleted", res.PaymentsDeleted).
				Msg("payments removed but record delete failed; retry the delete")
		}
		if err == nil {
			s.logger.Warn().Str("record_id", id).Msg("record deleted without a transaction")
		}
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("record_id", id).Int64("payments_deleted", res.PaymentsDeleted).Bool("transactional", res.Transactional).Msg("record deleted")
	return res, nil
}

func (s *RecordService) build(in ports.RecordInput) (*domain.Record, error) {
	r := &domain.Record{
		UnitNo:    strings.TrimSpace(in.UnitNo),
		Name:      strings.TrimSpace(in.Name),
		EmailID:   strings.TrimSpace(in.EmailID),
		ContactNo: strings.TrimSpace(in.ContactNo),
		UnitType:  strings.TrimSpace(in.UnitType),
		AreaSqYrd: in.AreaSqYrd,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	if in.BookingDate != "" {
		t, ok := parseDate(in.BookingDate, s.loc)
		if !ok {
			return nil, domain.Validation("Invalid booking date")
		}
		r.BookingDate = &t
	}
	return r, nil
}
