package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

type PaymentService struct {
	payments ports.PaymentRepository
	records  ports.RecordRepository
	idem     ports.IdempotencyStore
	loc      *time.Location
	logger   zerolog.Logger
	now      func() time.Time
}

// NewPaymentService builds the service. idem may be nil to disable
// Idempotency-Key handling.
func NewPaymentService(payments ports.PaymentRepository, records ports.RecordRepository, idem ports.IdempotencyStore, loc *time.Location, logger zerolog.Logger) *PaymentService {
	if loc == nil {
		loc = time.Local
	}
	return &PaymentService{payments: payments, records: records, idem: idem, loc: loc, logger: logger, now: time.Now}
}

// Create records a new payment. If an idempotency key is provided and
// already seen, the previously created payment is returned without side effects.
func (s *PaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*ports.CreatePaymentResult, error) {
	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.idem != nil {
		if existing := s.replay(ctx, key); existing != nil {
			return &ports.CreatePaymentResult{Payment: existing, AlreadyExisted: true}, nil
		}
	}

	pt := domain.PaymentType(in.Type)
	if !pt.Creatable() {
		return nil, domain.ErrInvalidPaymentType
	}
	if !validAmount(in.Amount) {
		return nil, domain.ErrInvalidAmount
	}
	date, ok := parseDate(in.Date, s.loc)
	if !ok {
		return nil, domain.ErrInvalidPaymentDate
	}
	if _, err := s.records.FindByID(ctx, in.RecordID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidRecordRef
		}
		return nil, err
	}

	now := s.now().UTC()
	p := &domain.Payment{
		RecordID:  in.RecordID,
		Type:      pt,
		Amount:    in.Amount,
		Date:      date,
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.payments.Create(ctx, p); err != nil {
		s.logger.Error().Err(err).Msg("failed to create payment")
		return nil, err
	}

	if key != "" && s.idem != nil {
		if err := s.idem.Remember(ctx, key, p.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to remember idempotency key")
		}
	}

	s.logger.Info().Str("payment_id", p.ID).Str("record_id", p.RecordID).Str("type", string(p.Type)).Msg("payment created")
	return &ports.CreatePaymentResult{Payment: p}, nil
}

// replay returns the payment an idempotency key produced earlier, or nil.
// Store failures are logged and treated as a miss.
func (s *PaymentService) replay(ctx context.Context, key string) *domain.Payment {
	id, found, err := s.idem.Lookup(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed")
		return nil
	}
	if !found {
		return nil
	}
	p, err := s.payments.FindByID(ctx, id)
	if err != nil {
		return nil
	}
	s.logger.Info().Str("idempotency_key", key).Str("payment_id", p.ID).Msg("idempotent replay")
	return p
}

// ListGrouped returns every record with its payments and per-type totals.
func (s *PaymentService) ListGrouped(ctx context.Context) ([]*domain.RecordPayments, error) {
	groups, err := s.records.ListWithPayments(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range groups {
		g.Totals = domain.PaymentTotals{}
		if g.Payments == nil {
			g.Payments = []*domain.Payment{}
		}
		for _, p := range g.Payments {
			g.Totals.Add(p)
		}
	}
	return groups, nil
}

func (s *PaymentService) Update(ctx context.Context, id string, in ports.UpdatePaymentInput) (*domain.Payment, error) {
	var patch ports.PaymentPatch
	if in.Type != nil {
		pt := domain.PaymentType(*in.Type)
		if !pt.Valid() {
			return nil, domain.ErrInvalidPaymentType
		}
		patch.Type = &pt
	}
	if in.Amount != nil {
		if !validAmount(*in.Amount) {
			return nil, domain.ErrInvalidAmount
		}
		patch.Amount = in.Amount
	}
	if in.Date != nil {
		d, ok := parseDate(*in.Date, s.loc)
		if !ok {
			return nil, domain.ErrInvalidPaymentDate
		}
		patch.Date = &d
	}
	if in.Notes != nil {
		notes := strings.TrimSpace(*in.Notes)
		patch.Notes = &notes
	}

	p, err := s.payments.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("payment_id", p.ID).Msg("payment updated")
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, id string) (*domain.Payment, error) {
	p, err := s.payments.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("payment_id", p.ID).Msg("payment deleted")
	return p, nil
}

func validAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
