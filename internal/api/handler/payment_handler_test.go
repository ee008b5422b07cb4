package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rof/invgen/internal/core/domain"
	"github.com/rof/invgen/internal/core/ports"
)

type stubPaymentService struct {
	createFn func(ctx context.Context, in ports.CreatePaymentInput) (*ports.CreatePaymentResult, error)
	listFn   func(ctx context.Context) ([]*domain.RecordPayments, error)
	updateFn func(ctx context.Context, id string, in ports.UpdatePaymentInput) (*domain.Payment, error)
	deleteFn func(ctx context.Context, id string) (*domain.Payment, error)
}

func (s *stubPaymentService) Create(ctx context.Context, in ports.CreatePaymentInput) (*ports.CreatePaymentResult, error) {
	return s.createFn(ctx, in)
}

func (s *stubPaymentService) ListGrouped(ctx context.Context) ([]*domain.RecordPayments, error) {
	return s.listFn(ctx)
}

func (s *stubPaymentService) Update(ctx context.Context, id string, in ports.UpdatePaymentInput) (*domain.Payment, error) {
	return s.updateFn(ctx, id, in)
}

func (s *stubPaymentService) Delete(ctx context.Context, id string) (*domain.Payment, error) {
	return s.deleteFn(ctx, id)
}

func TestFlexFloat(t *testing.T) {
	cases := map[string]float64{
		`5000`:      5000,
		`"1200.50"`: 1200.5,
		`" 42 "`:    42,
		`"abc"`:     0,
		`""`:        0,
		`"Inf"`:     0,
		`-3`:        -3,
	}
	for in, want := range cases {
		var f flexFloat
		if err := json.Unmarshal([]byte(in), &f); err != nil {
			t.Fatalf("%s: unexpected error %v", in, err)
		}
		if float64(f) != want {
			t.Fatalf("%s: expected %v, got %v", in, want, float64(f))
		}
	}
}

func TestPaymentHandler_Create_StringAmountAndIdempotencyKey(t *testing.T) {
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, in ports.CreatePaymentInput) (*ports.CreatePaymentResult, error) {
			if in.Amount != 5000 || in.Type != "Security" || in.RecordID != "r1" || in.IdempotencyKey != "k-1" {
				t.Fatalf("unexpected input: %+v", in)
			}
			return &ports.CreatePaymentResult{Payment: &domain.Payment{ID: "p1", RecordID: "r1", Type: domain.PaymentSecurity, Amount: 5000}}, nil
		},
	}

	c, rec := newContext(http.MethodPost, "/api/payment/create",
		strings.NewReader(`{"invGenRecord":"r1","paymentType":"Security","paymentAmount":"5000","paymentDate":"2026-10-01"}`))
	c.Request().Header.Set(HeaderIdempotencyKey, "k-1")

	if err := NewPaymentHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	payment, ok := resp["payment"].(map[string]any)
	if !ok || payment["_id"] != "p1" || payment["paymentAmount"] != float64(5000) {
		t.Fatalf("unexpected payment: %+v", resp["payment"])
	}
}

func TestPaymentHandler_Create_ServiceError(t *testing.T) {
	stub := &stubPaymentService{
		createFn: func(ctx context.Context, in ports.CreatePaymentInput) (*ports.CreatePaymentResult, error) {
			if in.Amount != 0 {
				t.Fatalf("unparseable amount should arrive as 0, got %v", in.Amount)
			}
			return nil, domain.ErrInvalidAmount
		},
	}

	c, _ := newContext(http.MethodPost, "/api/payment/create",
		strings.NewReader(`{"invGenRecord":"r1","paymentType":"Security","paymentAmount":"lots"}`))

	if err := NewPaymentHandler(stub).Create(c); !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestPaymentHandler_Update_OnlySuppliedFields(t *testing.T) {
	stub := &stubPaymentService{
		updateFn: func(ctx context.Context, id string, in ports.UpdatePaymentInput) (*domain.Payment, error) {
			if id != "p1" {
				t.Fatalf("unexpected id: %s", id)
			}
			if in.Type == nil || *in.Type != "Maintenance" {
				t.Fatalf("expected type, got %v", in.Type)
			}
			if in.Amount == nil || *in.Amount != 250 {
				t.Fatalf("expected amount, got %v", in.Amount)
			}
			if in.Date != nil || in.Notes != nil {
				t.Fatalf("absent fields must stay nil: %+v", in)
			}
			return &domain.Payment{ID: id, Type: domain.PaymentMaintenance, Amount: 250}, nil
		},
	}

	c, rec := newContext(http.MethodPut, "/api/payment/update/p1",
		strings.NewReader(`{"paymentType":"Maintenance","paymentAmount":250}`))
	c.SetParamNames("id")
	c.SetParamValues("p1")

	if err := NewPaymentHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestPaymentHandler_Delete_NotFound(t *testing.T) {
	stub := &stubPaymentService{
		deleteFn: func(ctx context.Context, id string) (*domain.Payment, error) {
			return nil, domain.ErrPaymentNotFound
		},
	}

	c, _ := newContext(http.MethodDelete, "/api/payment/delete/nope", nil)
	c.SetParamNames("id")
	c.SetParamValues("nope")

	if err := NewPaymentHandler(stub).Delete(c); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestPaymentHandler_List_IsArray(t *testing.T) {
	stub := &stubPaymentService{
		listFn: func(ctx context.Context) ([]*domain.RecordPayments, error) {
			return []*domain.RecordPayments{{
				Record:   domain.Record{ID: "r1", UnitNo: "A-101"},
				Payments: []*domain.Payment{},
			}}, nil
		},
	}

	c, rec := newContext(http.MethodGet, "/api/payment/get", nil)

	if err := NewPaymentHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("expected a JSON array: %v", err)
	}
	if len(resp) != 1 || resp[0]["unitNo"] != "A-101" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if payments, ok := resp[0]["payments"].([]any); !ok || len(payments) != 0 {
		t.Fatalf("expected empty payments array, got %+v", resp[0]["payments"])
	}
}
