package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/rof/invgen/internal/core/domain"
)

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		code    int
		message string
	}{
		{"validation", domain.ErrImageRequired, http.StatusBadRequest, "Image is required"},
		{"conflict", domain.ErrUserExists, http.StatusBadRequest, "User already exists"},
		{"forbidden", domain.ErrRoleMismatch, http.StatusForbidden, "Access denied: role mismatch"},
		{"unauthorized", fmt.Errorf("session: %w", domain.ErrUnauthorized), http.StatusUnauthorized, "session: unauthorized"},
		{"not found", domain.ErrRecordNotFound, http.StatusNotFound, "Record not found."},
		{"wrapped not found", fmt.Errorf("load: %w", domain.ErrPaymentNotFound), http.StatusNotFound, "load: Payment not found"},
		{"echo error", echo.NewHTTPError(http.StatusUnauthorized, "No token provided"), http.StatusUnauthorized, "No token provided"},
		{"unexpected", errors.New("connection reset"), http.StatusInternalServerError, "Server error"},
	}

	e := echo.New()
	handle := NewHTTPErrorHandler(zerolog.Nop())

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handle(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body["message"] != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, body["message"])
			}
		})
	}
}

func TestHTTPErrorHandler_InternalCarriesCause(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(errors.New("disk full"), c)

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["error"] != "disk full" {
		t.Fatalf("expected cause in error field, got %+v", body)
	}
}
