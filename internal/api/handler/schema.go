package handler

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rof/invgen/internal/core/domain"
)

// messageResponse is the envelope for responses that carry only a message.
type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse documents the error envelope rendered by the central error handler.
type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// flexFloat accepts a JSON number or a numeric string. Anything that does
// not parse to a finite number decodes as 0, which every amount check
// rejects.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var raw string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	} else {
		raw = string(b)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		*f = 0
		return nil
	}
	*f = flexFloat(v)
	return nil
}

// --- Auth ---

type registerRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role"`
	Project  string `json:"project"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Project  string `json:"project"`
	Role     string `json:"role"`
}

type editUserRequest struct {
	Name     string `json:"name"     validate:"max=100"`
	Email    string `json:"email"    validate:"omitempty,email,max=254"`
	Password string `json:"password" validate:"max=72"`
	Role     string `json:"role"`
	Project  string `json:"project"`
}

type userResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
}

type loginResponse struct {
	Message string       `json:"message"`
	User    *domain.User `json:"user"`
	Token   string       `json:"token"`
}

type usersResponse struct {
	Message string         `json:"message"`
	Users   []*domain.User `json:"users"`
}

// --- Entries ---

// entryResponse is the wire shape of an entry. CreatedBy holds the creator
// id, or the creator's summary once it has been joined.
type entryResponse struct {
	ID              string    `json:"_id"`
	Name            string    `json:"name"`
	Phone           string    `json:"phone,omitempty"`
	Type            string    `json:"type"`
	Image           string    `json:"image"`
	Project         string    `json:"project"`
	Remarks         string    `json:"remarks,omitempty"`
	BrokerName      string    `json:"brokerName,omitempty"`
	FirmName        string    `json:"firmName,omitempty"`
	BrokerContactNo string    `json:"brokerContactNo,omitempty"`
	CreatedBy       any       `json:"createdBy"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type addEntryResponse struct {
	Message string         `json:"message"`
	Person  *entryResponse `json:"person"`
}

type listEntriesResponse struct {
	Message      string           `json:"message"`
	Page         int              `json:"page"`
	TotalPages   int              `json:"totalPages"`
	TotalEntries int64            `json:"totalEntries"`
	Entries      []*entryResponse `json:"entries"`
}

func toEntryResponse(e *domain.Entry) *entryResponse {
	resp := &entryResponse{
		ID:        e.ID,
		Name:      e.Name,
		Phone:     e.Phone,
		Type:      string(e.Type),
		Image:     e.Image,
		Project:   string(e.Project),
		Remarks:   e.Remarks,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}
	if e.Broker != nil {
		resp.BrokerName = e.Broker.Name
		resp.FirmName = e.Broker.FirmName
		resp.BrokerContactNo = e.Broker.ContactNo
	}
	if e.Creator != nil {
		resp.CreatedBy = e.Creator
	}
	return resp
}

func toEntryResponses(entries []*domain.Entry) []*entryResponse {
	out := make([]*entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntryResponse(e))
	}
	return out
}

// --- Records ---

type recordRequest struct {
	UnitNo      string    `json:"unitNo"      validate:"max=50"`
	Name        string    `json:"name"        validate:"max=100"`
	EmailID     string    `json:"emailId"     validate:"max=254"`
	ContactNo   string    `json:"contactNo"   validate:"max=30"`
	BookingDate string    `json:"bookingDate"`
	UnitType    string    `json:"unitType"    validate:"max=50"`
	AreaSqYrd   flexFloat `json:"areaSqYrd"`
}

type recordResponse struct {
	Message string         `json:"message"`
	Data    *domain.Record `json:"data"`
}

// --- Payments ---

type createPaymentRequest struct {
	RecordID string    `json:"invGenRecord"`
	Type     string    `json:"paymentType"`
	Amount   flexFloat `json:"paymentAmount"`
	Date     string    `json:"paymentDate"`
	Notes    string    `json:"notes" validate:"max=1000"`
}

type updatePaymentRequest struct {
	Type   *string    `json:"paymentType"`
	Amount *flexFloat `json:"paymentAmount"`
	Date   *string    `json:"paymentDate"`
	Notes  *string    `json:"notes" validate:"omitempty,max=1000"`
}

type paymentResponse struct {
	Message string          `json:"message"`
	Payment *domain.Payment `json:"payment"`
}
