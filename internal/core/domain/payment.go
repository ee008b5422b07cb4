package domain

import "time"

// PaymentType classifies a payment.
type PaymentType string

const (
	PaymentSecurity    PaymentType = "Security"
	PaymentFacility    PaymentType = "Facility"
	PaymentMaintenance PaymentType = "Maintenance"
	PaymentOther       PaymentType = "Other"
)

// Creatable reports whether a new payment may be recorded with this type.
func (t PaymentType) Creatable() bool {
	return t == PaymentSecurity || t == PaymentFacility
}

// Valid reports whether t is accepted when editing an existing payment.
func (t PaymentType) Valid() bool {
	switch t {
	case PaymentSecurity, PaymentFacility, PaymentMaintenance, PaymentOther:
		return true
	}
	return false
}

// Payment is a monetary transaction against a Record. The record reference
// is checked on creation only.
type Payment struct {
	ID        string      `json:"_id"`
	RecordID  string      `json:"invGenRecord"`
	Type      PaymentType `json:"paymentType"`
	Amount    float64     `json:"paymentAmount"`
	Date      time.Time   `json:"paymentDate"`
	Notes     string      `json:"notes,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// PaymentTotals sums payments per type.
type PaymentTotals struct {
	Security    float64 `json:"security"`
	Facility    float64 `json:"facility"`
	Maintenance float64 `json:"maintenance"`
	Other       float64 `json:"other"`
	Grand       float64 `json:"grand"`
}

// Add accumulates p into the totals.
func (t *PaymentTotals) Add(p *Payment) {
	switch p.Type {
	case PaymentSecurity:
		t.Security += p.Amount
	case PaymentFacility:
		t.Facility += p.Amount
	case PaymentMaintenance:
		t.Maintenance += p.Amount
	default:
		t.Other += p.Amount
	}
	t.Grand += p.Amount
}

// RecordPayments is a record joined with every payment that references it.
type RecordPayments struct {
	Record
	Payments []*Payment    `json:"payments"`
	Totals   PaymentTotals `json:"totals"`
}
