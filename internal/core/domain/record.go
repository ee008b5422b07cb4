package domain

import (
	"regexp"
	"strings"
	"time"
)

var emailPattern = regexp.MustCompile(`.+@.+\..+`)

// Record is a sellable unit together with its customer's contact details.
// Records are not bound to a project.
type Record struct {
	ID          string     `json:"_id"`
	UnitNo      string     `json:"unitNo"`
	Name        string     `json:"name"`
	EmailID     string     `json:"emailId"`
	ContactNo   string     `json:"contactNo"`
	BookingDate *time.Time `json:"bookingDate,omitempty"`
	UnitType    string     `json:"unitType"`
	AreaSqYrd   float64    `json:"areaSqYrd"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Validate requires every descriptive field to be present.
func (r *Record) Validate() error {
	for _, v := range []string{r.UnitNo, r.Name, r.EmailID, r.ContactNo, r.UnitType} {
		if strings.TrimSpace(v) == "" {
			return ErrRecordFieldsRequired
		}
	}
	if r.AreaSqYrd <= 0 {
		return ErrRecordFieldsRequired
	}
	if !emailPattern.MatchString(r.EmailID) {
		return Validation("Please enter a valid email address")
	}
	return nil
}
