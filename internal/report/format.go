package report

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// inr groups digits the way en-IN does: the last three, then pairs.
var inr = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR formats an amount with Indian digit grouping (12,34,567.50)
// and two decimals.
func FormatINR(amount float64) string {
	if amount == 0 {
		amount = 0 // normalise negative zero
	}
	return inr.Sprintf("%.2f", amount)
}

// FormatDate renders t as dd/mm/yyyy in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return "—"
	}
	return t.In(loc).Format("02/01/2006")
}
