package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rof/invgen/internal/core/domain"
)

var ist = time.FixedZone("IST", 5*3600+1800)

func TestFormatINR(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		999:        "999.00",
		1000:       "1,000.00",
		5000:       "5,000.00",
		123456:     "1,23,456.00",
		1200.5:     "1,200.50",
		12345678.5: "1,23,45,678.50",
		100000:     "1,00,000.00",
		99.999:     "100.00",
		-1500:      "-1,500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatINR(in), "%v", in)
	}
}

func TestFormatDate(t *testing.T) {
	// 20:00 UTC is already the next day in India.
	ts := time.Date(2026, 10, 14, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "15/10/2026", FormatDate(ts, ist))
	assert.Equal(t, "—", FormatDate(time.Time{}, ist))
}

func TestEntriesWorkbook(t *testing.T) {
	created := time.Date(2026, 10, 15, 4, 0, 0, 0, time.UTC)
	entries := []*domain.Entry{
		{
			Name: "Ravi", Phone: "98", Type: domain.EntryBroker, Remarks: "walk-in",
			Broker:    &domain.BrokerDetails{Name: "Ravi", FirmName: "Ravi & Co", ContactNo: "99"},
			Creator:   &domain.Creator{Name: "Neha"},
			CreatedAt: created,
		},
		{Name: "Meera", Type: domain.EntryCustomer, CreatedAt: created},
	}

	data, err := EntriesWorkbook(entries, ist)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Entries"}, f.GetSheetList())
	rows, err := f.GetRows("Entries")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Phone", "Type", "Remarks", "Broker Name", "Firm Name", "Broker Contact No", "Created By", "Created At"}, rows[0])
	assert.Equal(t, []string{"Ravi", "98", "Broker", "walk-in", "Ravi", "Ravi & Co", "99", "Neha", "15/10/2026, 09:30:00"}, rows[1])
	assert.Equal(t, "Meera", rows[2][0])
	assert.Equal(t, "Customer", rows[2][2])
}

func TestWorkbookFilename(t *testing.T) {
	assert.Equal(t, "entries_all.xlsx", WorkbookFilename(""))
	assert.Equal(t, "entries_week.xlsx", WorkbookFilename("week"))
}

func TestReceiptHTML(t *testing.T) {
	tpl, err := NewTemplates(ist)
	require.NoError(t, err)

	p := &domain.Payment{
		ID: "p1", Type: domain.PaymentSecurity, Amount: 125000,
		Date:  time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		Notes: "<script>alert(1)</script>",
	}
	html, err := tpl.ReceiptHTML(Receipt{Payment: p, Record: &domain.Record{Name: "Asha", UnitNo: "A1"}})
	require.NoError(t, err)

	assert.Contains(t, html, "PAYMENT RECEIPT")
	assert.Contains(t, html, "Receipt #:</strong> p1")
	assert.Contains(t, html, "₹1,25,000.00")
	assert.Contains(t, html, "01/10/2026")
	assert.Contains(t, html, "Asha")
	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}

func TestReceiptHTML_StaleRecord(t *testing.T) {
	tpl, err := NewTemplates(ist)
	require.NoError(t, err)

	html, err := tpl.ReceiptHTML(Receipt{Payment: &domain.Payment{ID: "p2", Type: domain.PaymentFacility, Amount: 10}})
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(html, "<div class=\"payment-value\">—</div>"))
	assert.NotContains(t, html, "Notes:")
}

func TestStatementHTML(t *testing.T) {
	tpl, err := NewTemplates(ist)
	require.NoError(t, err)

	payments := []*domain.Payment{
		{Type: domain.PaymentSecurity, Amount: 5000, Date: time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)},
		{Type: domain.PaymentFacility, Amount: 1500, Date: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC), Notes: "cheque"},
		{Type: domain.PaymentMaintenance, Amount: 300, Date: time.Date(2026, 10, 3, 0, 0, 0, 0, time.UTC)},
	}
	st := Statement{
		Record:      &domain.Record{Name: "Asha", UnitNo: "A1", EmailID: "asha@example.com", AreaSqYrd: 100},
		Payments:    payments,
		GeneratedAt: time.Date(2026, 10, 15, 0, 0, 0, 0, ist),
	}
	for _, p := range payments {
		st.Totals.Add(p)
	}

	html, err := tpl.StatementHTML(st)
	require.NoError(t, err)

	assert.Equal(t, 6500.0, st.GrandTotal())
	assert.Contains(t, html, "Total Security Paid:</strong> ₹5,000.00")
	assert.Contains(t, html, "Total Facility Paid:</strong> ₹1,500.00")
	assert.Contains(t, html, "Total Maintenance Paid:</strong> ₹300.00")
	assert.Contains(t, html, "Grand Total:</strong> ₹6,500.00")
	assert.NotContains(t, html, "Total Other Paid")
	assert.Contains(t, html, "<td>3</td>")
	assert.Contains(t, html, "cheque")
	assert.Contains(t, html, "15/10/2026")
}

func TestFilenames(t *testing.T) {
	assert.Equal(t, "payment-receipt-p1.pdf", ReceiptFilename("p1"))
	assert.Equal(t, "summary-invoice-A1.pdf", StatementFilename("A1"))
}
