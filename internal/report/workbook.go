// Package report builds the documents served by the export and invoice
// endpoints: the entries workbook and the HTML sources of the PDF receipts.
package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/rof/invgen/internal/core/domain"
)

const (
	entriesSheet = "Entries"
	// WorkbookContentType is the MIME type of the generated workbook.
	WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type column struct {
	header string
	width  float64
	value  func(e *domain.Entry, loc *time.Location) string
}

var entryColumns = []column{
	{"Name", 20, func(e *domain.Entry, _ *time.Location) string { return e.Name }},
	{"Phone", 15, func(e *domain.Entry, _ *time.Location) string { return e.Phone }},
	{"Type", 15, func(e *domain.Entry, _ *time.Location) string { return string(e.Type) }},
	{"Remarks", 30, func(e *domain.Entry, _ *time.Location) string { return e.Remarks }},
	{"Broker Name", 20, func(e *domain.Entry, _ *time.Location) string { return broker(e).Name }},
	{"Firm Name", 20, func(e *domain.Entry, _ *time.Location) string { return broker(e).FirmName }},
	{"Broker Contact No", 20, func(e *domain.Entry, _ *time.Location) string { return broker(e).ContactNo }},
	{"Created By", 20, func(e *domain.Entry, _ *time.Location) string {
		if e.Creator == nil {
			return ""
		}
		return e.Creator.Name
	}},
	{"Created At", 20, func(e *domain.Entry, loc *time.Location) string {
		return e.CreatedAt.In(loc).Format("02/01/2006, 15:04:05")
	}},
}

func broker(e *domain.Entry) domain.BrokerDetails {
	if e.Broker == nil {
		return domain.BrokerDetails{}
	}
	return *e.Broker
}

// EntriesWorkbook renders entries into an .xlsx file, one row per entry in
// the given order. Timestamps are shown in loc.
func EntriesWorkbook(entries []*domain.Entry, loc *time.Location) ([]byte, error) {
	if loc == nil {
		loc = time.Local
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(entriesSheet)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#F2F2F2"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for i, col := range entryColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(entriesSheet, name, name, col.width); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", name, err)
		}
		cell := name + "1"
		if err := f.SetCellValue(entriesSheet, cell, col.header); err != nil {
			return nil, fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(entriesSheet, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for r, e := range entries {
		for c, col := range entryColumns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(entriesSheet, cell, col.value(e, loc)); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(entriesSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// WorkbookFilename returns the attachment name for an export option.
func WorkbookFilename(option string) string {
	if option == "" {
		option = "all"
	}
	return fmt.Sprintf("entries_%s.xlsx", option)
}
