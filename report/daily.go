package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"marktime.com/marktime/core"
)

// DailyPDF renders one day's report-ordered entries as an A4 summary, one
// line per record.
func DailyPDF(date string, entries []core.DayEntry) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, "Daily Attendance Summary - "+date, "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	for _, e := range entries {
		out := "-"
		if e.OutTime != nil {
			out = *e.OutTime
		}
		line := fmt.Sprintf("%s | %s | %s | %s", e.EmployeeID, e.Name, e.InTime, out)
		pdf.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
	}

	if len(entries) == 0 {
		pdf.CellFormat(0, 7, "No attendance recorded", "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render daily pdf: %w", err)
	}
	return buf.Bytes(), nil
}
