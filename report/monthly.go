package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"marktime.com/marktime/core"
)

// MonthlyRow is one employee's presence for a month. AbsentDays is computed
// against a fixed working-day policy constant, not the calendar.
type MonthlyRow struct {
	EmployeeID  string `json:"employeeId"`
	Name        string `json:"name"`
	PresentDays int    `json:"presentDays"`
	AbsentDays  int    `json:"absentDays"`
}

// MonthlySummary builds one row per registered employee, including employees
// with zero attended days.
func MonthlySummary(employees []core.Employee, presence map[string]int, workingDays int) []MonthlyRow {
	rows := make([]MonthlyRow, 0, len(employees))
	for _, emp := range employees {
		present := presence[emp.EmployeeID]
		absent := workingDays - present
		if absent < 0 {
			absent = 0
		}
		rows = append(rows, MonthlyRow{
			EmployeeID:  emp.EmployeeID,
			Name:        emp.Name,
			PresentDays: present,
			AbsentDays:  absent,
		})
	}
	return rows
}

const monthlySheet = "Attendance"

// MonthlyWorkbook writes the summary rows into an xlsx workbook.
func MonthlyWorkbook(year, month int, rows []MonthlyRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(monthlySheet)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to drop default sheet: %w", err)
	}

	header := []interface{}{
		fmt.Sprintf("Monthly Attendance %04d-%02d", year, month),
	}
	if err := f.SetSheetRow(monthlySheet, "A1", &header); err != nil {
		return nil, err
	}
	columns := []interface{}{"Employee ID", "Name", "Present Days", "Absent Days"}
	if err := f.SetSheetRow(monthlySheet, "A2", &columns); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+3)
		if err != nil {
			return nil, err
		}
		values := []interface{}{row.EmployeeID, row.Name, row.PresentDays, row.AbsentDays}
		if err := f.SetSheetRow(monthlySheet, cell, &values); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
