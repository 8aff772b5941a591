package core

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AttendanceRecord is one row per (employee, calendar date). InTime is set on
// creation and never changes; OutTime goes from null to a value exactly once.
type AttendanceRecord struct {
	ID         uint    `gorm:"primaryKey;autoIncrement"`
	EmployeeID string  `gorm:"column:employee_id;size:16;uniqueIndex:idx_employee_date"`
	Date       string  `gorm:"size:10;uniqueIndex:idx_employee_date"`
	InTime     string  `gorm:"column:in_time;size:8"`
	OutTime    *string `gorm:"column:out_time;size:8"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// DayEntry is the joined listing row handed to views and reports.
type DayEntry struct {
	EmployeeID string  `json:"employeeId"`
	Name       string  `json:"name"`
	Date       string  `json:"date"`
	InTime     string  `json:"inTime"`
	OutTime    *string `json:"outTime"`
}

// FindTodayRecord returns the single record for (employee, date), or nil.
func FindTodayRecord(db *gorm.DB, employeeID, date string) (*AttendanceRecord, error) {
	var rec AttendanceRecord
	result := db.Where("employee_id = ? AND date = ?", NormalizeEmployeeID(employeeID), date).
		Take(&rec)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &rec, nil
}

// CreateInRecord inserts the day's record with in_time set and out_time null.
// Returns ErrDuplicateRecord when the (employee, date) pair already has one,
// whether caught by the pre-check or by the unique index.
func CreateInRecord(db *gorm.DB, employeeID, date, inTime string) (uint, error) {
	existing, err := FindTodayRecord(db, employeeID, date)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrDuplicateRecord
	}

	rec := AttendanceRecord{
		EmployeeID: NormalizeEmployeeID(employeeID),
		Date:       date,
		InTime:     inTime,
	}
	if err := db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return 0, ErrDuplicateRecord
		}
		return 0, err
	}
	return rec.ID, nil
}

// SetOutTime writes out_time on an open record. The update itself guards the
// set-at-most-once invariant: a caller that raced past the null check matches
// zero rows instead of overwriting.
func SetOutTime(db *gorm.DB, recordID uint, outTime string) error {
	result := db.Model(&AttendanceRecord{}).
		Where("id = ? AND out_time IS NULL", recordID).
		Update("out_time", outTime)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("attendance record %d missing or already closed", recordID)
	}
	return nil
}

const dayEntrySelect = `attendance_records.employee_id,
	employees.name,
	attendance_records.date,
	attendance_records.in_time,
	attendance_records.out_time`

// ListByDate returns one date's records in display order, most recent tap
// first.
func ListByDate(db *gorm.DB, date string) ([]DayEntry, error) {
	var entries []DayEntry
	err := db.Table("attendance_records").
		Select(dayEntrySelect).
		Joins("JOIN employees ON employees.employee_id = attendance_records.employee_id").
		Where("attendance_records.date = ?", date).
		Order("attendance_records.in_time DESC").
		Scan(&entries).Error
	return entries, err
}

// ListRecent returns every record, newest date and latest tap first. This is
// the live attendance view ordering and is distinct from the report ordering.
func ListRecent(db *gorm.DB) ([]DayEntry, error) {
	var entries []DayEntry
	err := db.Table("attendance_records").
		Select(dayEntrySelect).
		Joins("JOIN employees ON employees.employee_id = attendance_records.employee_id").
		Order("attendance_records.date DESC, attendance_records.in_time DESC").
		Scan(&entries).Error
	return entries, err
}

// ListForReport returns one date's records ordered by employee id, the stable
// ordering report generation depends on.
func ListForReport(db *gorm.DB, date string) ([]DayEntry, error) {
	var entries []DayEntry
	err := db.Table("attendance_records").
		Select(dayEntrySelect).
		Joins("JOIN employees ON employees.employee_id = attendance_records.employee_id").
		Where("attendance_records.date = ?", date).
		Order("attendance_records.employee_id ASC").
		Scan(&entries).Error
	return entries, err
}

// MonthlyPresence counts distinct attended dates per employee for one month.
// Employees with no records that month are absent from the map.
func MonthlyPresence(db *gorm.DB, year, month int) (map[string]int, error) {
	type row struct {
		EmployeeID string
		Days       int
	}
	prefix := fmt.Sprintf("%04d-%02d-%%", year, month)

	var rows []row
	err := db.Table("attendance_records").
		Select("employee_id, COUNT(DISTINCT date) AS days").
		Where("date LIKE ?", prefix).
		Group("employee_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	presence := make(map[string]int, len(rows))
	for _, r := range rows {
		presence[r.EmployeeID] = r.Days
	}
	return presence, nil
}
