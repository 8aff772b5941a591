package core

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Employee struct {
	EmployeeID string `gorm:"column:employee_id;primaryKey;size:16"`
	Name       string `gorm:"size:100"`
	Role       string `gorm:"size:50"`
}

func (Employee) TableName() string {
	return "employees"
}

// NormalizeEmployeeID folds an id to the stored form: trimmed, uppercase.
// Every lookup and mutation goes through this first.
func NormalizeEmployeeID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// FindEmployee looks up an employee by normalized id. Exact match only,
// no partial matching.
func FindEmployee(db *gorm.DB, employeeID string) (*Employee, error) {
	var emp Employee
	result := db.Where("employee_id = ?", NormalizeEmployeeID(employeeID)).Take(&emp)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil // not found
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &emp, nil
}

// ListEmployees returns every registered employee ordered by id.
func ListEmployees(db *gorm.DB) ([]Employee, error) {
	var employees []Employee
	err := db.Order("employee_id ASC").Find(&employees).Error
	return employees, err
}

// SeedEmployees inserts the given employees, skipping ids that already exist.
func SeedEmployees(db *gorm.DB, employees []Employee) error {
	for i := range employees {
		employees[i].EmployeeID = NormalizeEmployeeID(employees[i].EmployeeID)
	}
	if len(employees) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}},
		DoNothing: true,
	}).Create(&employees).Error
}
