package main

import (
	"context"
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"marktime.com/marktime/core"
	"marktime.com/marktime/infrastructure/devops"
)

// Seeds the employee table from a CSV of employee_id,name,role rows.
// Existing ids are left alone, so re-running is safe.
func main() {
	path := flag.String("file", "employees.csv", "employee CSV file")
	flag.Parse()

	ctx := context.Background()

	cfg, err := devops.Load(ctx)
	if err != nil {
		log.Fatal(err)
	}

	employees, err := readEmployees(*path)
	if err != nil {
		log.Fatalf("failed to read %s: %v", *path, err)
	}
	fmt.Printf("Parsed %d employees\n", len(employees))

	dm, err := core.New(cfg.DSN, 1)
	if err != nil {
		log.Fatal(err)
	}
	defer dm.Close()

	if err := dm.Migrate(ctx); err != nil {
		log.Fatal(err)
	}

	if err := dm.Exec(ctx, func(db *gorm.DB) error {
		return core.SeedEmployees(db, employees)
	}); err != nil {
		log.Fatalf("failed to seed employees: %v", err)
	}

	fmt.Println("Completed")
}

func readEmployees(path string) ([]core.Employee, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}

	var employees []core.Employee
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		if len(row) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns, got %d", i, len(row))
		}
		employees = append(employees, core.Employee{
			EmployeeID: row[0],
			Name:       row[1],
			Role:       row[2],
		})
	}
	return employees, nil
}
