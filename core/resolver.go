package core

import (
	"errors"

	"gorm.io/gorm"
)

// User-facing status text. The kiosk and WFH machines share the underlying
// records but report differently.
const (
	StatusInMarked      = "IN marked"
	StatusOutMarked     = "OUT marked"
	StatusCompleted     = "Attendance completed"
	StatusNotRegistered = "Employee not registered"

	MessageWFHInMarked   = "WFH IN marked"
	MessageWFHOutMarked  = "WFH OUT marked"
	MessageInvalidAction = "Invalid action"
)

// WFH intents.
const (
	ActionIn  = "IN"
	ActionOut = "OUT"
)

// MarkResult is the kiosk response payload.
type MarkResult struct {
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// MarkAttendance resolves a single kiosk tap: no record yet marks IN, an open
// record marks OUT, a completed record is left untouched. The whole
// read-decide-write sequence runs in one transaction; if a concurrent tap
// wins the insert race the sequence is retried once.
func MarkAttendance(db *gorm.DB, clock Clock, employeeID string) (*MarkResult, error) {
	res, err := markAttendanceOnce(db, clock, employeeID)
	if errors.Is(err, ErrDuplicateRecord) {
		// Lost the insert race; the re-read observes the winner's record.
		res, err = markAttendanceOnce(db, clock, employeeID)
	}
	return res, err
}

func markAttendanceOnce(db *gorm.DB, clock Clock, employeeID string) (*MarkResult, error) {
	var res *MarkResult

	err := db.Transaction(func(tx *gorm.DB) error {
		emp, err := FindEmployee(tx, employeeID)
		if err != nil {
			return &StorageError{Err: err}
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		now := clock.Now()
		today := DateOf(now)

		rec, err := FindTodayRecord(tx, emp.EmployeeID, today)
		if err != nil {
			return &StorageError{Err: err}
		}

		var status string
		switch {
		case rec == nil:
			if _, err := CreateInRecord(tx, emp.EmployeeID, today, TimeOf(now)); err != nil {
				if errors.Is(err, ErrDuplicateRecord) {
					return err
				}
				return &StorageError{Err: err}
			}
			status = StatusInMarked

		case rec.OutTime == nil:
			if err := SetOutTime(tx, rec.ID, TimeOf(now)); err != nil {
				return &StorageError{Err: err}
			}
			status = StatusOutMarked

		default:
			status = StatusCompleted
		}

		res = &MarkResult{Name: emp.Name, Role: emp.Role, Status: status}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// MarkWFH resolves an explicit IN/OUT intent. IN is valid only when no record
// exists for today; OUT only when the record is open. Everything else is
// rejected as an invalid action with zero mutations. The returned message is
// the user-facing response; only storage failures surface as errors.
func MarkWFH(db *gorm.DB, clock Clock, employeeID, action string) (string, error) {
	message, err := markWFHOnce(db, clock, employeeID, action)
	if errors.Is(err, ErrDuplicateRecord) {
		message, err = markWFHOnce(db, clock, employeeID, action)
	}
	if errors.Is(err, ErrEmployeeNotFound) {
		return StatusNotRegistered, nil
	}
	if errors.Is(err, ErrInvalidTransition) || errors.Is(err, ErrDuplicateRecord) {
		return MessageInvalidAction, nil
	}
	return message, err
}

func markWFHOnce(db *gorm.DB, clock Clock, employeeID, action string) (string, error) {
	var message string

	err := db.Transaction(func(tx *gorm.DB) error {
		emp, err := FindEmployee(tx, employeeID)
		if err != nil {
			return &StorageError{Err: err}
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		now := clock.Now()
		today := DateOf(now)

		rec, err := FindTodayRecord(tx, emp.EmployeeID, today)
		if err != nil {
			return &StorageError{Err: err}
		}

		switch action {
		case ActionIn:
			if rec != nil {
				return ErrInvalidTransition
			}
			if _, err := CreateInRecord(tx, emp.EmployeeID, today, TimeOf(now)); err != nil {
				if errors.Is(err, ErrDuplicateRecord) {
					return err
				}
				return &StorageError{Err: err}
			}
			message = MessageWFHInMarked

		case ActionOut:
			if rec == nil || rec.OutTime != nil {
				return ErrInvalidTransition
			}
			if err := SetOutTime(tx, rec.ID, TimeOf(now)); err != nil {
				return &StorageError{Err: err}
			}
			message = MessageWFHOutMarked

		default:
			return ErrInvalidTransition
		}

		return nil
	})
	if err != nil {
		return "", err
	}
	return message, nil
}
