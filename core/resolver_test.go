package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Employee{}, &AttendanceRecord{}))
	return db
}

type fixedClock struct {
	t time.Time
}

func (f fixedClock) Now() time.Time {
	return f.t
}

func seedTestEmployees(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, SeedEmployees(db, []Employee{
		{EmployeeID: "EMP101", Name: "Santhosh", Role: "Manager"},
		{EmployeeID: "EMP102", Name: "Barani", Role: "Staff"},
	}))
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&AttendanceRecord{}).Count(&n).Error)
	return n
}

func TestMarkAttendanceKioskFlow(t *testing.T) {
	db := newTestDB(t)
	seedTestEmployees(t, db)

	loc := time.FixedZone("IST", int(5.5*3600))
	morning := fixedClock{t: time.Date(2024, 3, 1, 9, 15, 0, 0, loc)}
	evening := fixedClock{t: time.Date(2024, 3, 1, 18, 5, 30, 0, loc)}
	later := fixedClock{t: time.Date(2024, 3, 1, 21, 0, 0, 0, loc)}

	// First tap creates the record with in_time only.
	res, err := MarkAttendance(db, morning, "EMP101")
	require.NoError(t, err)
	assert.Equal(t, &MarkResult{Name: "Santhosh", Role: "Manager", Status: StatusInMarked}, res)

	rec, err := FindTodayRecord(db, "EMP101", "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "09:15:00", rec.InTime)
	assert.Nil(t, rec.OutTime)
	assert.EqualValues(t, 1, countRecords(t, db))

	// Second tap closes the same record.
	res, err = MarkAttendance(db, evening, "EMP101")
	require.NoError(t, err)
	assert.Equal(t, StatusOutMarked, res.Status)

	closed, err := FindTodayRecord(db, "EMP101", "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, closed)
	assert.Equal(t, rec.ID, closed.ID)
	require.NotNil(t, closed.OutTime)
	assert.Equal(t, "18:05:30", *closed.OutTime)
	assert.GreaterOrEqual(t, *closed.OutTime, closed.InTime)
	assert.EqualValues(t, 1, countRecords(t, db))

	// Third and later taps change nothing.
	res, err = MarkAttendance(db, later, "EMP101")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)

	unchanged, err := FindTodayRecord(db, "EMP101", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, closed, unchanged)
	assert.EqualValues(t, 1, countRecords(t, db))
}

func TestMarkAttendanceUnknownEmployee(t *testing.T) {
	db := newTestDB(t)
	seedTestEmployees(t, db)

	clock := fixedClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	res, err := MarkAttendance(db, clock, "EMP999")
	assert.ErrorIs(t, err, ErrEmployeeNotFound)
	assert.Nil(t, res)
	assert.EqualValues(t, 0, countRecords(t, db))
}

func TestMarkAttendanceNormalizesID(t *testing.T) {
	db := newTestDB(t)
	seedTestEmployees(t, db)

	clock := fixedClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}

	res, err := MarkAttendance(db, clock, "  emp101 ")
	require.NoError(t, err)
	assert.Equal(t, StatusInMarked, res.Status)

	rec, err := FindTodayRecord(db, "EMP101", "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "EMP101", rec.EmployeeID)
}

func TestMarkAttendanceDateBucketedInClockZone(t *testing.T) {
	db := newTestDB(t)
	seedTestEmployees(t, db)

	// 18:35 UTC on Feb 29 is already Mar 1 in UTC+5:30.
	loc := time.FixedZone("IST", int(5.5*3600))
	instant := time.Date(2024, 2, 29, 18, 35, 0, 0, time.UTC).In(loc)
	clock := fixedClock{t: instant}

	_, err := MarkAttendance(db, clock, "EMP101")
	require.NoError(t, err)

	rec, err := FindTodayRecord(db, "EMP101", "2024-03-01")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "00:05:00", rec.InTime)
}

func TestMarkWFH(t *testing.T) {
	loc := time.FixedZone("IST", int(5.5*3600))
	clock := fixedClock{t: time.Date(2024, 3, 1, 10, 0, 0, 0, loc)}

	tests := []struct {
		name    string
		setup   func(t *testing.T, db *gorm.DB)
		id      string
		action  string
		message string
		records int64
	}{
		{
			name:    "IN from no record",
			id:      "EMP101",
			action:  ActionIn,
			message: MessageWFHInMarked,
			records: 1,
		},
		{
			name: "IN while already in",
			setup: func(t *testing.T, db *gorm.DB) {
				_, err := CreateInRecord(db, "EMP101", "2024-03-01", "08:00:00")
				require.NoError(t, err)
			},
			id:      "EMP101",
			action:  ActionIn,
			message: MessageInvalidAction,
			records: 1,
		},
		{
			name:    "OUT with no prior IN",
			id:      "EMP101",
			action:  ActionOut,
			message: MessageInvalidAction,
			records: 0,
		},
		{
			name: "OUT from open record",
			setup: func(t *testing.T, db *gorm.DB) {
				_, err := CreateInRecord(db, "EMP101", "2024-03-01", "08:00:00")
				require.NoError(t, err)
			},
			id:      "EMP101",
			action:  ActionOut,
			message: MessageWFHOutMarked,
			records: 1,
		},
		{
			name: "OUT when already completed",
			setup: func(t *testing.T, db *gorm.DB) {
				id, err := CreateInRecord(db, "EMP101", "2024-03-01", "08:00:00")
				require.NoError(t, err)
				require.NoError(t, SetOutTime(db, id, "17:00:00"))
			},
			id:      "EMP101",
			action:  ActionOut,
			message: MessageInvalidAction,
			records: 1,
		},
		{
			name: "IN when already completed",
			setup: func(t *testing.T, db *gorm.DB) {
				id, err := CreateInRecord(db, "EMP101", "2024-03-01", "08:00:00")
				require.NoError(t, err)
				require.NoError(t, SetOutTime(db, id, "17:00:00"))
			},
			id:      "EMP101",
			action:  ActionIn,
			message: MessageInvalidAction,
			records: 1,
		},
		{
			name:    "unknown employee",
			id:      "EMP999",
			action:  ActionIn,
			message: StatusNotRegistered,
			records: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t)
			seedTestEmployees(t, db)
			if tt.setup != nil {
				tt.setup(t, db)
			}

			before, err := FindTodayRecord(db, tt.id, "2024-03-01")
			require.NoError(t, err)

			msg, err := MarkWFH(db, clock, tt.id, tt.action)
			require.NoError(t, err)
			assert.Equal(t, tt.message, msg)
			assert.EqualValues(t, tt.records, countRecords(t, db))

			// Rejections must not mutate the existing record.
			if tt.message == MessageInvalidAction && before != nil {
				after, err := FindTodayRecord(db, tt.id, "2024-03-01")
				require.NoError(t, err)
				assert.Equal(t, before, after)
			}
		})
	}
}
