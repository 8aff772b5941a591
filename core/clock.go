package core

import (
	"fmt"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Clock is the single time source for attendance resolution. Date bucketing
// and timestamps must come from the same zone or a record written just
// before midnight can land on the wrong day.
type Clock interface {
	Now() time.Time
}

// ZoneClock reads the wall clock in one fixed location.
type ZoneClock struct {
	Loc *time.Location
}

func NewZoneClock(tzName string) (ZoneClock, error) {
	loc, err := time.LoadLocation(tzName)
	if err != nil {
		return ZoneClock{}, fmt.Errorf("failed to load timezone %s: %w", tzName, err)
	}
	return ZoneClock{Loc: loc}, nil
}

func (z ZoneClock) Now() time.Time {
	return time.Now().In(z.Loc)
}

// DateOf buckets t into a calendar day string.
func DateOf(t time.Time) string {
	return t.Format(DateLayout)
}

// TimeOf formats the time-of-day portion of t.
func TimeOf(t time.Time) string {
	return t.Format(TimeLayout)
}
