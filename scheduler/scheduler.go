package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Jobs are the two daily notification tasks. They run on the cron goroutine,
// fully decoupled from request handling.
type Jobs struct {
	MorningLiveLink func() error
	EveningSummary  func() error
}

type Scheduler struct {
	cron *cron.Cron
}

// New schedules the jobs at the given HH:MM wall times in loc.
func New(loc *time.Location, morningAt, eveningAt string, jobs Jobs) (*Scheduler, error) {
	c := cron.New(cron.WithLocation(loc))

	morningSpec, err := CronSpec(morningAt)
	if err != nil {
		return nil, fmt.Errorf("invalid morning time: %w", err)
	}
	eveningSpec, err := CronSpec(eveningAt)
	if err != nil {
		return nil, fmt.Errorf("invalid evening time: %w", err)
	}

	if _, err := c.AddFunc(morningSpec, wrap("morning live link", jobs.MorningLiveLink)); err != nil {
		return nil, err
	}
	if _, err := c.AddFunc(eveningSpec, wrap("evening summary", jobs.EveningSummary)); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c}, nil
}

// CronSpec converts a wall time like "09:30" to a daily cron spec.
func CronSpec(hhmm string) (string, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("expected HH:MM, got %q: %w", hhmm, err)
	}
	return fmt.Sprintf("%d %d * * *", t.Minute(), t.Hour()), nil
}

func wrap(name string, job func() error) func() {
	return func() {
		if job == nil {
			return
		}
		if err := job(); err != nil {
			log.Printf("[ERROR] %s job failed: %v", name, err)
			return
		}
		log.Printf("[INFO] %s job completed", name)
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop waits for a running job to finish before returning.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}
