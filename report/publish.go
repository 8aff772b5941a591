package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"marktime.com/marktime/core"
	"marktime.com/marktime/infrastructure/communication"
	"marktime.com/marktime/infrastructure/filesystem"
)

// Publisher runs the evening job: render today's PDF, publish it to the
// report bucket, and hand the public link to the notifier.
type Publisher struct {
	DM            core.Store
	Clock         core.Clock
	Bucket        string
	PublicBaseURL string
	Notifier      communication.Notifier
}

// PublishDaily returns the published link. Object keys carry a short random
// suffix so a re-run never overwrites an already-shared report.
func (p *Publisher) PublishDaily(ctx context.Context) (string, error) {
	today := core.DateOf(p.Clock.Now())

	var entries []core.DayEntry
	err := p.DM.Exec(ctx, func(db *gorm.DB) error {
		var err error
		entries, err = core.ListForReport(db, today)
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to read attendance for %s: %w", today, err)
	}

	pdf, err := DailyPDF(today, entries)
	if err != nil {
		return "", err
	}

	// Channels that can carry the report itself get it as an attachment.
	if attacher, ok := p.Notifier.(communication.SummaryAttacher); ok {
		attacher.AttachSummary(communication.Attachment{
			Filename:    "daily_attendance.pdf",
			ContentType: "application/pdf",
			Content:     pdf,
		})
	}

	key := fmt.Sprintf("daily/%s-%s.pdf", today, uuid.NewString()[:8])
	if err := filesystem.WriteFile(p.Bucket, key, "application/pdf", ctx, pdf); err != nil {
		return "", err
	}

	link := strings.TrimRight(p.PublicBaseURL, "/") + "/" + key
	if err := p.Notifier.DailySummary(link); err != nil {
		return "", err
	}

	return link, nil
}
