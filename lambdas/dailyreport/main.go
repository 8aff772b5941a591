package main

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/lambda"

	"marktime.com/marktime/core"
	"marktime.com/marktime/infrastructure/communication"
	"marktime.com/marktime/infrastructure/devops"
	"marktime.com/marktime/report"
)

// EventBridge-scheduled alternative to the in-process evening job: renders
// today's PDF, publishes it, and notifies the HR channel.
func handler(ctx context.Context) (string, error) {
	cfg, err := devops.Load(ctx)
	if err != nil {
		return "", err
	}

	clock, err := core.NewZoneClock(cfg.Timezone)
	if err != nil {
		return "", err
	}

	dm, err := core.New(cfg.DSN, 1)
	if err != nil {
		return "", err
	}
	defer dm.Close()

	notifier, err := communication.NewNotifier(communication.Settings{
		SlackToken: cfg.Slack.Token,
		Slack: communication.SlackOption{
			HRChannelID:    cfg.Slack.HRChannelID,
			ErrorChannelID: cfg.Slack.ErrorChannelID,
		},
		EmailFrom: cfg.Email.From,
		EmailTo:   cfg.Email.To,
	})
	if err != nil {
		return "", err
	}

	publisher := &report.Publisher{
		DM:            dm,
		Clock:         clock,
		Bucket:        cfg.Report.Bucket,
		PublicBaseURL: cfg.Report.PublicBaseURL,
		Notifier:      notifier,
	}

	link, err := publisher.PublishDaily(ctx)
	if err != nil {
		notifier.Error(fmt.Sprintf("daily report failed: %v", err))
		return "", err
	}

	fmt.Printf("published %s\n", link)
	return link, nil
}

func main() {
	lambda.Start(handler)
}
