package communication

import (
	"errors"
	"fmt"

	"github.com/slack-go/slack"
)

// Notifier is what the scheduled jobs need from a messaging channel: a
// morning live-link message and an evening summary with a download link.
type Notifier interface {
	LiveLink(url string) error
	DailySummary(link string) error
	Error(message string) error
}

// SummaryAttacher is implemented by channels that can carry the rendered
// report itself alongside the link.
type SummaryAttacher interface {
	AttachSummary(att Attachment)
}

// Settings picks the channels to notify: Slack when a token is configured,
// email when a sender is. At least one must be set.
type Settings struct {
	SlackToken string
	Slack      SlackOption
	EmailFrom  string
	EmailTo    []string
}

// NewNotifier builds the notifier the settings call for, fanning out to
// every configured channel.
func NewNotifier(s Settings) (Notifier, error) {
	var channels Multi
	if s.SlackToken != "" {
		channels = append(channels, NewSlack(s.SlackToken, s.Slack))
	}
	if s.EmailFrom != "" {
		channels = append(channels, NewEmail(s.EmailFrom, s.EmailTo))
	}

	switch len(channels) {
	case 0:
		return nil, errors.New("no notification channel configured")
	case 1:
		return channels[0], nil
	default:
		return channels, nil
	}
}

// Multi fans every notification out to all channels and reports the
// combined failures.
type Multi []Notifier

func (m Multi) LiveLink(url string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.LiveLink(url))
	}
	return errors.Join(errs...)
}

func (m Multi) DailySummary(link string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.DailySummary(link))
	}
	return errors.Join(errs...)
}

func (m Multi) Error(message string) error {
	var errs []error
	for _, n := range m {
		errs = append(errs, n.Error(message))
	}
	return errors.Join(errs...)
}

func (m Multi) AttachSummary(att Attachment) {
	for _, n := range m {
		if attacher, ok := n.(SummaryAttacher); ok {
			attacher.AttachSummary(att)
		}
	}
}

// LiveLinkMessage is the morning message sent to the HR channel.
func LiveLinkMessage(url string) string {
	return "Good Morning HR 👋\nLive Attendance Link:\n" + url
}

// DailySummaryMessage is the evening message carrying the PDF link.
func DailySummaryMessage(link string) string {
	return "Today's Attendance Summary PDF 📄\n" + link
}

type Slack struct {
	client  *slack.Client
	options SlackOption
}

type SlackOption struct {
	HRChannelID    string
	ErrorChannelID string
}

func NewSlack(token string, options SlackOption) *Slack {
	client := slack.New(token)
	return &Slack{client: client, options: options}
}

func (s *Slack) postMessage(channelID, message string) error {
	_, _, err := s.client.PostMessage(
		channelID,
		slack.MsgOptionText(message, false),
		slack.MsgOptionAsUser(true),
	)
	if err != nil {
		return fmt.Errorf("failed to post message to Slack: %w", err)
	}
	return nil
}

func (s *Slack) LiveLink(url string) error {
	return s.postMessage(s.options.HRChannelID, LiveLinkMessage(url))
}

func (s *Slack) DailySummary(link string) error {
	return s.postMessage(s.options.HRChannelID, DailySummaryMessage(link))
}

func (s *Slack) Error(message string) error {
	return s.postMessage(s.options.ErrorChannelID, message)
}
