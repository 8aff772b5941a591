package communication

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"mime/multipart"
	"mime/quotedprintable"
	"net/textproto"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

type Attachment struct {
	Filename    string
	ContentType string
	Content     []byte
}

type EmailInfo struct {
	From        string
	To          []string
	Subject     string
	Text        string
	Attachments []Attachment
}

// Email is the Notifier that mails HR instead of (or alongside) Slack. The
// evening summary carries the PDF as an attachment rather than a link.
type Email struct {
	From string
	To   []string

	// SummaryAttachment is set via AttachSummary before DailySummary runs.
	SummaryAttachment *Attachment
}

func NewEmail(from string, to []string) *Email {
	return &Email{From: from, To: to}
}

func (e *Email) AttachSummary(att Attachment) {
	e.SummaryAttachment = &att
}

func (e *Email) LiveLink(url string) error {
	return SendEmail(context.Background(), &EmailInfo{
		From:    e.From,
		To:      e.To,
		Subject: "Live Attendance Link",
		Text:    LiveLinkMessage(url),
	})
}

func (e *Email) DailySummary(link string) error {
	info := &EmailInfo{
		From:    e.From,
		To:      e.To,
		Subject: "Daily Attendance Summary",
		Text:    DailySummaryMessage(link),
	}
	if e.SummaryAttachment != nil {
		info.Attachments = []Attachment{*e.SummaryAttachment}
	}
	return SendEmail(context.Background(), info)
}

func (e *Email) Error(message string) error {
	return SendEmail(context.Background(), &EmailInfo{
		From:    e.From,
		To:      e.To,
		Subject: "Attendance service error",
		Text:    message,
	})
}

func SendEmail(ctx context.Context, info *EmailInfo) error {
	emailRaw, err := BuildEmailBuffer(info)
	if err != nil {
		return err
	}

	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}
	client := ses.NewFromConfig(cfg)

	_, err = client.SendRawEmail(
		ctx,
		&ses.SendRawEmailInput{
			RawMessage: &types.RawMessage{
				Data: emailRaw.Bytes(),
			},
		},
	)
	return err
}

func BuildEmailBuffer(info *EmailInfo) (*bytes.Buffer, error) {
	var emailRaw bytes.Buffer
	writer := multipart.NewWriter(&emailRaw)
	boundary := writer.Boundary()

	headers := fmt.Sprintf("From: %s\r\n", info.From)
	if len(info.To) > 0 {
		headers += fmt.Sprintf("To: %s\r\n", strings.Join(info.To, ", "))
	}
	headers += fmt.Sprintf("Subject: %s\r\n", info.Subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += fmt.Sprintf("Content-Type: multipart/mixed; boundary=\"%s\"\r\n", boundary)
	headers += "\r\n"
	emailRaw.WriteString(headers)

	// Text body
	if info.Text != "" {
		part, _ := writer.CreatePart(textproto.MIMEHeader{
			"Content-Type":              {"text/plain; charset=UTF-8"},
			"Content-Transfer-Encoding": {"quoted-printable"},
		})
		qp := quotedprintable.NewWriter(part)
		qp.Write([]byte(info.Text))
		qp.Close()
	}

	// Attachments
	for _, att := range info.Attachments {
		h := textproto.MIMEHeader{}
		h.Set("Content-Type", fmt.Sprintf("%s; name=\"%s\"", att.ContentType, att.Filename))
		h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", att.Filename))
		h.Set("Content-Transfer-Encoding", "base64")

		part, _ := writer.CreatePart(h)
		b := make([]byte, base64.StdEncoding.EncodedLen(len(att.Content)))
		base64.StdEncoding.Encode(b, att.Content)

		// wrap lines at 76 chars
		for i := 0; i < len(b); i += 76 {
			end := i + 76
			if end > len(b) {
				end = len(b)
			}
			part.Write(b[i:end])
			part.Write([]byte("\r\n"))
		}
	}

	writer.Close()

	return &emailRaw, nil
}
