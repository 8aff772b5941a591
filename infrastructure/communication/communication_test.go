package communication

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageFormats(t *testing.T) {
	live := LiveLinkMessage("https://example.com/attendance")
	assert.Contains(t, live, "Good Morning HR")
	assert.Contains(t, live, "https://example.com/attendance")

	summary := DailySummaryMessage("https://example.com/daily/2024-03-01.pdf")
	assert.Contains(t, summary, "Attendance Summary PDF")
	assert.Contains(t, summary, "https://example.com/daily/2024-03-01.pdf")
}

func TestNewNotifierSelection(t *testing.T) {
	t.Run("slack only", func(t *testing.T) {
		n, err := NewNotifier(Settings{SlackToken: "xoxb-test", Slack: SlackOption{HRChannelID: "C123"}})
		require.NoError(t, err)
		assert.IsType(t, &Slack{}, n)
	})

	t.Run("email only", func(t *testing.T) {
		n, err := NewNotifier(Settings{EmailFrom: "reports@example.com", EmailTo: []string{"hr@example.com"}})
		require.NoError(t, err)
		assert.IsType(t, &Email{}, n)
	})

	t.Run("both fan out", func(t *testing.T) {
		n, err := NewNotifier(Settings{
			SlackToken: "xoxb-test",
			Slack:      SlackOption{HRChannelID: "C123"},
			EmailFrom:  "reports@example.com",
			EmailTo:    []string{"hr@example.com"},
		})
		require.NoError(t, err)
		multi, ok := n.(Multi)
		require.True(t, ok)
		assert.Len(t, multi, 2)
	})

	t.Run("nothing configured", func(t *testing.T) {
		_, err := NewNotifier(Settings{})
		assert.Error(t, err)
	})
}

func TestMultiForwardsSummaryAttachment(t *testing.T) {
	n, err := NewNotifier(Settings{
		SlackToken: "xoxb-test",
		EmailFrom:  "reports@example.com",
		EmailTo:    []string{"hr@example.com"},
	})
	require.NoError(t, err)

	attacher, ok := n.(SummaryAttacher)
	require.True(t, ok)
	attacher.AttachSummary(Attachment{
		Filename:    "daily_attendance.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4 fake"),
	})

	multi := n.(Multi)
	for _, member := range multi {
		if email, ok := member.(*Email); ok {
			require.NotNil(t, email.SummaryAttachment)
			assert.Equal(t, "daily_attendance.pdf", email.SummaryAttachment.Filename)
		}
	}
}

func TestBuildEmailBufferWithAttachment(t *testing.T) {
	buf, err := BuildEmailBuffer(&EmailInfo{
		From:    "reports@example.com",
		To:      []string{"hr@example.com"},
		Subject: "Daily Attendance Summary",
		Text:    DailySummaryMessage("https://example.com/daily.pdf"),
		Attachments: []Attachment{
			{Filename: "daily_attendance.pdf", ContentType: "application/pdf", Content: []byte("%PDF-1.4 fake")},
		},
	})
	require.NoError(t, err)

	raw, err := io.ReadAll(buf)
	require.NoError(t, err)
	body := string(raw)

	assert.Contains(t, body, "From: reports@example.com")
	assert.Contains(t, body, "To: hr@example.com")
	assert.Contains(t, body, "Subject: Daily Attendance Summary")
	assert.Contains(t, body, `attachment; filename="daily_attendance.pdf"`)
	assert.Contains(t, body, "Content-Transfer-Encoding: base64")
}
