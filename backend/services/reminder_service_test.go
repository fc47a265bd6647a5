package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learnhub/backend/models"
	"learnhub/backend/utils"
)

func TestReminderService_SendInactivityReminders(t *testing.T) {
	env := newTestEnv(t)
	alice := createUser(t, env.db, "alice")
	ctx := context.Background()

	idle, err := env.svc.Tasks.Create(ctx, alice.ID, bookInput("Idle book", 100))
	require.NoError(t, err)

	done := bookInput("Done article", 0)
	done.TaskType = "Article"
	finished, err := env.svc.Tasks.Create(ctx, alice.ID, done)
	require.NoError(t, err)
	_, err = env.svc.Tasks.UpdateProgress(ctx, alice.ID, finished.ID, ProgressUpdate{Completed: boolPtr(true)})
	require.NoError(t, err)

	sent, err := env.svc.Reminders.SendInactivityReminders(ctx, env.clock.Now().Add(24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, sent, "nothing is idle yet")

	sent, err = env.svc.Reminders.SendInactivityReminders(ctx, env.clock.Now().Add(4*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	env.svc.Mail.Wait()

	mails := env.mailer.Messages()
	require.Len(t, mails, 1)
	assert.Equal(t, "alice@example.com", mails[0].To)
	assert.Equal(t, "LearnHub Task Reminder", mails[0].Subject)
	assert.True(t, strings.HasPrefix(mails[0].Body, "Don't forget about your task: "+idle.TaskTitle))
	assert.Contains(t, mails[0].Body, "3 days")

	inbox, err := env.svc.Notifications.List(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotificationOther, inbox[0].Type)
}

func TestDispatcherLogsFailures(t *testing.T) {
	mailer := &recordingMailer{err: errors.New("smtp down")}
	d := NewDispatcher(mailer, utils.DiscardLogger())

	d.Dispatch(MailMessage{To: "a@example.com", Subject: "s"})
	d.Dispatch(MailMessage{To: "", Subject: "skipped"})
	d.Wait()

	assert.Len(t, mailer.Messages(), 1)
}

func TestBuildMessage(t *testing.T) {
	raw := string(buildMessage("noreply@learnhub.dev", MailMessage{To: "a@example.com", Subject: "Hi", Body: "text"}))
	assert.Contains(t, raw, "From: noreply@learnhub.dev\r\n")
	assert.Contains(t, raw, "Subject: Hi\r\n")
	assert.True(t, strings.HasSuffix(raw, "\r\n\r\ntext"))
}

func TestBuildMessageWithAttachment(t *testing.T) {
	calendar := strings.Repeat("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n", 5)
	raw := buildMessage("noreply@learnhub.dev", MailMessage{
		To:      "a@example.com",
		Subject: "New Event: Go meetup",
		Body:    "See you there",
		Attachments: []MailAttachment{
			{Filename: "invite.ics", ContentType: "text/calendar", Data: []byte(calendar)},
		},
	})

	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "New Event: Go meetup", msg.Header.Get("Subject"))
	mediaType, params, err := mime.ParseMediaType(msg.Header.Get("Content-Type"))
	require.NoError(t, err)
	assert.Equal(t, "multipart/mixed", mediaType)

	parts := multipart.NewReader(msg.Body, params["boundary"])
	text, err := parts.NextPart()
	require.NoError(t, err)
	body, err := io.ReadAll(text)
	require.NoError(t, err)
	assert.Equal(t, "See you there", string(body))

	attachment, err := parts.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "invite.ics", attachment.FileName())
	assert.Equal(t, "base64", attachment.Header.Get("Content-Transfer-Encoding"))
	encoded, err := io.ReadAll(attachment)
	require.NoError(t, err)
	for _, line := range strings.Split(string(encoded), "\r\n") {
		assert.LessOrEqual(t, len(line), 76)
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(string(encoded), "\r\n", ""))
	require.NoError(t, err)
	assert.Equal(t, calendar, string(decoded))

	_, err = parts.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}
