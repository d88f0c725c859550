package email

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/pkg/logger"
)

type fakeSender struct {
	sent []*gomail.Message
	err  error
}

func (f *fakeSender) DialAndSend(m ...*gomail.Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, m...)
	return nil
}

func testLogger() *logger.Logger {
	return logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
}

func testUser() *model.User {
	return &model.User{
		Base:  model.Base{ID: uuid.New()},
		Name:  "Hanako Suzuki",
		Email: "hanako@example.com",
	}
}

func testTodo() *model.Todo {
	return &model.Todo{
		Title:   "Submit expense report",
		DueDate: time.Date(2025, 6, 9, 17, 0, 0, 0, time.UTC),
	}
}

func TestSendReminder(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifierWithSender(sender, "nugget@example.com", "https://app.example.com", testLogger())

	err := n.SendReminder(context.Background(), testTodo(), testUser(), 3)
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	m := sender.sent[0]
	assert.Equal(t, []string{"hanako@example.com"}, m.GetHeader("To"))
	assert.Equal(t, []string{`Reminder: "Submit expense report" is due in 3 days`}, m.GetHeader("Subject"))
}

func TestSendReminderDueToday(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifierWithSender(sender, "nugget@example.com", "", testLogger())

	require.NoError(t, n.SendReminder(context.Background(), testTodo(), testUser(), 0))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{`Reminder: "Submit expense report" is due today`}, sender.sent[0].GetHeader("Subject"))
}

func TestSendFailsWithoutEmail(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifierWithSender(sender, "nugget@example.com", "", testLogger())

	user := testUser()
	user.Email = ""
	err := n.SendReminder(context.Background(), testTodo(), user, 1)
	assert.Error(t, err)
	assert.Empty(t, sender.sent)
}

func TestSendWrapsDialerError(t *testing.T) {
	sender := &fakeSender{err: errors.New("connection refused")}
	n := NewNotifierWithSender(sender, "nugget@example.com", "", testLogger())

	err := n.SendNewTodo(context.Background(), testTodo(), testUser())
	assert.ErrorContains(t, err, "connection refused")
}

func TestSendDigestSkipsWhenEmpty(t *testing.T) {
	sender := &fakeSender{}
	n := NewNotifierWithSender(sender, "nugget@example.com", "", testLogger())

	require.NoError(t, n.SendDigest(context.Background(), testUser(), nil))
	assert.Empty(t, sender.sent)
}
