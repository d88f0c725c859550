package email

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/pkg/logger"
)

// Config holds SMTP delivery settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	// AppURL is linked at the bottom of every message.
	AppURL string
}

// Sender sends one assembled message. Satisfied by gomail.Dialer.
type Sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// Notifier delivers task notifications over SMTP. It is the fallback channel
// for users without a linked Slack account.
type Notifier struct {
	sender Sender
	from   string
	appURL string
	logger *logger.Logger
}

func NewNotifier(cfg Config, log *logger.Logger) *Notifier {
	return &Notifier{
		sender: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
		appURL: cfg.AppURL,
		logger: log,
	}
}

// NewNotifierWithSender injects a sender. Used by tests.
func NewNotifierWithSender(sender Sender, from, appURL string, log *logger.Logger) *Notifier {
	return &Notifier{sender: sender, from: from, appURL: appURL, logger: log}
}

func (n *Notifier) SendReminder(ctx context.Context, todo *model.Todo, user *model.User, daysUntilDue int) error {
	var deadline string
	switch daysUntilDue {
	case 0:
		deadline = "due today"
	case 1:
		deadline = "due tomorrow"
	default:
		deadline = fmt.Sprintf("due in %d days", daysUntilDue)
	}

	subject := fmt.Sprintf("Reminder: %q is %s", todo.Title, deadline)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", user.Name)
	fmt.Fprintf(&sb, "The task %q is %s (deadline %s).\n",
		todo.Title, deadline, todo.DueDate.Format("January 2, 2006 15:04"))
	if todo.Description != nil && *todo.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", *todo.Description)
	}
	n.appendLink(&sb)

	return n.send(ctx, user, subject, sb.String())
}

func (n *Notifier) SendDigest(ctx context.Context, user *model.User, items []notifier.DueItem) error {
	if len(items) == 0 {
		return nil
	}

	subject := fmt.Sprintf("You have %d tasks coming due", len(items))
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", user.Name)
	for _, item := range items {
		fmt.Fprintf(&sb, "- %s (due %s, in %d days)\n",
			item.Todo.Title, item.Todo.DueDate.Format("Jan 2"), item.DaysUntilDue)
	}
	n.appendLink(&sb)

	return n.send(ctx, user, subject, sb.String())
}

func (n *Notifier) SendNewTodo(ctx context.Context, todo *model.Todo, user *model.User) error {
	subject := fmt.Sprintf("New task assigned: %s", todo.Title)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", user.Name)
	fmt.Fprintf(&sb, "A new task %q was assigned to you, due %s.\n",
		todo.Title, todo.DueDate.Format("January 2, 2006 15:04"))
	if todo.Description != nil && *todo.Description != "" {
		fmt.Fprintf(&sb, "\n%s\n", *todo.Description)
	}
	n.appendLink(&sb)

	return n.send(ctx, user, subject, sb.String())
}

func (n *Notifier) SendTodoUpdated(ctx context.Context, todo *model.Todo, user *model.User, changes []string) error {
	subject := fmt.Sprintf("Task updated: %s", todo.Title)
	var sb strings.Builder
	fmt.Fprintf(&sb, "Hello %s,\n\n", user.Name)
	fmt.Fprintf(&sb, "The task %q assigned to you was updated.\n", todo.Title)
	if len(changes) > 0 {
		fmt.Fprintf(&sb, "Changes: %s\n", strings.Join(changes, ", "))
	}
	fmt.Fprintf(&sb, "Deadline: %s\n", todo.DueDate.Format("January 2, 2006 15:04"))
	n.appendLink(&sb)

	return n.send(ctx, user, subject, sb.String())
}

func (n *Notifier) SendTodoDeleted(ctx context.Context, title string, user *model.User) error {
	subject := fmt.Sprintf("Task removed: %s", title)
	body := fmt.Sprintf("Hello %s,\n\nThe task %q assigned to you was removed. No action is needed.\n", user.Name, title)
	return n.send(ctx, user, subject, body)
}

func (n *Notifier) send(ctx context.Context, user *model.User, subject, body string) error {
	if user.Email == "" {
		return fmt.Errorf("user %s has no email address", user.ID)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", user.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.sender.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", user.Email, err)
	}
	n.logger.Debug("sent email notification", "user_id", user.ID.String(), "subject", subject)
	return nil
}

func (n *Notifier) appendLink(sb *strings.Builder) {
	if n.appURL != "" {
		fmt.Fprintf(sb, "\nOpen the app: %s\n", n.appURL)
	}
}
