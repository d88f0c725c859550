package slack

import (
	"context"
	"fmt"
	"strings"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/pkg/logger"
)

// ErrNoSlackID marks a user without a linked Slack account. It wraps
// notifier.ErrNoChannel so the fallback chain switches to email for them.
var ErrNoSlackID = fmt.Errorf("user has no slack id: %w", notifier.ErrNoChannel)

// Config holds Slack delivery settings.
type Config struct {
	BotToken string
	// AppURL is linked at the bottom of every message.
	AppURL string
}

// Notifier delivers task notifications as Slack direct messages.
type Notifier struct {
	client *Client
	appURL string
	logger *logger.Logger
}

func NewNotifier(cfg Config, log *logger.Logger) *Notifier {
	return &Notifier{
		client: NewClient(cfg.BotToken),
		appURL: cfg.AppURL,
		logger: log,
	}
}

// NewNotifierWithClient injects a preconfigured client. Used by tests.
func NewNotifierWithClient(client *Client, appURL string, log *logger.Logger) *Notifier {
	return &Notifier{client: client, appURL: appURL, logger: log}
}

func (n *Notifier) SendReminder(ctx context.Context, todo *model.Todo, user *model.User, daysUntilDue int) error {
	channel, err := n.channelFor(user)
	if err != nil {
		return err
	}

	if err := n.client.PostMessage(ctx, channel, n.buildReminderMessage(todo, daysUntilDue)); err != nil {
		return err
	}
	n.logger.Info("sent reminder",
		"user_id", user.ID.String(),
		"todo_id", todo.ID.String(),
		"days_until_due", daysUntilDue,
	)
	return nil
}

func (n *Notifier) SendDigest(ctx context.Context, user *model.User, items []notifier.DueItem) error {
	if len(items) == 0 {
		return nil
	}
	channel, err := n.channelFor(user)
	if err != nil {
		return err
	}
	return n.client.PostMessage(ctx, channel, n.buildDigestMessage(items))
}

func (n *Notifier) SendNewTodo(ctx context.Context, todo *model.Todo, user *model.User) error {
	channel, err := n.channelFor(user)
	if err != nil {
		return err
	}
	return n.client.PostMessage(ctx, channel, n.buildNewTodoMessage(todo))
}

func (n *Notifier) SendTodoUpdated(ctx context.Context, todo *model.Todo, user *model.User, changes []string) error {
	channel, err := n.channelFor(user)
	if err != nil {
		return err
	}
	return n.client.PostMessage(ctx, channel, n.buildUpdatedMessage(todo, changes))
}

func (n *Notifier) SendTodoDeleted(ctx context.Context, title string, user *model.User) error {
	channel, err := n.channelFor(user)
	if err != nil {
		return err
	}
	message := fmt.Sprintf("🗑️ *A task assigned to you was removed*\n\n*Title:* %s", title)
	return n.client.PostMessage(ctx, channel, message)
}

func (n *Notifier) channelFor(user *model.User) (string, error) {
	if user.SlackUserID == nil || *user.SlackUserID == "" {
		return "", fmt.Errorf("user %s: %w", user.ID, ErrNoSlackID)
	}
	return *user.SlackUserID, nil
}

func (n *Notifier) buildReminderMessage(todo *model.Todo, daysUntilDue int) string {
	var urgency, deadline string
	switch daysUntilDue {
	case 0:
		urgency, deadline = "🚨", "due today"
	case 1:
		urgency, deadline = "⚠️", "due tomorrow"
	default:
		urgency, deadline = "⏰", fmt.Sprintf("due in %d days", daysUntilDue)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s *Reminder: %s*\n\n", urgency, deadline)
	fmt.Fprintf(&sb, "*Title:* %s\n", todo.Title)
	fmt.Fprintf(&sb, "*Due:* %s\n", todo.DueDate.Format("January 2, 2006 15:04"))
	if todo.Description != nil && *todo.Description != "" {
		fmt.Fprintf(&sb, "*Details:* %s\n", *todo.Description)
	}
	n.appendLink(&sb)
	return sb.String()
}

func (n *Notifier) buildDigestMessage(items []notifier.DueItem) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📬 *You have %d tasks coming due*\n\n", len(items))
	for _, item := range items {
		deadline := fmt.Sprintf("in %d days", item.DaysUntilDue)
		switch item.DaysUntilDue {
		case 0:
			deadline = "today"
		case 1:
			deadline = "tomorrow"
		}
		fmt.Fprintf(&sb, "• *%s* — due %s (%s)\n",
			item.Todo.Title, deadline, item.Todo.DueDate.Format("Jan 2"))
	}
	n.appendLink(&sb)
	return sb.String()
}

func (n *Notifier) buildNewTodoMessage(todo *model.Todo) string {
	var sb strings.Builder
	sb.WriteString("📋 *A new task was assigned to you*\n\n")
	fmt.Fprintf(&sb, "*Title:* %s\n", todo.Title)
	fmt.Fprintf(&sb, "*Due:* %s\n", todo.DueDate.Format("January 2, 2006 15:04"))
	if todo.Description != nil && *todo.Description != "" {
		fmt.Fprintf(&sb, "*Details:* %s\n", *todo.Description)
	}
	n.appendLink(&sb)
	return sb.String()
}

func (n *Notifier) buildUpdatedMessage(todo *model.Todo, changes []string) string {
	var sb strings.Builder
	sb.WriteString("🔄 *A task assigned to you was updated*\n\n")
	fmt.Fprintf(&sb, "*Title:* %s\n", todo.Title)
	fmt.Fprintf(&sb, "*Due:* %s\n", todo.DueDate.Format("January 2, 2006 15:04"))
	if len(changes) > 0 {
		fmt.Fprintf(&sb, "*Changes:* %s\n", strings.Join(changes, ", "))
	}
	n.appendLink(&sb)
	return sb.String()
}

func (n *Notifier) appendLink(sb *strings.Builder) {
	if n.appURL != "" {
		fmt.Fprintf(sb, "\n→ <%s|Open the app>", n.appURL)
	}
}
