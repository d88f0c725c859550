package notifier

import (
	"context"

	"github.com/miutaku/nugget/internal/model"
)

// DueItem pairs a todo with its distance from the due date at send time.
type DueItem struct {
	Todo         *model.Todo
	DaysUntilDue int
}

// Notifier delivers task notifications to a single user. Implementations
// must be safe for concurrent use; the scheduler and the todo service share
// one instance.
type Notifier interface {
	// SendReminder delivers a due-date reminder for one todo.
	SendReminder(ctx context.Context, todo *model.Todo, user *model.User, daysUntilDue int) error

	// SendDigest delivers one message covering several due todos at once.
	SendDigest(ctx context.Context, user *model.User, items []DueItem) error

	// SendNewTodo announces a freshly assigned todo.
	SendNewTodo(ctx context.Context, todo *model.Todo, user *model.User) error

	// SendTodoUpdated announces changes to an assigned todo. changes holds
	// human-readable descriptions of what changed.
	SendTodoUpdated(ctx context.Context, todo *model.Todo, user *model.User, changes []string) error

	// SendTodoDeleted announces that an assigned todo was removed.
	SendTodoDeleted(ctx context.Context, title string, user *model.User) error
}
