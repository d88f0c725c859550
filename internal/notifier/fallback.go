package notifier

import (
	"context"
	"errors"

	"github.com/miutaku/nugget/internal/model"
)

// ErrNoChannel reports a primary channel that cannot reach the user at all,
// as opposed to a transient delivery failure. Primary notifiers return it
// (wrapped) to trigger the fallback.
var ErrNoChannel = errors.New("no delivery channel for user")

// WithFallback chains two notifiers: every send goes to primary first, and
// only an ErrNoChannel failure falls through to secondary. Transient primary
// failures are returned as-is so the scheduler retries the same channel on a
// later tick instead of silently switching.
type WithFallback struct {
	primary   Notifier
	secondary Notifier
}

func NewWithFallback(primary, secondary Notifier) *WithFallback {
	return &WithFallback{primary: primary, secondary: secondary}
}

func (f *WithFallback) SendReminder(ctx context.Context, todo *model.Todo, user *model.User, daysUntilDue int) error {
	err := f.primary.SendReminder(ctx, todo, user, daysUntilDue)
	if f.shouldFallBack(err) {
		return f.secondary.SendReminder(ctx, todo, user, daysUntilDue)
	}
	return err
}

func (f *WithFallback) SendDigest(ctx context.Context, user *model.User, items []DueItem) error {
	err := f.primary.SendDigest(ctx, user, items)
	if f.shouldFallBack(err) {
		return f.secondary.SendDigest(ctx, user, items)
	}
	return err
}

func (f *WithFallback) SendNewTodo(ctx context.Context, todo *model.Todo, user *model.User) error {
	err := f.primary.SendNewTodo(ctx, todo, user)
	if f.shouldFallBack(err) {
		return f.secondary.SendNewTodo(ctx, todo, user)
	}
	return err
}

func (f *WithFallback) SendTodoUpdated(ctx context.Context, todo *model.Todo, user *model.User, changes []string) error {
	err := f.primary.SendTodoUpdated(ctx, todo, user, changes)
	if f.shouldFallBack(err) {
		return f.secondary.SendTodoUpdated(ctx, todo, user, changes)
	}
	return err
}

func (f *WithFallback) SendTodoDeleted(ctx context.Context, title string, user *model.User) error {
	err := f.primary.SendTodoDeleted(ctx, title, user)
	if f.shouldFallBack(err) {
		return f.secondary.SendTodoDeleted(ctx, title, user)
	}
	return err
}

func (f *WithFallback) shouldFallBack(err error) bool {
	return err != nil && errors.Is(err, ErrNoChannel) && f.secondary != nil
}
