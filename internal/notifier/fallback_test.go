package notifier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miutaku/nugget/internal/model"
)

type recordingNotifier struct {
	err   error
	calls int
}

func (r *recordingNotifier) SendReminder(ctx context.Context, todo *model.Todo, user *model.User, daysUntilDue int) error {
	r.calls++
	return r.err
}

func (r *recordingNotifier) SendDigest(ctx context.Context, user *model.User, items []DueItem) error {
	r.calls++
	return r.err
}

func (r *recordingNotifier) SendNewTodo(ctx context.Context, todo *model.Todo, user *model.User) error {
	r.calls++
	return r.err
}

func (r *recordingNotifier) SendTodoUpdated(ctx context.Context, todo *model.Todo, user *model.User, changes []string) error {
	r.calls++
	return r.err
}

func (r *recordingNotifier) SendTodoDeleted(ctx context.Context, title string, user *model.User) error {
	r.calls++
	return r.err
}

func TestFallbackPrimarySucceeds(t *testing.T) {
	primary := &recordingNotifier{}
	secondary := &recordingNotifier{}
	n := NewWithFallback(primary, secondary)

	require.NoError(t, n.SendReminder(context.Background(), &model.Todo{}, &model.User{}, 1))
	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, secondary.calls)
}

func TestFallbackOnMissingChannel(t *testing.T) {
	primary := &recordingNotifier{err: fmt.Errorf("user U1: %w", ErrNoChannel)}
	secondary := &recordingNotifier{}
	n := NewWithFallback(primary, secondary)

	require.NoError(t, n.SendReminder(context.Background(), &model.Todo{}, &model.User{}, 1))
	assert.Equal(t, 1, secondary.calls)
}

func TestFallbackSkippedOnTransientError(t *testing.T) {
	transient := errors.New("rate_limited")
	primary := &recordingNotifier{err: transient}
	secondary := &recordingNotifier{}
	n := NewWithFallback(primary, secondary)

	err := n.SendReminder(context.Background(), &model.Todo{}, &model.User{}, 1)
	require.ErrorIs(t, err, transient)
	assert.Zero(t, secondary.calls)
}

func TestFallbackWithoutSecondary(t *testing.T) {
	primary := &recordingNotifier{err: fmt.Errorf("user U1: %w", ErrNoChannel)}
	n := NewWithFallback(primary, nil)

	err := n.SendNewTodo(context.Background(), &model.Todo{}, &model.User{})
	require.ErrorIs(t, err, ErrNoChannel)
}
