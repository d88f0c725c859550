package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
)

// All repository interfaces in one file
type (
	// UserRepository reads the SCIM-synced directory. The application never
	// creates or mutates users; provisioning happens out of band.
	UserRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error)
		GetActiveUsers(ctx context.Context) ([]*model.User, error)
		GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error)
		GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error)
		ListAttributeValues(ctx context.Context, key string) ([]string, error)
		CountActive(ctx context.Context) (int, error)
	}

	// GroupRepository reads SCIM-synced groups and their membership.
	GroupRepository interface {
		List(ctx context.Context) ([]*model.Group, error)
		Get(ctx context.Context, id uuid.UUID) (*model.Group, error)
		GetMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error)
		Count(ctx context.Context) (int, error)
	}

	TodoRepository interface {
		// Create inserts the todo, one assignment per assignee and the
		// lifecycle event in a single transaction.
		Create(ctx context.Context, todo *model.Todo, assigneeIDs []uuid.UUID, event *model.OutboxEvent) error
		Get(ctx context.Context, id uuid.UUID) (*model.Todo, error)
		Update(ctx context.Context, todo *model.Todo, event *model.OutboxEvent) error
		// Delete removes the todo and all its assignments atomically.
		Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error
		ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*model.Todo, error)
		Count(ctx context.Context) (int, error)
		CountByTargetKind(ctx context.Context) ([]model.TargetKindCount, error)
	}

	AssignmentRepository interface {
		// ListOpenWithContext returns every open assignment joined with its
		// todo, user and the user's stored notification setting (nil when
		// absent). This is the scheduler's read pass.
		ListOpenWithContext(ctx context.Context) ([]*model.ReminderCandidate, error)
		// MarkNotified records that a reminder went out on the given UTC date.
		MarkNotified(ctx context.Context, assignmentID uuid.UUID, date time.Time) error
		Get(ctx context.Context, todoID, userID uuid.UUID) (*model.Assignment, error)
		SetCompleted(ctx context.Context, todoID, userID uuid.UUID, completed bool, event *model.OutboxEvent) error
		ListForUser(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error)
		ListProgress(ctx context.Context, todoID uuid.UUID) ([]model.AssignmentProgress, error)
		// OpenUsers returns the users holding open assignments on a todo,
		// used for update and delete notices.
		OpenUsers(ctx context.Context, todoID uuid.UUID) ([]*model.User, error)
		CountAll(ctx context.Context) (total int, completed int, err error)
		PersonalStats(ctx context.Context, userID uuid.UUID, now time.Time) (*model.PersonalStats, error)
		RecentActivity(ctx context.Context, since time.Time, days int) ([]model.DailyActivity, error)
	}

	SettingRepository interface {
		// GetByUserID returns (nil, nil) when the user never stored a setting.
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.NotificationSetting, error)
		Upsert(ctx context.Context, setting *model.NotificationSetting) error
	}

	OutboxRepository interface {
		Create(ctx context.Context, event *model.OutboxEvent) error
		GetPendingEvents(ctx context.Context, limit int) ([]*model.OutboxEvent, error)
		MarkProcessed(ctx context.Context, id uuid.UUID) error
		MarkFailed(ctx context.Context, id uuid.UUID, errorMessage string, retryAt *time.Time) error
		DeleteProcessedBefore(ctx context.Context, before time.Time) (int64, error)
	}
)
