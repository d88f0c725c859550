package stats

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/pkg/logger"
)

type statsFakes struct {
	activeUsers      int
	groupCount       int
	todoCount        int
	totalAssignments int
	completed        int
	kinds            []model.TargetKindCount
	activity         []model.DailyActivity
	personal         *model.PersonalStats
	activitySince    time.Time
}

func (f *statsFakes) Get(ctx context.Context, id uuid.UUID) (*model.User, error) { return nil, nil }
func (f *statsFakes) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (f *statsFakes) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}
func (f *statsFakes) GetActiveUsers(ctx context.Context) ([]*model.User, error) { return nil, nil }
func (f *statsFakes) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	return nil, nil
}
func (f *statsFakes) GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error) {
	return nil, nil
}
func (f *statsFakes) ListAttributeValues(ctx context.Context, key string) ([]string, error) {
	return nil, nil
}
func (f *statsFakes) CountActive(ctx context.Context) (int, error) { return f.activeUsers, nil }

func (f *statsFakes) ListGroups(ctx context.Context) ([]*model.Group, error) { return nil, nil }
func (f *statsFakes) GetMembers(ctx context.Context, groupID uuid.UUID) ([]*model.User, error) {
	return nil, nil
}
func (f *statsFakes) Count(ctx context.Context) (int, error) { return f.groupCount, nil }

func (f *statsFakes) CountTodos(ctx context.Context) (int, error) { return f.todoCount, nil }
func (f *statsFakes) CountByTargetKind(ctx context.Context) ([]model.TargetKindCount, error) {
	return f.kinds, nil
}

func (f *statsFakes) ListOpenWithContext(ctx context.Context) ([]*model.ReminderCandidate, error) {
	return nil, nil
}
func (f *statsFakes) MarkNotified(ctx context.Context, assignmentID uuid.UUID, date time.Time) error {
	return nil
}
func (f *statsFakes) GetAssignment(ctx context.Context, todoID, userID uuid.UUID) (*model.Assignment, error) {
	return nil, nil
}
func (f *statsFakes) SetCompleted(ctx context.Context, todoID, userID uuid.UUID, completed bool, event *model.OutboxEvent) error {
	return nil
}
func (f *statsFakes) ListForUser(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error) {
	return nil, nil
}
func (f *statsFakes) ListProgress(ctx context.Context, todoID uuid.UUID) ([]model.AssignmentProgress, error) {
	return nil, nil
}
func (f *statsFakes) OpenUsers(ctx context.Context, todoID uuid.UUID) ([]*model.User, error) {
	return nil, nil
}
func (f *statsFakes) CountAll(ctx context.Context) (int, int, error) {
	return f.totalAssignments, f.completed, nil
}
func (f *statsFakes) PersonalStats(ctx context.Context, userID uuid.UUID, now time.Time) (*model.PersonalStats, error) {
	return f.personal, nil
}
func (f *statsFakes) RecentActivity(ctx context.Context, since time.Time, days int) ([]model.DailyActivity, error) {
	f.activitySince = since
	return f.activity, nil
}

// interface adapters: the single fake satisfies each repository interface
// through small wrappers where method names collide.
type userRepoFake struct{ *statsFakes }

type groupRepoFake struct{ *statsFakes }

func (g groupRepoFake) List(ctx context.Context) ([]*model.Group, error) {
	return g.ListGroups(ctx)
}
func (g groupRepoFake) Get(ctx context.Context, id uuid.UUID) (*model.Group, error) {
	return nil, nil
}

type todoRepoFake struct{ *statsFakes }

func (t todoRepoFake) Create(ctx context.Context, todo *model.Todo, assigneeIDs []uuid.UUID, event *model.OutboxEvent) error {
	return nil
}
func (t todoRepoFake) Get(ctx context.Context, id uuid.UUID) (*model.Todo, error) { return nil, nil }
func (t todoRepoFake) Update(ctx context.Context, todo *model.Todo, event *model.OutboxEvent) error {
	return nil
}
func (t todoRepoFake) Delete(ctx context.Context, id uuid.UUID, event *model.OutboxEvent) error {
	return nil
}
func (t todoRepoFake) ListByCreator(ctx context.Context, creatorID uuid.UUID) ([]*model.Todo, error) {
	return nil, nil
}
func (t todoRepoFake) Count(ctx context.Context) (int, error) { return t.CountTodos(ctx) }

type assignmentRepoFake struct{ *statsFakes }

func (a assignmentRepoFake) Get(ctx context.Context, todoID, userID uuid.UUID) (*model.Assignment, error) {
	return a.GetAssignment(ctx, todoID, userID)
}

func newTestService(f *statsFakes) *service {
	log := logger.NewLogger(&logger.Config{Level: logger.ErrorLevel, Output: io.Discard})
	svc := NewService(
		userRepoFake{f},
		groupRepoFake{f},
		todoRepoFake{f},
		assignmentRepoFake{f},
		log,
	).(*service)
	svc.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestGlobalStats(t *testing.T) {
	f := &statsFakes{
		activeUsers:      42,
		groupCount:       5,
		todoCount:        10,
		totalAssignments: 200,
		completed:        150,
		kinds: []model.TargetKindCount{
			{Kind: model.TargetAll, Count: 4},
			{Kind: model.TargetGroup, Count: 6},
		},
		activity: []model.DailyActivity{{Created: 3, Completed: 2}},
	}

	got, err := newTestService(f).Global(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 42, got.TotalUsers)
	assert.Equal(t, 5, got.TotalGroups)
	assert.Equal(t, 10, got.TotalTodos)
	assert.Equal(t, 200, got.TotalAssignments)
	assert.Equal(t, 150, got.CompletedAssignments)
	assert.InDelta(t, 0.75, got.CompletionRate, 1e-9)
	assert.Len(t, got.TargetKindBreakdown, 2)

	// The activity window starts six days before today, inclusive.
	assert.Equal(t, time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), f.activitySince)
}

func TestGlobalStatsEmptySystem(t *testing.T) {
	got, err := newTestService(&statsFakes{}).Global(context.Background())
	require.NoError(t, err)
	assert.Zero(t, got.CompletionRate)
}

func TestPersonalStats(t *testing.T) {
	f := &statsFakes{personal: &model.PersonalStats{
		TotalAssigned: 8,
		Completed:     6,
		Open:          2,
		Overdue:       1,
		DueThisWeek:   1,
	}}

	got, err := newTestService(f).Personal(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got.CompletionRate, 1e-9)
	assert.Equal(t, 1, got.Overdue)
}

func TestPersonalStatsNoAssignments(t *testing.T) {
	got, err := newTestService(&statsFakes{}).Personal(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Zero(t, got.TotalAssigned)
	assert.Zero(t, got.CompletionRate)
}
