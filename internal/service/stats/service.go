package stats

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
	apperrors "github.com/miutaku/nugget/pkg/errors"
	"github.com/miutaku/nugget/pkg/logger"
)

// recentActivityDays is the window of the admin dashboard activity series.
const recentActivityDays = 7

// Service aggregates dashboard statistics.
type Service interface {
	Global(ctx context.Context) (*model.GlobalStats, error)
	Personal(ctx context.Context, userID uuid.UUID) (*model.PersonalStats, error)
}

type service struct {
	users       repository.UserRepository
	groups      repository.GroupRepository
	todos       repository.TodoRepository
	assignments repository.AssignmentRepository
	logger      *logger.Logger

	now func() time.Time
}

func NewService(
	users repository.UserRepository,
	groups repository.GroupRepository,
	todos repository.TodoRepository,
	assignments repository.AssignmentRepository,
	log *logger.Logger,
) Service {
	return &service{
		users:       users,
		groups:      groups,
		todos:       todos,
		assignments: assignments,
		logger:      log,
		now:         time.Now,
	}
}

func (s *service) Global(ctx context.Context) (*model.GlobalStats, error) {
	stats := &model.GlobalStats{}

	var err error
	if stats.TotalUsers, err = s.users.CountActive(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}
	if stats.TotalGroups, err = s.groups.Count(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}
	if stats.TotalTodos, err = s.todos.Count(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}
	if stats.TotalAssignments, stats.CompletedAssignments, err = s.assignments.CountAll(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}
	if stats.TotalAssignments > 0 {
		stats.CompletionRate = float64(stats.CompletedAssignments) / float64(stats.TotalAssignments)
	}

	if stats.TargetKindBreakdown, err = s.todos.CountByTargetKind(ctx); err != nil {
		return nil, apperrors.Internal(err)
	}

	since := model.UTCDate(s.now()).AddDate(0, 0, -(recentActivityDays - 1))
	if stats.RecentActivity, err = s.assignments.RecentActivity(ctx, since, recentActivityDays); err != nil {
		return nil, apperrors.Internal(err)
	}

	return stats, nil
}

func (s *service) Personal(ctx context.Context, userID uuid.UUID) (*model.PersonalStats, error) {
	stats, err := s.assignments.PersonalStats(ctx, userID, s.now())
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if stats == nil {
		stats = &model.PersonalStats{}
	}
	if stats.TotalAssigned > 0 {
		stats.CompletionRate = float64(stats.Completed) / float64(stats.TotalAssigned)
	}
	return stats, nil
}
