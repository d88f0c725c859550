package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/internal/repository"
	apperrors "github.com/miutaku/nugget/pkg/errors"
	"github.com/miutaku/nugget/pkg/logger"
)

// myTodoCacheTTL bounds staleness of the per-user listing between
// invalidations from other instances.
const myTodoCacheTTL = 2 * time.Minute

// Resolver turns a target spec into the concrete recipients.
type Resolver interface {
	Resolve(ctx context.Context, spec model.TargetSpec) ([]*model.User, error)
}

// Service manages the todo lifecycle: creation with target resolution,
// updates with change notices, completion tracking and the per-user listing.
type Service interface {
	Create(ctx context.Context, actor *model.User, req *model.CreateTodoRequest) (*model.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	Update(ctx context.Context, actor *model.User, id uuid.UUID, req *model.UpdateTodoRequest) (*model.Todo, error)
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	SetCompleted(ctx context.Context, userID, todoID uuid.UUID, completed bool) error
	ListMine(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error)
	ListCreatedProgress(ctx context.Context, creatorID uuid.UUID) ([]*model.TodoProgress, error)
	AttributeValues(ctx context.Context, key string) ([]string, error)
}

type service struct {
	todos       repository.TodoRepository
	assignments repository.AssignmentRepository
	users       repository.UserRepository
	resolver    Resolver
	notifier    notifier.Notifier
	cache       *gocache.Cache
	logger      *logger.Logger
}

func NewService(
	todos repository.TodoRepository,
	assignments repository.AssignmentRepository,
	users repository.UserRepository,
	resolver Resolver,
	n notifier.Notifier,
	log *logger.Logger,
) Service {
	return &service{
		todos:       todos,
		assignments: assignments,
		users:       users,
		resolver:    resolver,
		notifier:    n,
		cache:       gocache.New(myTodoCacheTTL, 10*time.Minute),
		logger:      log,
	}
}

func myTodoCacheKey(userID uuid.UUID) string {
	return "user-todos:" + userID.String()
}

func (s *service) Create(ctx context.Context, actor *model.User, req *model.CreateTodoRequest) (*model.Todo, error) {
	todo := &model.Todo{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		CreatedByID: actor.ID,
		// Immediate notification is opt-out.
		NotifyImmediately: req.NotifyImmediately == nil || *req.NotifyImmediately,
		ReminderDays:      model.DefaultReminderDays,
	}
	if req.ReminderDays != nil {
		todo.ReminderDays = model.DayList(req.ReminderDays).Normalize()
	}
	todo.SetTarget(req.TargetSpec())

	targets, err := s.resolver.Resolve(ctx, todo.Target())
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	assigneeIDs := make([]uuid.UUID, len(targets))
	for i, u := range targets {
		assigneeIDs[i] = u.ID
	}

	event, err := model.NewTodoEvent(model.EventTodoCreated, model.TodoEventPayload{
		Title:   todo.Title,
		ActorID: actor.ID,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.todos.Create(ctx, todo, assigneeIDs, event); err != nil {
		return nil, apperrors.Internal(err)
	}

	for _, u := range targets {
		s.cache.Delete(myTodoCacheKey(u.ID))
	}

	s.logger.Info("created todo",
		"todo_id", todo.ID.String(),
		"title", todo.Title,
		"target_users", len(targets),
	)

	if todo.NotifyImmediately {
		s.notifyAll(ctx, targets, func(u *model.User) error {
			return s.notifier.SendNewTodo(ctx, todo, u)
		})
	}

	return todo, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	todo, err := s.todos.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if todo == nil {
		return nil, apperrors.NotFound("todo", nil)
	}
	return todo, nil
}

func (s *service) Update(ctx context.Context, actor *model.User, id uuid.UUID, req *model.UpdateTodoRequest) (*model.Todo, error) {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(actor, todo, "update"); err != nil {
		return nil, err
	}

	var changes []string

	if req.Title != nil && *req.Title != "" && *req.Title != todo.Title {
		todo.Title = *req.Title
		changes = append(changes, "title")
	}
	if req.Description != nil && (todo.Description == nil || *req.Description != *todo.Description) {
		todo.Description = req.Description
		changes = append(changes, "description")
	}
	if req.DueDate != nil && !req.DueDate.Equal(todo.DueDate) {
		old := todo.DueDate
		todo.DueDate = *req.DueDate
		changes = append(changes, fmt.Sprintf("due date (%s → %s)",
			old.Format("2006/01/02"), todo.DueDate.Format("2006/01/02")))
	}
	if req.NotifyImmediately != nil {
		todo.NotifyImmediately = *req.NotifyImmediately
	}
	if req.ReminderDays != nil {
		todo.ReminderDays = model.DayList(req.ReminderDays).Normalize()
	}

	event, err := model.NewTodoEvent(model.EventTodoUpdated, model.TodoEventPayload{
		TodoID:  todo.ID,
		Title:   todo.Title,
		ActorID: actor.ID,
	})
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if err := s.todos.Update(ctx, todo, event); err != nil {
		return nil, apperrors.Internal(err)
	}

	s.logger.Info("updated todo", "todo_id", todo.ID.String(), "changes", changes)

	// Notices go to users still holding open assignments; completed ones
	// have nothing left to act on.
	if len(changes) > 0 {
		openUsers, err := s.assignments.OpenUsers(ctx, todo.ID)
		if err != nil {
			s.logger.Error(err, "failed to list open assignees for update notice", "todo_id", todo.ID.String())
		} else {
			s.notifyAll(ctx, openUsers, func(u *model.User) error {
				return s.notifier.SendTodoUpdated(ctx, todo, u, changes)
			})
		}
	}

	return todo, nil
}

func (s *service) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	todo, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.authorize(actor, todo, "delete"); err != nil {
		return err
	}

	openUsers, err := s.assignments.OpenUsers(ctx, todo.ID)
	if err != nil {
		s.logger.Error(err, "failed to list open assignees for delete notice", "todo_id", todo.ID.String())
	}

	event, err := model.NewTodoEvent(model.EventTodoDeleted, model.TodoEventPayload{
		TodoID:  todo.ID,
		Title:   todo.Title,
		ActorID: actor.ID,
	})
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.todos.Delete(ctx, id, event); err != nil {
		return apperrors.Internal(err)
	}

	for _, u := range openUsers {
		s.cache.Delete(myTodoCacheKey(u.ID))
	}
	s.notifyAll(ctx, openUsers, func(u *model.User) error {
		return s.notifier.SendTodoDeleted(ctx, todo.Title, u)
	})

	s.logger.Info("deleted todo", "todo_id", id.String(), "deleted_by", actor.ID.String())
	return nil
}

func (s *service) SetCompleted(ctx context.Context, userID, todoID uuid.UUID, completed bool) error {
	assignment, err := s.assignments.Get(ctx, todoID, userID)
	if err != nil {
		return apperrors.Internal(err)
	}
	if assignment == nil {
		return apperrors.NotFound("assignment", nil)
	}

	eventType := model.EventTodoCompleted
	if !completed {
		eventType = model.EventTodoUncompleted
	}
	event, err := model.NewTodoEvent(eventType, model.TodoEventPayload{
		TodoID:  todoID,
		ActorID: userID,
		UserID:  &userID,
	})
	if err != nil {
		return apperrors.Internal(err)
	}

	if err := s.assignments.SetCompleted(ctx, todoID, userID, completed, event); err != nil {
		return apperrors.Internal(err)
	}

	s.cache.Delete(myTodoCacheKey(userID))
	s.logger.Info("set assignment completion",
		"todo_id", todoID.String(),
		"user_id", userID.String(),
		"completed", completed,
	)
	return nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error) {
	// Only the unfiltered listing is cached; filtered views are cheap and
	// too varied to be worth keying.
	cacheable := filters == nil || (filters.IsCompleted == nil && filters.SearchTerm == "" && filters.SortBy == "")
	if cacheable {
		if cached, ok := s.cache.Get(myTodoCacheKey(userID)); ok {
			return cached.([]*model.MyTodo), nil
		}
	}

	todos, err := s.assignments.ListForUser(ctx, userID, filters)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	if cacheable {
		s.cache.Set(myTodoCacheKey(userID), todos, myTodoCacheTTL)
	}
	return todos, nil
}

func (s *service) ListCreatedProgress(ctx context.Context, creatorID uuid.UUID) ([]*model.TodoProgress, error) {
	todos, err := s.todos.ListByCreator(ctx, creatorID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	progress := make([]*model.TodoProgress, 0, len(todos))
	for _, t := range todos {
		assignments, err := s.assignments.ListProgress(ctx, t.ID)
		if err != nil {
			return nil, apperrors.Internal(err)
		}

		completed := 0
		for _, a := range assignments {
			if a.IsCompleted {
				completed++
			}
		}
		progress = append(progress, &model.TodoProgress{
			TodoID:         t.ID,
			Title:          t.Title,
			DueDate:        t.DueDate,
			TotalAssigned:  len(assignments),
			CompletedCount: completed,
			Assignments:    assignments,
		})
	}
	return progress, nil
}

func (s *service) AttributeValues(ctx context.Context, key string) ([]string, error) {
	if _, ok := model.AttributeColumn(key); !ok {
		return nil, apperrors.BadRequest(fmt.Sprintf("unknown attribute key %q", key), nil)
	}
	values, err := s.users.ListAttributeValues(ctx, key)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return values, nil
}

func (s *service) authorize(actor *model.User, todo *model.Todo, action string) error {
	if actor.IsAdmin() || todo.CreatedByID == actor.ID {
		return nil
	}
	return apperrors.Forbidden(fmt.Sprintf("not allowed to %s this todo", action), nil)
}

// notifyAll delivers a notice to each user, isolating failures: a broken
// channel for one user must not hide the notice from the rest.
func (s *service) notifyAll(ctx context.Context, users []*model.User, send func(*model.User) error) {
	for _, u := range users {
		if err := send(u); err != nil {
			s.logger.Error(err, "failed to send notification", "user_id", u.ID.String())
		}
	}
}
