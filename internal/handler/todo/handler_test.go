package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/model"
	todoservice "github.com/miutaku/nugget/internal/service/todo"
	apperrors "github.com/miutaku/nugget/pkg/errors"
)

type fakeService struct {
	created      *model.CreateTodoRequest
	completedSet map[uuid.UUID]bool
	err          error
}

func (f *fakeService) Create(ctx context.Context, actor *model.User, req *model.CreateTodoRequest) (*model.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = req
	todo := &model.Todo{Title: req.Title, DueDate: req.DueDate, CreatedByID: actor.ID}
	todo.ID = uuid.New()
	return todo, nil
}

func (f *fakeService) Get(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	if f.err != nil {
		return nil, f.err
	}
	todo := &model.Todo{Title: "existing"}
	todo.ID = id
	return todo, nil
}

func (f *fakeService) Update(ctx context.Context, actor *model.User, id uuid.UUID, req *model.UpdateTodoRequest) (*model.Todo, error) {
	return nil, f.err
}

func (f *fakeService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	return f.err
}

func (f *fakeService) SetCompleted(ctx context.Context, userID, todoID uuid.UUID, completed bool) error {
	if f.err != nil {
		return f.err
	}
	if f.completedSet == nil {
		f.completedSet = make(map[uuid.UUID]bool)
	}
	f.completedSet[todoID] = completed
	return nil
}

func (f *fakeService) ListMine(ctx context.Context, userID uuid.UUID, filters *model.MyTodoFilters) ([]*model.MyTodo, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*model.MyTodo{{Title: "mine"}}, nil
}

func (f *fakeService) ListCreatedProgress(ctx context.Context, creatorID uuid.UUID) ([]*model.TodoProgress, error) {
	return nil, f.err
}

func (f *fakeService) AttributeValues(ctx context.Context, key string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []string{"Engineering", "Sales"}, nil
}

var _ todoservice.Service = (*fakeService)(nil)

func setupRouter(svc todoservice.Service, actor *model.User) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler.RegisterValidations()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set("current_user", actor)
		}
		c.Next()
	})
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"), func(c *gin.Context) { c.Next() })
	return r
}

func adminActor() *model.User {
	u := &model.User{Role: model.RoleAdmin, IsActive: true}
	u.ID = uuid.New()
	return u
}

func TestCreateTodo(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, adminActor())

	body, _ := json.Marshal(gin.H{
		"title":       "Quarterly report",
		"due_date":    time.Date(2025, 7, 1, 17, 0, 0, 0, time.UTC),
		"target_kind": "all",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, "Quarterly report", svc.created.Title)
	assert.Equal(t, model.TargetAll, svc.created.TargetKind)
}

func TestCreateTodoRejectsUnknownTargetKind(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, adminActor())

	body, _ := json.Marshal(gin.H{
		"title":       "Quarterly report",
		"due_date":    time.Now(),
		"target_kind": "everyone",
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.created)
}

func TestCreateTodoRequiresAuth(t *testing.T) {
	r := setupRouter(&fakeService{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos", bytes.NewReader([]byte("{}")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCompleteTodo(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, adminActor())
	todoID := uuid.New()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos/"+todoID.String()+"/complete", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.completedSet[todoID])
}

func TestCompleteTodoInvalidID(t *testing.T) {
	r := setupRouter(&fakeService{}, adminActor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/todos/not-a-uuid/complete", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteTodoMapsServiceErrors(t *testing.T) {
	svc := &fakeService{err: apperrors.Forbidden("not the author", nil)}
	r := setupRouter(svc, adminActor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/v1/todos/"+uuid.NewString(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestListMine(t *testing.T) {
	r := setupRouter(&fakeService{}, adminActor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/my?is_completed=false", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mine")
}

func TestAttributeValuesBadKey(t *testing.T) {
	svc := &fakeService{err: apperrors.BadRequest("unknown attribute key", nil)}
	r := setupRouter(svc, adminActor())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/todos/attribute-values?key=salary", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
