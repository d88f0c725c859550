package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/pkg/auth"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) List(ctx context.Context, filters *model.UserFilters) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetActiveUsers(ctx context.Context) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) GetByAttribute(ctx context.Context, key, value string) ([]*model.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ListAttributeValues(ctx context.Context, column string) ([]string, error) {
	return nil, nil
}

func (f *fakeUserRepo) CountActive(ctx context.Context) (int, error) {
	return 0, nil
}

func setupAuthRouter(t *testing.T, user *model.User) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := auth.NewJWTService("test-secret", time.Hour)
	repo := &fakeUserRepo{users: map[uuid.UUID]*model.User{}}

	var token string
	if user != nil {
		repo.users[user.ID] = user
		var err error
		token, err = jwtService.GenerateToken(user.ID, user.Email, user.Role)
		require.NoError(t, err)
	}

	mw := NewAuthMiddleware(jwtService, repo)
	r := gin.New()
	r.GET("/protected", mw.Authenticate(), func(c *gin.Context) {
		current, ok := CurrentUser(c)
		require.True(t, ok)
		c.String(http.StatusOK, current.Email)
	})
	r.GET("/admin", mw.Authenticate(), mw.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r, token
}

func activeUser(role string) *model.User {
	u := &model.User{Email: "taro@example.com", Role: role, IsActive: true}
	u.ID = uuid.New()
	return u
}

func TestAuthenticateValidToken(t *testing.T) {
	r, token := setupAuthRouter(t, activeUser(model.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "taro@example.com", w.Body.String())
}

func TestAuthenticateMissingHeader(t *testing.T) {
	r, _ := setupAuthRouter(t, activeUser(model.RoleUser))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	r, token := setupAuthRouter(t, activeUser(model.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthenticateRejectsDeactivatedUser(t *testing.T) {
	user := activeUser(model.RoleUser)
	user.IsActive = false
	r, token := setupAuthRouter(t, user)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, token := setupAuthRouter(t, activeUser(model.RoleUser))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAdminAllowsAdmin(t *testing.T) {
	r, token := setupAuthRouter(t, activeUser(model.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
