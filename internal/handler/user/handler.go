package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/repository"
)

// Handler exposes the read-only directory views. Users and groups are
// provisioned via SCIM out of band, so there are no write endpoints.
type Handler struct {
	users  repository.UserRepository
	groups repository.GroupRepository
}

func NewHandler(users repository.UserRepository, groups repository.GroupRepository) *Handler {
	return &Handler{users: users, groups: groups}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	users := r.Group("/users", admin)
	{
		users.GET("", h.ListUsers)
		users.GET("/:id", h.GetUser)
	}

	groups := r.Group("/groups", admin)
	{
		groups.GET("", h.ListGroups)
		groups.GET("/:id/members", h.ListGroupMembers)
	}
}

func (h *Handler) ListUsers(c *gin.Context) {
	var filters model.UserFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	users, err := h.users.List(c.Request.Context(), &filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list users"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(users))
}

func (h *Handler) GetUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid user ID"))
		return
	}

	user, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to get user"))
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("user not found"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

func (h *Handler) ListGroups(c *gin.Context) {
	groups, err := h.groups.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list groups"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(groups))
}

func (h *Handler) ListGroupMembers(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid group ID"))
		return
	}

	members, err := h.groups.GetMembers(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to list group members"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(members))
}
