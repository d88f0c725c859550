package todo

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/middleware"
	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/service/todo"
)

type Handler struct {
	service todo.Service
}

func NewHandler(service todo.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the todo endpoints. admin gates routes that only
// todo authors use.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	todos := r.Group("/todos")
	{
		todos.GET("/my", h.ListMine)
		todos.POST("/:id/complete", h.Complete)
		todos.POST("/:id/uncomplete", h.Uncomplete)

		todos.POST("", admin, h.Create)
		todos.GET("/created", admin, h.ListCreatedProgress)
		todos.GET("/attribute-values", admin, h.AttributeValues)
		todos.GET("/:id", admin, h.Get)
		todos.PUT("/:id", admin, h.Update)
		todos.DELETE("/:id", admin, h.Delete)
	}
}

func (h *Handler) Create(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	created, err := h.service.Create(c.Request.Context(), actor, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(created))
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid todo ID"))
		return
	}

	found, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(found))
}

func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid todo ID"))
		return
	}

	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	updated, err := h.service.Update(c.Request.Context(), actor, id, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(updated))
}

func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid todo ID"))
		return
	}

	if err := h.service.Delete(c.Request.Context(), actor, id); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListMine(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var filters model.MyTodoFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	todos, err := h.service.ListMine(c.Request.Context(), user.ID, &filters)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(todos))
}

func (h *Handler) ListCreatedProgress(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	progress, err := h.service.ListCreatedProgress(c.Request.Context(), user.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(progress))
}

func (h *Handler) Complete(c *gin.Context) {
	h.setCompleted(c, true)
}

func (h *Handler) Uncomplete(c *gin.Context) {
	h.setCompleted(c, false)
}

func (h *Handler) setCompleted(c *gin.Context, completed bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	todoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid todo ID"))
		return
	}

	if err := h.service.SetCompleted(c.Request.Context(), user.ID, todoID, completed); err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"is_completed": completed}))
}

func (h *Handler) AttributeValues(c *gin.Context) {
	key := c.Query("key")
	values, err := h.service.AttributeValues(c.Request.Context(), key)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"key":    key,
		"values": values,
	}))
}
