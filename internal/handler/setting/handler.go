package setting

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/middleware"
	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/service/setting"
)

type Handler struct {
	service setting.Service
}

func NewHandler(service setting.Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the notification settings endpoints. writeLimit
// throttles the upsert per user.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, writeLimit gin.HandlerFunc) {
	settings := r.Group("/notification-settings")
	{
		settings.GET("", h.Get)
		settings.PUT("", writeLimit, h.Update)
	}
}

func (h *Handler) Get(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	effective, err := h.service.Get(c.Request.Context(), user.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(effective))
}

func (h *Handler) Update(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	var req model.UpdateNotificationSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	effective, err := h.service.Update(c.Request.Context(), user.ID, &req)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(effective))
}
