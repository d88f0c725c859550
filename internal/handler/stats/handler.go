package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/middleware"
	"github.com/miutaku/nugget/internal/service/stats"
)

type Handler struct {
	service stats.Service
}

func NewHandler(service stats.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup, admin gin.HandlerFunc) {
	group := r.Group("/stats")
	{
		group.GET("/me", h.Personal)
		group.GET("/global", admin, h.Global)
	}
}

func (h *Handler) Global(c *gin.Context) {
	global, err := h.service.Global(c.Request.Context())
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(global))
}

func (h *Handler) Personal(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}

	personal, err := h.service.Personal(c.Request.Context(), user.ID)
	if err != nil {
		handler.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(personal))
}
