package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/miutaku/nugget/internal/handler"
	"github.com/miutaku/nugget/internal/middleware"
)

// Handler exposes session introspection. Tokens themselves are minted by the
// SSO gateway after the SAML handshake; the API only verifies them.
type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.GET("/me", h.Me)
		auth.GET("/check", h.Check)
	}
}

// Me returns the authenticated user's profile.
func (h *Handler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(user))
}

// Check is a lightweight token validity probe for the web frontend.
func (h *Handler) Check(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("authentication required"))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"authenticated": true,
		"role":          user.Role,
	}))
}
