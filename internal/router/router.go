package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/miutaku/nugget/internal/handler"
	authhandler "github.com/miutaku/nugget/internal/handler/auth"
	"github.com/miutaku/nugget/internal/handler/health"
	settinghandler "github.com/miutaku/nugget/internal/handler/setting"
	statshandler "github.com/miutaku/nugget/internal/handler/stats"
	todohandler "github.com/miutaku/nugget/internal/handler/todo"
	userhandler "github.com/miutaku/nugget/internal/handler/user"
	"github.com/miutaku/nugget/internal/middleware"
)

type Config struct {
	// RequestsPerSecond and Burst cap throughput across all callers.
	RequestsPerSecond float64
	Burst             int
	// SettingsPerMinute and SettingsBurst throttle settings writes per user.
	SettingsPerMinute float64
	SettingsBurst     int
}

type Handlers struct {
	Health  *health.Handler
	Auth    *authhandler.Handler
	Todo    *todohandler.Handler
	User    *userhandler.Handler
	Setting *settinghandler.Handler
	Stats   *statshandler.Handler
}

// New assembles the HTTP surface: global middleware, unauthenticated health
// and metrics endpoints, and the authenticated /api/v1 group.
func New(auth *middleware.AuthMiddleware, h Handlers, cfg Config) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	handler.RegisterValidations()
	engine := gin.New()

	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.RequestsPerSecond),
		Burst: cfg.Burst,
	})

	engine.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		rateLimiter.RateLimit(),
	)

	h.Health.RegisterRoutes(engine)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.Use(auth.Authenticate())

	admin := auth.RequireAdmin()
	settingsWriteLimit := middleware.NewPerUserRateLimiter(middleware.RateLimiterConfig{
		Rate:  rate.Limit(cfg.SettingsPerMinute / 60),
		Burst: cfg.SettingsBurst,
	})

	h.Auth.RegisterRoutes(api)
	h.Todo.RegisterRoutes(api, admin)
	h.User.RegisterRoutes(api, admin)
	h.Setting.RegisterRoutes(api, settingsWriteLimit.RateLimit())
	h.Stats.RegisterRoutes(api, admin)

	return engine
}
