package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miutaku/nugget/config"
	authhandler "github.com/miutaku/nugget/internal/handler/auth"
	"github.com/miutaku/nugget/internal/handler/health"
	settinghandler "github.com/miutaku/nugget/internal/handler/setting"
	statshandler "github.com/miutaku/nugget/internal/handler/stats"
	todohandler "github.com/miutaku/nugget/internal/handler/todo"
	userhandler "github.com/miutaku/nugget/internal/handler/user"
	"github.com/miutaku/nugget/internal/middleware"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/internal/notifier/email"
	"github.com/miutaku/nugget/internal/notifier/slack"
	"github.com/miutaku/nugget/internal/repository/postgres"
	"github.com/miutaku/nugget/internal/router"
	settingservice "github.com/miutaku/nugget/internal/service/setting"
	statsservice "github.com/miutaku/nugget/internal/service/stats"
	"github.com/miutaku/nugget/internal/service/targeting"
	todoservice "github.com/miutaku/nugget/internal/service/todo"
	"github.com/miutaku/nugget/pkg/auth"
	"github.com/miutaku/nugget/pkg/logger"
)

func main() {
	log := logger.NewLogger(&logger.Config{
		Level:      logger.InfoLevel,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
	})

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database.ToRepositoryConfig())
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	userRepo := postgres.NewUserRepository(base)
	groupRepo := postgres.NewGroupRepository(base)
	todoRepo := postgres.NewTodoRepository(base)
	assignmentRepo := postgres.NewAssignmentRepository(base)
	settingRepo := postgres.NewSettingRepository(base)

	slackNotifier := slack.NewNotifier(slack.Config{
		BotToken: cfg.Slack.BotToken,
		AppURL:   cfg.Slack.AppURL,
	}, log)
	emailNotifier := email.NewNotifier(email.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		AppURL:   cfg.Slack.AppURL,
	}, log)
	notify := notifier.NewWithFallback(slackNotifier, emailNotifier)

	resolver := targeting.NewResolver(userRepo, groupRepo, log)
	todoSvc := todoservice.NewService(todoRepo, assignmentRepo, userRepo, resolver, notify, log)
	settingSvc := settingservice.NewService(settingRepo, log)
	statsSvc := statsservice.NewService(userRepo, groupRepo, todoRepo, assignmentRepo, log)

	jwtService := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	authMW := middleware.NewAuthMiddleware(jwtService, userRepo)

	engine := router.New(authMW, router.Handlers{
		Health:  health.NewHandler(db),
		Auth:    authhandler.NewHandler(),
		Todo:    todohandler.NewHandler(todoSvc),
		User:    userhandler.NewHandler(userRepo, groupRepo),
		Setting: settinghandler.NewHandler(settingSvc),
		Stats:   statshandler.NewHandler(statsSvc),
	}, router.Config{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		Burst:             cfg.RateLimit.Burst,
		SettingsPerMinute: cfg.RateLimit.SettingsPerMinute,
		SettingsBurst:     cfg.RateLimit.SettingsBurst,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		log.Info("starting API server", "port", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err, "server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error(err, "forced shutdown")
	}
}
