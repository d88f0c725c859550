package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/miutaku/nugget/config"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/internal/notifier/email"
	"github.com/miutaku/nugget/internal/notifier/slack"
	"github.com/miutaku/nugget/internal/repository/postgres"
	"github.com/miutaku/nugget/internal/service/reminder"
	"github.com/miutaku/nugget/pkg/logger"
	"github.com/miutaku/nugget/pkg/messaging/redis"
	"github.com/miutaku/nugget/pkg/metrics"
	"github.com/miutaku/nugget/pkg/worker"
)

func main() {
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	log := logger.FromZerolog(zl)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err, "failed to load config")
	}

	db, err := postgres.NewDB(cfg.Database.ToRepositoryConfig())
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &zl)
	if err != nil {
		log.Fatal(err, "failed to connect to redis")
	}
	defer broker.Close()

	base := postgres.NewBaseRepository(db)
	assignmentRepo := postgres.NewAssignmentRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

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

	m := metrics.New("nugget_worker")

	scheduler := reminder.NewScheduler(assignmentRepo, notify, reminder.Config{
		Interval:        cfg.Scheduler.Interval,
		DispatchTimeout: cfg.Scheduler.DispatchTimeout,
	}, log, m)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), log, m)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutdown signal received")
		cancel()
	}()

	// Health endpoint so orchestrators can probe the worker.
	healthServer := &http.Server{
		Addr: ":8081",
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				http.NotFound(w, r)
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("ok"))
		}),
	}
	go func() {
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(err, "health server failed")
		}
	}()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		scheduler.Start(ctx)
	}()
	go func() {
		defer wg.Done()
		processor.Start(ctx)
	}()

	log.Info("worker started")
	wg.Wait()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "health server shutdown failed")
	}
	log.Info("worker stopped")
}
