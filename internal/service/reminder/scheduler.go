package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/miutaku/nugget/internal/model"
	"github.com/miutaku/nugget/internal/notifier"
	"github.com/miutaku/nugget/pkg/logger"
	"github.com/miutaku/nugget/pkg/metrics"
)

const (
	defaultInterval        = time.Hour
	defaultDispatchTimeout = 30 * time.Second
)

// Store is the slice of the assignment store the scheduler uses.
type Store interface {
	ListOpenWithContext(ctx context.Context) ([]*model.ReminderCandidate, error)
	MarkNotified(ctx context.Context, assignmentID uuid.UUID, date time.Time) error
}

// Config holds scheduler tuning knobs.
type Config struct {
	Interval        time.Duration
	DispatchTimeout time.Duration
}

// Scheduler periodically walks open assignments and dispatches due-date
// reminders. One instance runs per deployment; ticks are strictly
// sequential and each (todo, user) pair is notified at most once per UTC
// calendar day.
type Scheduler struct {
	store    Store
	notifier notifier.Notifier
	cfg      Config
	logger   *logger.Logger
	metrics  *metrics.Metrics

	// now is swapped out by tests to pin the clock.
	now func() time.Time
}

func NewScheduler(store Store, n notifier.Notifier, cfg Config, log *logger.Logger, m *metrics.Metrics) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = defaultInterval
	}
	if cfg.DispatchTimeout <= 0 {
		cfg.DispatchTimeout = defaultDispatchTimeout
	}
	return &Scheduler{
		store:    store,
		notifier: n,
		cfg:      cfg,
		logger:   log,
		metrics:  m,
		now:      time.Now,
	}
}

// Start runs the tick loop until ctx is cancelled. A pass runs immediately
// on startup so a restart near a notification hour does not silently miss
// it, then once per interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("reminder scheduler started", "interval", s.cfg.Interval.String())

	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error(err, "reminder pass failed")
	}

	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopping")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error(err, "reminder pass failed")
			}
		}
	}
}

// RunOnce performs a single reminder pass over all open assignments.
// Failures are isolated per assignment: one broken dispatch never blocks
// the rest of the pass, and only a store-level listing failure aborts it.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	timer := prometheus.NewTimer(s.metrics.TickDuration)
	defer timer.ObserveDuration()

	now := s.now()

	candidates, err := s.store.ListOpenWithContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to list open assignments: %w", err)
	}
	s.metrics.OpenAssignments.Set(float64(len(candidates)))

	var sent, failed int
	for _, c := range candidates {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		daysUntilDue, reason := evaluate(c, now)
		if reason != "" {
			s.metrics.RemindersSkipped.WithLabelValues(reason).Inc()
			continue
		}

		if err := s.dispatch(ctx, c, daysUntilDue, now); err != nil {
			failed++
			s.metrics.RemindersFailed.Inc()
			s.logger.Error(err, "failed to send reminder",
				"todo_id", c.Todo.ID.String(),
				"user_id", c.User.ID.String(),
			)
			continue
		}
		sent++
		s.metrics.RemindersDispatched.Inc()
	}

	if sent > 0 || failed > 0 {
		s.logger.Info("reminder pass complete",
			"candidates", len(candidates),
			"sent", sent,
			"failed", failed,
		)
	}
	return nil
}

// dispatch sends one reminder and records the notification date. The mark is
// written right after the send succeeds, before the next candidate is
// considered, so a crash mid-pass cannot re-send what already went out.
func (s *Scheduler) dispatch(ctx context.Context, c *model.ReminderCandidate, daysUntilDue int, now time.Time) error {
	sendCtx, cancel := context.WithTimeout(ctx, s.cfg.DispatchTimeout)
	defer cancel()

	if err := s.notifier.SendReminder(sendCtx, &c.Todo, &c.User, daysUntilDue); err != nil {
		return err
	}

	if err := s.store.MarkNotified(ctx, c.Assignment.ID, now); err != nil {
		// The reminder is already out; surfacing the error would count the
		// send as failed. Log and accept a possible duplicate next tick.
		s.logger.Error(err, "failed to record notification date",
			"assignment_id", c.Assignment.ID.String(),
		)
	}
	return nil
}
