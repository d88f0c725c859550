package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment is the per-user instance of a todo. At most one row per
// (todo, user) pair. LastNotifiedAt carries date granularity: it is the
// at-most-once-per-calendar-day dedup key and only the reminder scheduler
// writes it.
type Assignment struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	TodoID         uuid.UUID  `json:"todo_id" db:"todo_id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	IsCompleted    bool       `json:"is_completed" db:"is_completed"`
	CompletedAt    *time.Time `json:"completed_at" db:"completed_at"`
	LastNotifiedAt *time.Time `json:"last_notified_at" db:"last_notified_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}

// NotifiedOn reports whether the assignment was already notified on the UTC
// calendar date of day.
func (a *Assignment) NotifiedOn(day time.Time) bool {
	return a.LastNotifiedAt != nil && SameUTCDate(*a.LastNotifiedAt, day)
}

// ReminderCandidate is one open assignment joined with the context the
// scheduler needs to decide on it. Setting is nil when the user never stored
// a preference.
type ReminderCandidate struct {
	Assignment Assignment
	Todo       Todo
	User       User
	Setting    *NotificationSetting
}
