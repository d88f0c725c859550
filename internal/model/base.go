package model

import (
	"time"

	"github.com/google/uuid"
)

// Base contains common fields for all models
type Base struct {
	ID        uuid.UUID `json:"id" db:"id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UTCDate truncates t to its calendar date in UTC. All day arithmetic in the
// reminder path goes through this so near-midnight ticks cannot double-send.
func UTCDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysUntil returns the whole number of calendar days from now until due,
// both taken as UTC dates. Negative when due is in the past.
func DaysUntil(due, now time.Time) int {
	return int(UTCDate(due).Sub(UTCDate(now)).Hours() / 24)
}

// SameUTCDate reports whether a and b fall on the same UTC calendar date.
func SameUTCDate(a, b time.Time) bool {
	return UTCDate(a).Equal(UTCDate(b))
}
