package reminder

import (
	"time"

	"github.com/miutaku/nugget/internal/model"
)

// Skip reasons, used as metric labels and log fields.
const (
	skipUserInactive    = "user_inactive"
	skipDisabled        = "disabled"
	skipWrongHour       = "wrong_hour"
	skipOverdue         = "overdue"
	skipDayMismatch     = "day_mismatch"
	skipAlreadyNotified = "already_notified"
)

// evaluate decides whether a candidate should receive a reminder at now.
// It returns the days-until-due count and an empty reason when eligible, or
// a skip reason otherwise. The checks are ordered cheapest first; the dedup
// check runs last so a candidate that fails on preference grounds never
// consults LastNotifiedAt.
func evaluate(c *model.ReminderCandidate, now time.Time) (daysUntilDue int, reason string) {
	if !c.User.IsActive {
		return 0, skipUserInactive
	}

	setting := model.Effective(c.Setting)
	if !setting.Enabled {
		return 0, skipDisabled
	}
	if now.UTC().Hour() != setting.NotificationHour {
		return 0, skipWrongHour
	}

	daysUntilDue = model.DaysUntil(c.Todo.DueDate, now)
	if daysUntilDue < 0 {
		return daysUntilDue, skipOverdue
	}

	// A day matches when either the user's preference or the todo's own
	// reminder days name it. The two sets are a union, not an override.
	if !setting.DaysBeforeDue.Contains(daysUntilDue) && !c.Todo.ReminderDays.Contains(daysUntilDue) {
		return daysUntilDue, skipDayMismatch
	}

	if c.Assignment.NotifiedOn(now) {
		return daysUntilDue, skipAlreadyNotified
	}

	return daysUntilDue, ""
}
