package model

import (
	"github.com/google/uuid"
)

// Reminder defaults. A user without a stored setting gets these; a todo
// without explicit reminder days gets DefaultReminderDays.
const DefaultNotificationHour = 9

var (
	DefaultDaysBeforeDue = DayList{0, 1, 3, 7}
	DefaultReminderDays  = DayList{0, 1, 3}
)

// NotificationSetting is a user's personal reminder preference. At most one
// row per user; created only by explicit user action, never by the scheduler.
type NotificationSetting struct {
	Base
	UserID           uuid.UUID `json:"user_id" db:"user_id"`
	DaysBeforeDue    DayList   `json:"days_before_due" db:"days_before_due"`
	Enabled          bool      `json:"enabled" db:"enabled"`
	NotificationHour int       `json:"notification_hour" db:"notification_hour"`
}

// EffectiveSetting is the preference actually applied by the scheduler after
// the absent-means-defaults rule.
type EffectiveSetting struct {
	DaysBeforeDue    DayList `json:"days_before_due"`
	Enabled          bool    `json:"enabled"`
	NotificationHour int     `json:"notification_hour"`
}

// Effective resolves an optional stored setting into the applied preference.
// Absence means defaults and enabled, never disabled.
func Effective(s *NotificationSetting) EffectiveSetting {
	if s == nil {
		return EffectiveSetting{
			DaysBeforeDue:    DefaultDaysBeforeDue,
			Enabled:          true,
			NotificationHour: DefaultNotificationHour,
		}
	}
	return EffectiveSetting{
		DaysBeforeDue:    s.DaysBeforeDue.Normalize(),
		Enabled:          s.Enabled,
		NotificationHour: s.NotificationHour,
	}
}

// UpdateNotificationSettingRequest is the settings upsert payload.
type UpdateNotificationSettingRequest struct {
	// DaysBeforeDue may be explicitly empty: the user then only gets
	// reminders on the todo's own schedule.
	DaysBeforeDue    []int `json:"days_before_due" binding:"omitempty,dive,reminderday"`
	Enabled          *bool `json:"enabled" binding:"required"`
	NotificationHour *int  `json:"notification_hour" binding:"required,gte=0,lte=23"`
}
