package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectiveDefaults(t *testing.T) {
	effective := Effective(nil)

	assert.Equal(t, DefaultDaysBeforeDue, effective.DaysBeforeDue)
	assert.True(t, effective.Enabled)
	assert.Equal(t, DefaultNotificationHour, effective.NotificationHour)
}

func TestEffectiveStored(t *testing.T) {
	effective := Effective(&NotificationSetting{
		DaysBeforeDue:    DayList{3, 1, 3},
		Enabled:          false,
		NotificationHour: 17,
	})

	assert.Equal(t, DayList{1, 3}, effective.DaysBeforeDue)
	assert.False(t, effective.Enabled)
	assert.Equal(t, 17, effective.NotificationHour)
}

// An explicitly empty day list is a real preference, not an absence: the user
// opted out of personal reminder days.
func TestEffectiveEmptyDays(t *testing.T) {
	effective := Effective(&NotificationSetting{
		DaysBeforeDue:    DayList{},
		Enabled:          true,
		NotificationHour: 9,
	})

	assert.Empty(t, effective.DaysBeforeDue)
	assert.True(t, effective.Enabled)
}
