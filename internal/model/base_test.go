package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUTCDate(t *testing.T) {
	jst := time.FixedZone("JST", 9*60*60)

	// 08:30 JST on June 2 is 23:30 UTC on June 1.
	local := time.Date(2025, 6, 2, 8, 30, 0, 0, jst)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), UTCDate(local))

	utc := time.Date(2025, 6, 2, 23, 59, 59, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), UTCDate(utc))
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2025, 6, 2, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		due  time.Time
		want int
	}{
		{"due later today", time.Date(2025, 6, 2, 23, 0, 0, 0, time.UTC), 0},
		{"due earlier today", time.Date(2025, 6, 2, 1, 0, 0, 0, time.UTC), 0},
		{"due tomorrow morning", time.Date(2025, 6, 3, 0, 30, 0, 0, time.UTC), 1},
		{"due next week", time.Date(2025, 6, 9, 12, 0, 0, 0, time.UTC), 7},
		{"overdue", time.Date(2025, 5, 30, 12, 0, 0, 0, time.UTC), -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysUntil(tt.due, now))
		})
	}
}

func TestSameUTCDate(t *testing.T) {
	a := time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC)
	b := time.Date(2025, 6, 2, 23, 59, 0, 0, time.UTC)
	assert.True(t, SameUTCDate(a, b))
	assert.False(t, SameUTCDate(a, b.Add(2*time.Minute)))
}

func TestDayListNormalize(t *testing.T) {
	assert.Equal(t, DayList{0, 2, 5}, DayList{5, 0, 2, 5, -1}.Normalize())
	assert.Equal(t, DayList{}, DayList{-7, -1}.Normalize())
	assert.Equal(t, DayList{}, DayList{}.Normalize())
}

func TestDayListContains(t *testing.T) {
	d := DayList{0, 1, 3}
	assert.True(t, d.Contains(3))
	assert.False(t, d.Contains(2))
	assert.False(t, DayList(nil).Contains(0))
}
