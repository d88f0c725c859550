package model

import (
	"time"
)

// TargetKindCount is one slice of the target-kind breakdown.
type TargetKindCount struct {
	Kind  TargetKind `json:"kind" db:"target_kind"`
	Count int        `json:"count" db:"count"`
}

// DailyActivity is one day of the recent-activity series.
type DailyActivity struct {
	Date      time.Time `json:"date"`
	Created   int       `json:"created"`
	Completed int       `json:"completed"`
}

// GlobalStats is the admin-wide dashboard payload.
type GlobalStats struct {
	TotalUsers           int               `json:"total_users"`
	TotalGroups          int               `json:"total_groups"`
	TotalTodos           int               `json:"total_todos"`
	TotalAssignments     int               `json:"total_assignments"`
	CompletedAssignments int               `json:"completed_assignments"`
	CompletionRate       float64           `json:"completion_rate"`
	TargetKindBreakdown  []TargetKindCount `json:"target_kind_breakdown"`
	RecentActivity       []DailyActivity   `json:"recent_activity"`
}

// PersonalStats summarizes one user's assignments.
type PersonalStats struct {
	TotalAssigned  int     `json:"total_assigned"`
	Completed      int     `json:"completed"`
	Open           int     `json:"open"`
	Overdue        int     `json:"overdue"`
	DueThisWeek    int     `json:"due_this_week"`
	CompletionRate float64 `json:"completion_rate"`
}
