package model

import (
	"time"

	"github.com/google/uuid"
)

// Todo is a task an admin assigns to a set of users. The target columns are
// the flattened storage form of TargetSpec; Target()/SetTarget() convert.
type Todo struct {
	Base
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	CreatedByID uuid.UUID `json:"created_by_id" db:"created_by_id"`

	TargetKind           TargetKind `json:"target_kind" db:"target_kind"`
	TargetGroupID        *uuid.UUID `json:"target_group_id" db:"target_group_id"`
	TargetUserIDs        UUIDList   `json:"target_user_ids" db:"target_user_ids"`
	TargetAttributeKey   *string    `json:"target_attribute_key" db:"target_attribute_key"`
	TargetAttributeValue *string    `json:"target_attribute_value" db:"target_attribute_value"`

	NotifyImmediately bool    `json:"notify_immediately" db:"notify_immediately"`
	ReminderDays      DayList `json:"reminder_days" db:"reminder_days"`

	CreatedBy *User `json:"created_by,omitempty" db:"-"`
}

// Target assembles the tagged union from the flattened columns.
func (t *Todo) Target() TargetSpec {
	spec := TargetSpec{Kind: t.TargetKind}
	switch t.TargetKind {
	case TargetIndividual:
		spec.UserIDs = t.TargetUserIDs
	case TargetGroup:
		spec.GroupID = t.TargetGroupID
	case TargetAttribute:
		if t.TargetAttributeKey != nil {
			spec.AttributeKey = *t.TargetAttributeKey
		}
		if t.TargetAttributeValue != nil {
			spec.AttributeValue = *t.TargetAttributeValue
		}
	}
	return spec
}

// SetTarget flattens spec into the storage columns.
func (t *Todo) SetTarget(spec TargetSpec) {
	t.TargetKind = spec.Kind
	t.TargetGroupID = nil
	t.TargetUserIDs = nil
	t.TargetAttributeKey = nil
	t.TargetAttributeValue = nil

	switch spec.Kind {
	case TargetIndividual:
		t.TargetUserIDs = spec.UserIDs
	case TargetGroup:
		t.TargetGroupID = spec.GroupID
	case TargetAttribute:
		key, value := spec.AttributeKey, spec.AttributeValue
		t.TargetAttributeKey = &key
		t.TargetAttributeValue = &value
	}
}

// CreateTodoRequest is the admin creation payload.
type CreateTodoRequest struct {
	Title                string      `json:"title" binding:"required"`
	Description          *string     `json:"description"`
	DueDate              time.Time   `json:"due_date" binding:"required"`
	TargetKind           TargetKind  `json:"target_kind" binding:"required,oneof=all group individual attribute"`
	TargetGroupID        *uuid.UUID  `json:"target_group_id"`
	TargetUserIDs        []uuid.UUID `json:"target_user_ids"`
	TargetAttributeKey   string      `json:"target_attribute_key"`
	TargetAttributeValue string      `json:"target_attribute_value"`
	NotifyImmediately    *bool       `json:"notify_immediately"`
	ReminderDays         []int       `json:"reminder_days" binding:"omitempty,dive,reminderday"`
}

// TargetSpec assembles the union from the request fields.
func (r *CreateTodoRequest) TargetSpec() TargetSpec {
	return TargetSpec{
		Kind:           r.TargetKind,
		UserIDs:        r.TargetUserIDs,
		GroupID:        r.TargetGroupID,
		AttributeKey:   r.TargetAttributeKey,
		AttributeValue: r.TargetAttributeValue,
	}
}

// UpdateTodoRequest carries the mutable todo fields. Target spec is fixed at
// creation time.
type UpdateTodoRequest struct {
	Title             *string    `json:"title"`
	Description       *string    `json:"description"`
	DueDate           *time.Time `json:"due_date"`
	NotifyImmediately *bool      `json:"notify_immediately"`
	ReminderDays      []int      `json:"reminder_days" binding:"omitempty,dive,reminderday"`
}

// MyTodoFilters narrows the per-user assignment listing.
type MyTodoFilters struct {
	IsCompleted *bool  `form:"is_completed"`
	SearchTerm  string `form:"search"`
	SortBy      string `form:"sort_by"`
}

// MyTodo is one row of a user's own todo listing.
type MyTodo struct {
	AssignmentID uuid.UUID  `json:"assignment_id"`
	TodoID       uuid.UUID  `json:"todo_id"`
	Title        string     `json:"title"`
	Description  *string    `json:"description"`
	DueDate      time.Time  `json:"due_date"`
	IsCompleted  bool       `json:"is_completed"`
	CompletedAt  *time.Time `json:"completed_at"`
	DaysUntilDue int        `json:"days_until_due"`
	CreatedBy    CreatedBy  `json:"created_by"`
}

// CreatedBy identifies a todo's author in listings.
type CreatedBy struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// TodoProgress summarizes completion of one created todo.
type TodoProgress struct {
	TodoID         uuid.UUID            `json:"todo_id"`
	Title          string               `json:"title"`
	DueDate        time.Time            `json:"due_date"`
	TotalAssigned  int                  `json:"total_assigned"`
	CompletedCount int                  `json:"completed_count"`
	Assignments    []AssignmentProgress `json:"assignments"`
}

// AssignmentProgress is one assignee's state within a progress report.
type AssignmentProgress struct {
	UserID      uuid.UUID  `json:"user_id"`
	UserName    string     `json:"user_name"`
	UserEmail   string     `json:"user_email"`
	IsCompleted bool       `json:"is_completed"`
	CompletedAt *time.Time `json:"completed_at"`
}
