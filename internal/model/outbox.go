package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusRetry     OutboxStatus = "retry"
	OutboxStatusFailed    OutboxStatus = "failed"
)

// Todo lifecycle event types recorded in the outbox.
const (
	EventTodoCreated     = "todo.created"
	EventTodoUpdated     = "todo.updated"
	EventTodoDeleted     = "todo.deleted"
	EventTodoCompleted   = "todo.completed"
	EventTodoUncompleted = "todo.uncompleted"
)

// OutboxEvent is written in the same transaction as the change it describes
// and published to the broker by the worker.
type OutboxEvent struct {
	ID           uuid.UUID       `db:"id" json:"id"`
	EventType    string          `db:"event_type" json:"event_type"`
	Payload      json.RawMessage `db:"payload" json:"payload"`
	Status       OutboxStatus    `db:"status" json:"status"`
	ErrorMessage *string         `db:"error_message" json:"error_message,omitempty"`
	RetryCount   int             `db:"retry_count" json:"retry_count"`
	RetryAt      *time.Time      `db:"retry_at" json:"retry_at,omitempty"`
	CreatedAt    time.Time       `db:"created_at" json:"created_at"`
	ProcessedAt  *time.Time      `db:"processed_at" json:"processed_at,omitempty"`
	UpdatedAt    time.Time       `db:"updated_at" json:"updated_at"`
}

// TodoEventPayload is the broker payload for todo lifecycle events.
type TodoEventPayload struct {
	TodoID  uuid.UUID  `json:"todo_id"`
	Title   string     `json:"title"`
	ActorID uuid.UUID  `json:"actor_id"`
	UserID  *uuid.UUID `json:"user_id,omitempty"`
}

// NewTodoEvent assembles a pending outbox event for a todo lifecycle change.
func NewTodoEvent(eventType string, payload TodoEventPayload) (*OutboxEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &OutboxEvent{
		EventType: eventType,
		Payload:   raw,
		Status:    OutboxStatusPending,
	}, nil
}
