package models

import (
	"time"

	"github.com/google/uuid"
)

type EventLevel string

const (
	EventLevelInfo  EventLevel = "info"
	EventLevelWarn  EventLevel = "warn"
	EventLevelError EventLevel = "error"
)

// Event records an editor outcome that does not surface as an operation
// error, such as a failed product delete during a cascading project delete.
type Event struct {
	ID        uuid.UUID
	UserID    string
	ProjectID string
	LayerID   string
	Operation string
	Level     EventLevel
	Message   string
	CreatedAt time.Time
}

func NewEvent(operation string, level EventLevel, message string) Event {
	return Event{
		ID:        uuid.New(),
		Operation: operation,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
