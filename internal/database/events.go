package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"garment-designlab/internal/models"

	"github.com/google/uuid"
)

const defaultEventLimit = 50

// EventStore keeps editor events, mainly the failures a cascading project
// delete swallows.
type EventStore struct {
	db *sql.DB
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

func (s *EventStore) RecordEvent(ctx context.Context, e models.Event) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO designlab_events (id, user_id, project_id, layer_id, operation, level, message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID.String(), e.UserID, nullString(e.ProjectID), nullString(e.LayerID),
		e.Operation, string(e.Level), e.Message, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}
	return nil
}

// ListEvents returns the user's newest events first. An empty projectID
// lists events for every project.
func (s *EventStore) ListEvents(ctx context.Context, userID, projectID string, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = defaultEventLimit
	}

	query := `
		SELECT id, user_id, project_id, layer_id, operation, level, message, created_at
		FROM designlab_events
		WHERE user_id = $1`
	args := []interface{}{userID}
	if projectID != "" {
		query += ` AND project_id = $2`
		args = append(args, projectID)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	events := []models.Event{}
	for rows.Next() {
		var (
			e                  models.Event
			id, level          string
			projectID, layerID sql.NullString
		)
		if err := rows.Scan(&id, &e.UserID, &projectID, &layerID, &e.Operation, &level, &e.Message, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.ID, err = uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("invalid event id %q: %w", id, err)
		}
		e.ProjectID = projectID.String
		e.LayerID = layerID.String
		e.Level = models.EventLevel(level)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
