package store

import (
	"context"

	"github.com/pr-poehali-dev/leopard-bag-project/internal/models"
)

// CreateSubmission records an accepted form submission
func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	query := `
		INSERT INTO submissions (event_id, kind, session_id, payload)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id) DO UPDATE SET event_id = EXCLUDED.event_id
		RETURNING id, created_at`

	return s.db.GetContext(ctx, sub, query,
		sub.EventID, sub.Kind, sub.SessionID, sub.Payload)
}

// ListSubmissions retrieves the newest submissions of a kind
func (s *Store) ListSubmissions(ctx context.Context, kind string, limit int) ([]models.Submission, error) {
	var subs []models.Submission
	err := s.db.SelectContext(ctx, &subs,
		"SELECT * FROM submissions WHERE kind = $1 ORDER BY created_at DESC LIMIT $2", kind, limit)
	return subs, err
}

// IsEventProcessed checks if an event has been processed
func (s *Store) IsEventProcessed(ctx context.Context, eventID string) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists,
		"SELECT EXISTS(SELECT 1 FROM processed_events WHERE event_id = $1)", eventID)
	return exists, err
}

// MarkEventProcessed marks an event as processed
func (s *Store) MarkEventProcessed(ctx context.Context, eventID, eventType string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO processed_events (event_id, event_type) VALUES ($1, $2) ON CONFLICT (event_id) DO NOTHING",
		eventID, eventType)
	return err
}
