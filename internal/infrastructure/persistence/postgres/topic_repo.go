package postgres

import (
	"context"
	"fmt"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// TopicRepository implements learning.TopicRepository for PostgreSQL.
type TopicRepository struct {
	conn *Connection
}

// NewTopicRepository creates a new TopicRepository.
func NewTopicRepository(conn *Connection) *TopicRepository {
	return &TopicRepository{conn: conn}
}

// Create inserts a topic.
func (r *TopicRepository) Create(ctx context.Context, t *learning.Topic) error {
	query := `INSERT INTO topics (id, user_id, title, created_at) VALUES ($1, $2, $3, $4)`

	if _, err := r.conn.Exec(ctx, query, t.ID, t.UserID, t.Title, t.CreatedAt); err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("learning", "CreateTopic", shared.ErrStore, "failed to create topic", err)
	}
	return nil
}

// GetByID returns a topic by ID.
func (r *TopicRepository) GetByID(ctx context.Context, id string) (*learning.Topic, error) {
	query := `SELECT id, user_id, title, created_at FROM topics WHERE id = $1`

	var t learning.Topic
	err := r.conn.QueryRow(ctx, query, id).Scan(&t.ID, &t.UserID, &t.Title, &t.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrTopicNotFound
		}
		return nil, shared.WrapError("learning", "FindTopic", shared.ErrStore, "failed to load topic", err)
	}
	return &t, nil
}

// ListByUser returns a user's topics, newest first.
func (r *TopicRepository) ListByUser(ctx context.Context, userID string) ([]*learning.Topic, error) {
	query := `SELECT id, user_id, title, created_at FROM topics WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, shared.WrapError("learning", "ListTopics", shared.ErrStore, "query failed", err)
	}
	defer rows.Close()

	var out []*learning.Topic
	for rows.Next() {
		var t learning.Topic
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}
