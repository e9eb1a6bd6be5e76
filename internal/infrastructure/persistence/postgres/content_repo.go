package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// ContentRepository implements learning.ContentRepository for PostgreSQL.
// Provider payloads are stored verbatim as a single JSONB value; there are
// no partial writes.
type ContentRepository struct {
	conn *Connection
}

// NewContentRepository creates a new ContentRepository.
func NewContentRepository(conn *Connection) *ContentRepository {
	return &ContentRepository{conn: conn}
}

// Create inserts a stored provider response.
func (r *ContentRepository) Create(ctx context.Context, cs *learning.ContentSet) error {
	payload, err := json.Marshal(cs.Content)
	if err != nil {
		return fmt.Errorf("failed to marshal content payload: %w", err)
	}

	query := `
		INSERT INTO content_sets (id, user_id, topic_id, kind, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err = r.conn.Exec(ctx, query,
		cs.ID, cs.UserID, cs.TopicID, string(cs.Content.Kind), payload, cs.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("learning", "StoreContent", shared.ErrStore, "failed to store content", err)
	}
	return nil
}

// GetByID returns a stored content set.
func (r *ContentRepository) GetByID(ctx context.Context, id string) (*learning.ContentSet, error) {
	query := `SELECT id, user_id, topic_id, payload, created_at FROM content_sets WHERE id = $1`

	cs, err := scanContentSet(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrContentSetMissing
		}
		return nil, shared.WrapError("learning", "FindContent", shared.ErrStore, "failed to load content", err)
	}
	return cs, nil
}

// ListByUser returns a user's stored content of one kind, newest first.
func (r *ContentRepository) ListByUser(ctx context.Context, userID string, kind learning.ContentKind, limit int) ([]*learning.ContentSet, error) {
	query := `
		SELECT id, user_id, topic_id, payload, created_at
		FROM content_sets
		WHERE user_id = $1 AND kind = $2
		ORDER BY created_at DESC
		LIMIT $3
	`

	rows, err := r.conn.Query(ctx, query, userID, string(kind), limit)
	if err != nil {
		return nil, shared.WrapError("learning", "ListContent", shared.ErrStore, "query failed", err)
	}
	defer rows.Close()

	var out []*learning.ContentSet
	for rows.Next() {
		cs, err := scanContentSet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan content set: %w", err)
		}
		out = append(out, cs)
	}
	return out, rows.Err()
}

func scanContentSet(row rowScanner) (*learning.ContentSet, error) {
	var (
		cs      learning.ContentSet
		payload []byte
	)
	if err := row.Scan(&cs.ID, &cs.UserID, &cs.TopicID, &payload, &cs.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &cs.Content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal content payload: %w", err)
	}
	return &cs, nil
}
