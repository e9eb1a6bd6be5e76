package postgres

import (
	"context"
	"fmt"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// SessionRepository implements learning.SessionRepository for PostgreSQL.
type SessionRepository struct {
	conn *Connection
}

// NewSessionRepository creates a new SessionRepository.
func NewSessionRepository(conn *Connection) *SessionRepository {
	return &SessionRepository{conn: conn}
}

// Insert writes one immutable session row.
func (r *SessionRepository) Insert(ctx context.Context, s *learning.Session) error {
	query := `
		INSERT INTO learning_sessions (id, user_id, topic_id, activity_type, xp_gained, xp_applied, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID, s.UserID, s.TopicID, string(s.Type), s.XPGained, s.XPApplied, s.CreatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("ledger", "RecordActivity", shared.ErrStore, "failed to insert session", err)
	}
	return nil
}

// GetByID returns a session by ID.
func (r *SessionRepository) GetByID(ctx context.Context, id string) (*learning.Session, error) {
	query := `
		SELECT id, user_id, topic_id, activity_type, xp_gained, xp_applied, created_at
		FROM learning_sessions
		WHERE id = $1
	`

	s, err := scanSession(r.conn.QueryRow(ctx, query, id))
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrSessionNotFound
		}
		return nil, shared.WrapError("ledger", "FindSession", shared.ErrStore, "failed to load session", err)
	}
	return s, nil
}

// MarkXPApplied flips the bookkeeping flag after the XP award committed.
func (r *SessionRepository) MarkXPApplied(ctx context.Context, id string) error {
	tag, err := r.conn.Exec(ctx,
		`UPDATE learning_sessions SET xp_applied = TRUE WHERE id = $1`, id)
	if err != nil {
		return shared.WrapError("ledger", "MarkApplied", shared.ErrStore, "failed to mark session", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrSessionNotFound
	}
	return nil
}

// ListUnapplied returns sessions whose XP never reached the user, oldest first.
func (r *SessionRepository) ListUnapplied(ctx context.Context, limit int) ([]*learning.Session, error) {
	query := `
		SELECT id, user_id, topic_id, activity_type, xp_gained, xp_applied, created_at
		FROM learning_sessions
		WHERE NOT xp_applied
		ORDER BY created_at ASC
		LIMIT $1
	`

	rows, err := r.conn.Query(ctx, query, limit)
	if err != nil {
		return nil, shared.WrapError("ledger", "ListUnapplied", shared.ErrStore, "query failed", err)
	}
	defer rows.Close()

	var out []*learning.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSession(row rowScanner) (*learning.Session, error) {
	var (
		s            learning.Session
		activityType string
	)
	err := row.Scan(&s.ID, &s.UserID, &s.TopicID, &activityType, &s.XPGained, &s.XPApplied, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.Type = learning.ActivityType(activityType)
	return &s, nil
}
