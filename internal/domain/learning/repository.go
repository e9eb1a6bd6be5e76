package learning

import "context"

// TopicRepository persists topics.
type TopicRepository interface {
	Create(ctx context.Context, t *Topic) error
	GetByID(ctx context.Context, id string) (*Topic, error)
	ListByUser(ctx context.Context, userID string) ([]*Topic, error)
}

// SessionRepository persists the append-only learning session log.
type SessionRepository interface {
	// Insert writes a new session row. The row is never updated afterwards
	// except through MarkXPApplied.
	Insert(ctx context.Context, s *Session) error

	GetByID(ctx context.Context, id string) (*Session, error)

	// MarkXPApplied flips the bookkeeping flag once the session's XP has
	// reached the user's total.
	MarkXPApplied(ctx context.Context, id string) error

	// ListUnapplied returns sessions whose XP was never applied, oldest
	// first, for the reconciliation pass.
	ListUnapplied(ctx context.Context, limit int) ([]*Session, error)
}

// ContentRepository persists stored provider responses.
type ContentRepository interface {
	Create(ctx context.Context, cs *ContentSet) error
	GetByID(ctx context.Context, id string) (*ContentSet, error)
	ListByUser(ctx context.Context, userID string, kind ContentKind, limit int) ([]*ContentSet, error)
}
