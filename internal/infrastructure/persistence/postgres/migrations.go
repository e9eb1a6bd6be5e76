package postgres

import (
	"context"
	"fmt"
)

// Migration is one versioned schema step.
type Migration struct {
	Version int
	Name    string
	UpSQL   string
}

// GetMigrations returns all embedded migrations, in order.
func GetMigrations() []Migration {
	return []Migration{
		{Version: 1, Name: "create_users", UpSQL: migration001Up},
		{Version: 2, Name: "create_learning", UpSQL: migration002Up},
		{Version: 3, Name: "create_social", UpSQL: migration003Up},
	}
}

// Migrate applies all pending migrations.
func Migrate(ctx context.Context, conn *Connection) error {
	_, err := conn.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name VARCHAR(100) NOT NULL,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
		)
	`)
	if err != nil {
		return fmt.Errorf("postgres: failed to create migration table: %w", err)
	}

	for _, m := range GetMigrations() {
		var exists bool
		err := conn.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, m.Version,
		).Scan(&exists)
		if err != nil {
			return fmt.Errorf("postgres: failed to check migration %d: %w", m.Version, err)
		}
		if exists {
			continue
		}

		if _, err := conn.Exec(ctx, m.UpSQL); err != nil {
			return fmt.Errorf("postgres: migration %d (%s) failed: %w", m.Version, m.Name, err)
		}
		if _, err := conn.Exec(ctx,
			`INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, m.Version, m.Name,
		); err != nil {
			return fmt.Errorf("postgres: failed to record migration %d: %w", m.Version, err)
		}
	}

	return nil
}

const migration001Up = `
-- Users with progress state. XP and streak move only through the ledger.
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email VARCHAR(255) NOT NULL UNIQUE,
    password_hash VARCHAR(255) NOT NULL,
    display_name VARCHAR(100) NOT NULL,
    xp INTEGER NOT NULL DEFAULT 0,
    streak INTEGER NOT NULL DEFAULT 0,
    last_activity_date DATE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_xp CHECK (xp >= 0),
    CONSTRAINT valid_streak CHECK (streak >= 0)
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS achievements (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    criteria VARCHAR(50) NOT NULL,
    unlocked_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT uq_achievement UNIQUE (user_id, criteria)
);

CREATE INDEX IF NOT EXISTS idx_achievements_user ON achievements(user_id);
`

const migration002Up = `
CREATE TABLE IF NOT EXISTS topics (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    title VARCHAR(200) NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_topics_user ON topics(user_id);

-- Append-only audit log of XP-granting activities. xp_applied marks rows
-- whose XP reached the user's total; the reconciliation pass scans for
-- rows where it did not.
CREATE TABLE IF NOT EXISTS learning_sessions (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    topic_id UUID REFERENCES topics(id) ON DELETE SET NULL,
    activity_type VARCHAR(20) NOT NULL,
    xp_gained INTEGER NOT NULL DEFAULT 0,
    xp_applied BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_activity_type CHECK (
        activity_type IN ('study', 'quiz', 'flashcards', 'interview', 'chat')
    ),
    CONSTRAINT valid_xp_gained CHECK (xp_gained >= 0)
);

CREATE INDEX IF NOT EXISTS idx_sessions_user ON learning_sessions(user_id, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_sessions_unapplied ON learning_sessions(created_at) WHERE NOT xp_applied;

-- Stored provider responses, written verbatim as a single JSONB payload.
CREATE TABLE IF NOT EXISTS content_sets (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    topic_id UUID REFERENCES topics(id) ON DELETE SET NULL,
    kind VARCHAR(20) NOT NULL,
    payload JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_kind CHECK (
        kind IN ('explanation', 'quiz', 'flashcards', 'interview', 'chat')
    )
);

CREATE INDEX IF NOT EXISTS idx_content_user_kind ON content_sets(user_id, kind, created_at DESC);
`

const migration003Up = `
CREATE TABLE IF NOT EXISTS posts (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    content TEXT NOT NULL,
    like_count INTEGER NOT NULL DEFAULT 0,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    CONSTRAINT valid_like_count CHECK (like_count >= 0)
);

CREATE INDEX IF NOT EXISTS idx_posts_created ON posts(created_at DESC);
CREATE INDEX IF NOT EXISTS idx_posts_user ON posts(user_id);

-- The uniqueness constraint on (post_id, user_id) is the conflict signal
-- for concurrent like toggles.
CREATE TABLE IF NOT EXISTS likes (
    post_id UUID NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
    user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    PRIMARY KEY (post_id, user_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_user ON likes(user_id);
`
