package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/user"
	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// UserRepository implements user.Repository for PostgreSQL.
type UserRepository struct {
	conn *Connection
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(conn *Connection) *UserRepository {
	return &UserRepository{conn: conn}
}

// Create inserts a new user.
func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, xp, streak,
		                   last_activity_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.conn.Exec(ctx, query,
		u.ID,
		u.Email.String(),
		u.PasswordHash,
		u.DisplayName,
		int(u.XP),
		int(u.Streak),
		dateToSQL(u.LastActivityDate),
		u.CreatedAt,
		u.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrUserAlreadyExists
		}
		return shared.WrapError("ledger", "Create", shared.ErrStore, "failed to create user", err)
	}
	return nil
}

// GetByID returns a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByEmail returns a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.get(ctx, `WHERE email = $1`, email)
}

func (r *UserRepository) get(ctx context.Context, where string, arg interface{}) (*user.User, error) {
	query := `
		SELECT id, email, password_hash, display_name, xp, streak,
		       last_activity_date, created_at, updated_at
		FROM users ` + where

	var (
		u        user.User
		email    string
		xp       int
		streak   int
		lastDate *time.Time
	)
	err := r.conn.QueryRow(ctx, query, arg).Scan(
		&u.ID, &email, &u.PasswordHash, &u.DisplayName,
		&xp, &streak, &lastDate, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrUserNotFound
		}
		return nil, shared.WrapError("ledger", "Find", shared.ErrStore, "failed to load user", err)
	}

	u.Email = user.Email(email)
	u.XP = user.XP(xp)
	u.Streak = user.Streak(streak)
	u.LastActivityDate = dateFromSQL(lastDate)
	return &u, nil
}

// IncrementXP applies the XP award as a store-side atomic increment and
// returns the new total. Two concurrent awards for the same user serialize
// on the row; neither update can be lost.
func (r *UserRepository) IncrementXP(ctx context.Context, id string, amount int) (int, error) {
	query := `
		UPDATE users
		SET xp = xp + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING xp
	`

	var newTotal int
	if err := r.conn.QueryRow(ctx, query, id, amount).Scan(&newTotal); err != nil {
		if IsNoRows(err) {
			return 0, shared.ErrUserNotFound
		}
		return 0, shared.WrapError("ledger", "AwardXP", shared.ErrStore, "failed to increment xp", err)
	}
	return newTotal, nil
}

// UpdateStreak conditionally writes the streak fields. The write applies
// only when last_activity_date still matches what the caller read, which
// makes the read-compute-write loop in the ledger an optimistic update.
func (r *UserRepository) UpdateStreak(ctx context.Context, id string, newStreak int, newDate timeutil.Date, expectLast *timeutil.Date) (bool, error) {
	query := `
		UPDATE users
		SET streak = $2, last_activity_date = $3, updated_at = NOW()
		WHERE id = $1 AND last_activity_date IS NOT DISTINCT FROM $4
	`

	tag, err := r.conn.Exec(ctx, query, id, newStreak, newDate.Time(), dateToSQL(expectLast))
	if err != nil {
		return false, shared.WrapError("ledger", "UpdateStreak", shared.ErrStore, "failed to update streak", err)
	}
	return tag.RowsAffected() == 1, nil
}

func dateToSQL(d *timeutil.Date) interface{} {
	if d == nil {
		return nil
	}
	return d.Time()
}

func dateFromSQL(t *time.Time) *timeutil.Date {
	if t == nil {
		return nil
	}
	d := timeutil.DateOf(*t)
	return &d
}

// AchievementRepository implements user.AchievementRepository for PostgreSQL.
type AchievementRepository struct {
	conn *Connection
}

// NewAchievementRepository creates a new AchievementRepository.
func NewAchievementRepository(conn *Connection) *AchievementRepository {
	return &AchievementRepository{conn: conn}
}

// Create inserts an achievement row. Unlocking the same criteria twice is
// not an error: the unique constraint absorbs replays from the
// reconciliation pass.
func (r *AchievementRepository) Create(ctx context.Context, a *user.Achievement) error {
	query := `
		INSERT INTO achievements (id, user_id, criteria, unlocked_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, criteria) DO NOTHING
	`

	if _, err := r.conn.Exec(ctx, query, a.ID, a.UserID, a.Criteria, a.UnlockedAt); err != nil {
		return shared.WrapError("ledger", "Unlock", shared.ErrStore, "failed to create achievement", err)
	}
	return nil
}

// ListByUser returns a user's achievements, newest first.
func (r *AchievementRepository) ListByUser(ctx context.Context, userID string) ([]*user.Achievement, error) {
	query := `
		SELECT id, user_id, criteria, unlocked_at
		FROM achievements
		WHERE user_id = $1
		ORDER BY unlocked_at DESC
	`

	rows, err := r.conn.Query(ctx, query, userID)
	if err != nil {
		return nil, shared.WrapError("ledger", "ListAchievements", shared.ErrStore, "query failed", err)
	}
	defer rows.Close()

	var out []*user.Achievement
	for rows.Next() {
		var a user.Achievement
		if err := rows.Scan(&a.ID, &a.UserID, &a.Criteria, &a.UnlockedAt); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
