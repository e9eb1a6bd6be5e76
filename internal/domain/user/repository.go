package user

import (
	"context"

	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// Repository is the persistence contract for users. Implementations must
// make IncrementXP a store-side atomic read-modify-write and UpdateStreak a
// conditional write, so the ledger can run lock-free against concurrent
// requests for the same user.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)

	// IncrementXP atomically adds amount to the user's XP and returns the
	// new total. Two concurrent increments must both be reflected.
	IncrementXP(ctx context.Context, id string, amount int) (int, error)

	// UpdateStreak writes the new streak and last-activity date only if the
	// stored last-activity date still equals expectLast (nil matches NULL).
	// It returns false without error when another writer got there first;
	// the caller re-reads and retries.
	UpdateStreak(ctx context.Context, id string, newStreak int, newDate timeutil.Date, expectLast *timeutil.Date) (bool, error)
}

// AchievementRepository persists unlocked achievements.
type AchievementRepository interface {
	Create(ctx context.Context, a *Achievement) error
	ListByUser(ctx context.Context, userID string) ([]*Achievement, error)
}
