// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/user"
	"github.com/learnloop/learnloop-hub/pkg/logger"
	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// streakAttempts bounds the optimistic update loop before a conflict is
// surfaced to the caller as retryable.
const streakAttempts = 3

// RecordActivityCommand records one qualifying learning activity.
type RecordActivityCommand struct {
	// UserID is the acting user.
	UserID string

	// TopicID is the related topic; empty for non-topic activities.
	TopicID string

	// Type is the kind of activity.
	Type learning.ActivityType

	// XPGained is the XP for this activity. Zero means "use the default
	// for the activity type".
	XPGained int

	// ActivityDate is the calendar day of the activity. The zero value
	// means "today at the server's clock".
	ActivityDate timeutil.Date
}

// Validate checks the command before any mutation; a failing command has
// no side effects.
func (c *RecordActivityCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("ledger", "RecordActivity", shared.ErrInvalidID, "user_id is required")
	}
	if !c.Type.IsValid() {
		return shared.ErrInvalidActivity
	}
	if c.XPGained < 0 {
		return shared.NewDomainError("ledger", "RecordActivity", shared.ErrNegativeValue, "xp_gained cannot be negative")
	}
	return nil
}

// RecordActivityResult is the observable outcome.
type RecordActivityResult struct {
	SessionID string `json:"session_id"`
	XPTotal   int    `json:"xp_total"`
	Streak    int    `json:"streak"`
}

// ProgressLedger owns all XP and streak mutations. Concurrent requests for
// the same user are safe: XP awards ride on a store-side atomic increment,
// and streak updates run an optimistic read-compute-write loop. The two are
// independent atomic field updates, never one combined read-modify-write.
type ProgressLedger struct {
	users        user.Repository
	sessions     learning.SessionRepository
	achievements user.AchievementRepository
	bus          shared.EventBus
	log          *logger.Logger
}

// NewProgressLedger creates a ProgressLedger.
func NewProgressLedger(
	users user.Repository,
	sessions learning.SessionRepository,
	achievements user.AchievementRepository,
	bus shared.EventBus,
	log *logger.Logger,
) *ProgressLedger {
	if log == nil {
		log = logger.NewNop()
	}
	return &ProgressLedger{
		users:        users,
		sessions:     sessions,
		achievements: achievements,
		bus:          bus,
		log:          log.With("component", "progress_ledger"),
	}
}

// Handle records the activity: session row first, then XP, then streak.
//
// The session insert is the audit trail and takes priority: if a downstream
// update fails, the error is returned to the caller but the session row is
// retained with xp_applied = false, where the reconciliation pass finds it.
func (l *ProgressLedger) Handle(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	xp := cmd.XPGained
	if xp == 0 {
		xp = cmd.Type.DefaultXP()
	}
	activityDate := cmd.ActivityDate
	if activityDate.IsZero() {
		activityDate = timeutil.Today()
	}

	session := &learning.Session{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		Type:      cmd.Type,
		XPGained:  xp,
		CreatedAt: time.Now().UTC(),
	}
	if cmd.TopicID != "" {
		topicID := cmd.TopicID
		session.TopicID = &topicID
	}

	if err := l.sessions.Insert(ctx, session); err != nil {
		return nil, err
	}

	newTotal, err := l.AwardXP(ctx, cmd.UserID, xp)
	if err != nil {
		l.log.Error("xp award failed after session insert; session retained for reconciliation",
			"session_id", session.ID, "user_id", cmd.UserID, "error", err)
		return nil, err
	}

	if err := l.sessions.MarkXPApplied(ctx, session.ID); err != nil {
		// The XP reached the user; a stale flag only means the
		// reconciliation pass will look at this session again.
		l.log.Warn("failed to mark session applied", "session_id", session.ID, "error", err)
	}

	streak, err := l.UpdateStreak(ctx, cmd.UserID, activityDate)
	if err != nil {
		return nil, err
	}

	return &RecordActivityResult{
		SessionID: session.ID,
		XPTotal:   newTotal,
		Streak:    streak,
	}, nil
}

// AwardXP atomically increments the user's XP and returns the new total.
// Amount must be positive.
func (l *ProgressLedger) AwardXP(ctx context.Context, userID string, amount int) (int, error) {
	if userID == "" {
		return 0, shared.NewDomainError("ledger", "AwardXP", shared.ErrInvalidID, "user_id is required")
	}
	if amount <= 0 {
		return 0, shared.ErrNonPositiveXP
	}

	newTotal, err := l.users.IncrementXP(ctx, userID, amount)
	if err != nil {
		return 0, err
	}

	l.bus.Publish(ctx, shared.NewXPAwardedEvent(userID, amount, newTotal))
	l.unlockAchievements(ctx, userID, user.XP(newTotal-amount), user.XP(newTotal))

	return newTotal, nil
}

// UpdateStreak applies the streak policy for one activity date and returns
// the current streak. Lost races against concurrent writers re-read and
// retry up to the attempt budget, then surface a conflict.
func (l *ProgressLedger) UpdateStreak(ctx context.Context, userID string, activityDate timeutil.Date) (int, error) {
	if userID == "" {
		return 0, shared.NewDomainError("ledger", "UpdateStreak", shared.ErrInvalidID, "user_id is required")
	}
	if activityDate.IsZero() {
		activityDate = timeutil.Today()
	}

	for attempt := 1; attempt <= streakAttempts; attempt++ {
		u, err := l.users.GetByID(ctx, userID)
		if err != nil {
			return 0, err
		}

		newStreak, newDate, change := user.NextStreak(u.Streak, u.LastActivityDate, activityDate)
		if change == user.StreakUnchanged {
			return int(u.Streak), nil
		}

		applied, err := l.users.UpdateStreak(ctx, userID, int(newStreak), *newDate, u.LastActivityDate)
		if err != nil {
			return 0, err
		}
		if applied {
			l.publishStreakChange(ctx, userID, int(newStreak), change)
			return int(newStreak), nil
		}

		// Another request moved last_activity_date; re-read and re-apply
		// the policy against the fresh state.
		l.log.Debug("streak update raced, retrying", "user_id", userID, "attempt", attempt)
	}

	return 0, shared.ErrStreakConflict
}

func (l *ProgressLedger) publishStreakChange(ctx context.Context, userID string, streak int, change user.StreakChange) {
	switch change {
	case user.StreakStarted, user.StreakExtended:
		l.bus.Publish(ctx, shared.NewStreakChangedEvent(shared.EventStreakExtended, userID, streak))
	case user.StreakReset:
		l.bus.Publish(ctx, shared.NewStreakChangedEvent(shared.EventStreakReset, userID, streak))
	}
}

// unlockAchievements persists any XP thresholds crossed by this award and
// publishes the crossing events. Achievement failures never fail the award.
func (l *ProgressLedger) unlockAchievements(ctx context.Context, userID string, previous, current user.XP) {
	for _, criteria := range user.CrossedThresholds(previous, current) {
		a := &user.Achievement{
			ID:         uuid.NewString(),
			UserID:     userID,
			Criteria:   criteria,
			UnlockedAt: time.Now().UTC(),
		}
		if err := l.achievements.Create(ctx, a); err != nil {
			l.log.Warn("failed to persist achievement",
				"user_id", userID, "criteria", criteria, "error", err)
			continue
		}
		l.bus.Publish(ctx, shared.NewAchievementUnlockedEvent(userID, criteria, int(current)))
	}
}

// ReapplySession re-runs the XP award for a session whose XP never reached
// the user. It is called by the reconciliation worker, never in-line.
func (l *ProgressLedger) ReapplySession(ctx context.Context, session *learning.Session) error {
	if session.XPApplied {
		return nil
	}

	if _, err := l.AwardXP(ctx, session.UserID, session.XPGained); err != nil {
		return fmt.Errorf("reapply session %s: %w", session.ID, err)
	}
	return l.sessions.MarkXPApplied(ctx, session.ID)
}
