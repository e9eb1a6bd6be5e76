package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/logger"
	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

func newTestLedger(users *memUserRepo, sessions *memSessionRepo) (*ProgressLedger, *memAchievementRepo, *recordingBus) {
	achievements := newMemAchievementRepo()
	bus := &recordingBus{}
	ledger := NewProgressLedger(users, sessions, achievements, bus, logger.NewNop())
	return ledger, achievements, bus
}

func TestAwardXP_IncrementsTotal(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	ledger, _, bus := newTestLedger(users, newMemSessionRepo())

	total, err := ledger.AwardXP(context.Background(), "u1", 30)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	total, err = ledger.AwardXP(context.Background(), "u1", 12)
	require.NoError(t, err)
	assert.Equal(t, 42, total)

	assert.Len(t, bus.ofType(shared.EventXPAwarded), 2)
}

func TestAwardXP_RejectsNonPositiveAmounts(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	ledger, _, _ := newTestLedger(users, newMemSessionRepo())

	_, err := ledger.AwardXP(context.Background(), "u1", 0)
	assert.ErrorIs(t, err, shared.ErrNonPositiveXP)
	assert.True(t, shared.IsValidation(err))

	_, err = ledger.AwardXP(context.Background(), "u1", -5)
	assert.ErrorIs(t, err, shared.ErrNonPositiveXP)

	u, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, int(u.XP), "rejected awards must not touch the total")
}

func TestAwardXP_UnknownUser(t *testing.T) {
	ledger, _, _ := newTestLedger(newMemUserRepo(), newMemSessionRepo())

	_, err := ledger.AwardXP(context.Background(), "ghost", 10)
	assert.True(t, shared.IsNotFound(err))
}

// TestAwardXP_ConcurrentAwardsPreserveSum fires N concurrent awards of
// equal amount at one user and expects the final total to be exactly
// N * amount: no award may be lost or double-applied.
func TestAwardXP_ConcurrentAwardsPreserveSum(t *testing.T) {
	const (
		workers = 50
		amount  = 7
	)

	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	ledger, _, _ := newTestLedger(users, newMemSessionRepo())

	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := ledger.AwardXP(context.Background(), "u1", amount)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	u, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, workers*amount, int(u.XP))
}

func TestAwardXP_UnlocksAchievementsOnce(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	ledger, achievements, bus := newTestLedger(users, newMemSessionRepo())

	_, err := ledger.AwardXP(context.Background(), "u1", 90)
	require.NoError(t, err)
	_, err = ledger.AwardXP(context.Background(), "u1", 20) // crosses 100
	require.NoError(t, err)
	_, err = ledger.AwardXP(context.Background(), "u1", 20) // stays past 100
	require.NoError(t, err)

	unlocked, err := achievements.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, unlocked, 1)
	assert.Equal(t, "xp_100", unlocked[0].Criteria)
	assert.Len(t, bus.ofType(shared.EventAchievementUnlocked), 1)
}

func TestUpdateStreak_Policy(t *testing.T) {
	day := timeutil.NewDate(2025, 3, 14)

	tests := []struct {
		name   string
		dates  []timeutil.Date
		streak int
	}{
		{"first activity starts at one", []timeutil.Date{day}, 1},
		{"same day does not move", []timeutil.Date{day, day}, 1},
		{"next day extends", []timeutil.Date{day, day.AddDays(1)}, 2},
		{"gap resets to one", []timeutil.Date{day, day.AddDays(1), day.AddDays(5)}, 1},
		{"out of order is ignored", []timeutil.Date{day, day.AddDays(1), day}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUserRepo()
			users.seed(seededUser("u1"))
			ledger, _, _ := newTestLedger(users, newMemSessionRepo())

			var streak int
			var err error
			for _, d := range tt.dates {
				streak, err = ledger.UpdateStreak(context.Background(), "u1", d)
				require.NoError(t, err)
			}
			assert.Equal(t, tt.streak, streak)
		})
	}
}

func TestHandle_RecordsSessionAndProgress(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	sessions := newMemSessionRepo()
	ledger, _, _ := newTestLedger(users, sessions)

	result, err := ledger.Handle(context.Background(), RecordActivityCommand{
		UserID:       "u1",
		Type:         learning.ActivityQuiz,
		ActivityDate: timeutil.NewDate(2025, 3, 14),
	})
	require.NoError(t, err)

	assert.Equal(t, 20, result.XPTotal, "quiz default XP applies when none given")
	assert.Equal(t, 1, result.Streak)

	stored, err := sessions.GetByID(context.Background(), result.SessionID)
	require.NoError(t, err)
	assert.True(t, stored.XPApplied)
	assert.Equal(t, 20, stored.XPGained)
}

// TestHandle_EndToEndSequence replays the canonical scenario: four
// activities worth 10 XP on days d, d, d+1, d+5 must leave XP totals
// 10, 20, 30, 40 and streaks 1, 1, 2, 1.
func TestHandle_EndToEndSequence(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	ledger, _, _ := newTestLedger(users, newMemSessionRepo())

	day := timeutil.NewDate(2025, 3, 14)
	steps := []struct {
		date       timeutil.Date
		wantXP     int
		wantStreak int
	}{
		{day, 10, 1},
		{day, 20, 1},
		{day.AddDays(1), 30, 2},
		{day.AddDays(5), 40, 1},
	}

	for i, step := range steps {
		result, err := ledger.Handle(context.Background(), RecordActivityCommand{
			UserID:       "u1",
			Type:         learning.ActivityStudy,
			XPGained:     10,
			ActivityDate: step.date,
		})
		require.NoError(t, err, "activity %d", i+1)
		assert.Equal(t, step.wantXP, result.XPTotal, "XP after activity %d", i+1)
		assert.Equal(t, step.wantStreak, result.Streak, "streak after activity %d", i+1)
	}
}

func TestHandle_ValidationLeavesNoState(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	sessions := newMemSessionRepo()
	ledger, _, _ := newTestLedger(users, sessions)

	_, err := ledger.Handle(context.Background(), RecordActivityCommand{
		UserID: "u1",
		Type:   learning.ActivityType("napping"),
	})
	assert.ErrorIs(t, err, shared.ErrInvalidActivity)

	_, err = ledger.Handle(context.Background(), RecordActivityCommand{
		UserID:   "u1",
		Type:     learning.ActivityQuiz,
		XPGained: -1,
	})
	assert.True(t, shared.IsValidation(err))

	unapplied, err := sessions.ListUnapplied(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, unapplied, "rejected commands must not write sessions")
}

// TestHandle_SessionSurvivesFailedAward is the at-least-once audit
// property: when the XP increment fails after the session insert, the
// session stays unapplied for the reconciliation pass to find.
func TestHandle_SessionSurvivesFailedAward(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	users.incrementErr = errors.New("connection reset")
	sessions := newMemSessionRepo()
	ledger, _, _ := newTestLedger(users, sessions)

	_, err := ledger.Handle(context.Background(), RecordActivityCommand{
		UserID: "u1",
		Type:   learning.ActivityQuiz,
	})
	require.Error(t, err)

	unapplied, err := sessions.ListUnapplied(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unapplied, 1)
	assert.False(t, unapplied[0].XPApplied)
	assert.Equal(t, "u1", unapplied[0].UserID)
}

func TestReapplySession_AppliesExactlyOnce(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	users.incrementErr = errors.New("connection reset")
	sessions := newMemSessionRepo()
	ledger, _, _ := newTestLedger(users, sessions)

	_, err := ledger.Handle(context.Background(), RecordActivityCommand{
		UserID: "u1",
		Type:   learning.ActivityQuiz,
	})
	require.Error(t, err)

	// Store recovers; the reconciliation pass picks the session up.
	users.incrementErr = nil
	unapplied, err := sessions.ListUnapplied(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, unapplied, 1)

	require.NoError(t, ledger.ReapplySession(context.Background(), unapplied[0]))

	u, err := users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, int(u.XP))

	// Re-running against the refreshed row is a no-op.
	refreshed, err := sessions.GetByID(context.Background(), unapplied[0].ID)
	require.NoError(t, err)
	require.NoError(t, ledger.ReapplySession(context.Background(), refreshed))

	u, err = users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 20, int(u.XP), "an applied session must not award again")
}

func TestHandle_MarkAppliedFailureStillSucceeds(t *testing.T) {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	sessions := newMemSessionRepo()
	sessions.markErr = errors.New("connection reset")
	ledger, _, _ := newTestLedger(users, sessions)

	result, err := ledger.Handle(context.Background(), RecordActivityCommand{
		UserID: "u1",
		Type:   learning.ActivityChat,
	})
	require.NoError(t, err, "a stale flag is a reconciliation concern, not a request failure")
	assert.Equal(t, 5, result.XPTotal)
}
