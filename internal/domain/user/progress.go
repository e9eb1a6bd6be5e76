package user

import (
	"errors"

	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// Domain errors for user state.
var (
	ErrMissingID      = errors.New("user: missing ID")
	ErrInvalidEmail   = errors.New("user: invalid email")
	ErrNegativeXP     = errors.New("user: XP cannot be negative")
	ErrNegativeStreak = errors.New("user: streak cannot be negative")
)

// StreakChange describes the outcome of applying an activity date to a
// user's streak state.
type StreakChange int

const (
	// StreakUnchanged means same-day activity or an out-of-order date;
	// neither streak nor last-activity date move.
	StreakUnchanged StreakChange = iota
	// StreakStarted means the user's first-ever activity set the streak to 1.
	StreakStarted
	// StreakExtended means consecutive-day activity incremented the streak.
	StreakExtended
	// StreakReset means a gap of more than one day reset the streak to 1.
	StreakReset
)

// NextStreak applies the streak policy to a single activity date.
//
// Rules, in order:
//   - first-ever activity: streak becomes 1
//   - same day as the last activity: no change
//   - exactly the next day: streak + 1
//   - a gap of two or more days: reset to 1
//   - an earlier date (clock skew, delayed delivery): silently ignored,
//     state never regresses
//
// The returned date is the last-activity date to persist; it equals the
// input date whenever the change is applied.
func NextStreak(current Streak, last *timeutil.Date, activity timeutil.Date) (Streak, *timeutil.Date, StreakChange) {
	if last == nil {
		d := activity
		return 1, &d, StreakStarted
	}

	switch {
	case activity.Equal(*last):
		return current, last, StreakUnchanged
	case activity.Before(*last):
		return current, last, StreakUnchanged
	case timeutil.IsNextDay(*last, activity):
		d := activity
		return current + 1, &d, StreakExtended
	default:
		d := activity
		return 1, &d, StreakReset
	}
}

// XP thresholds that unlock achievements, lowest first.
var achievementThresholds = []struct {
	XP       XP
	Criteria string
}{
	{100, "xp_100"},
	{500, "xp_500"},
	{1000, "xp_1000"},
	{5000, "xp_5000"},
	{10000, "xp_10000"},
}

// CrossedThresholds returns the achievement criteria whose XP thresholds
// were crossed by moving from the previous total to the new one.
func CrossedThresholds(previous, current XP) []string {
	var crossed []string
	for _, t := range achievementThresholds {
		if previous < t.XP && current >= t.XP {
			crossed = append(crossed, t.Criteria)
		}
	}
	return crossed
}
