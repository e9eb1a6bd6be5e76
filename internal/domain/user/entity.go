// Package user contains the user aggregate of the learning hub: identity,
// accumulated XP, and the daily streak. This is pure business logic with no
// external dependencies beyond pkg/timeutil.
package user

import (
	"strings"
	"time"

	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// XP represents accumulated experience points. XP is monotonically
// non-decreasing outside of explicit admin corrections.
type XP int

// IsValid reports whether the XP total is non-negative.
func (x XP) IsValid() bool { return x >= 0 }

// Add returns the total after an award.
func (x XP) Add(delta XP) XP { return x + delta }

// Streak is the count of consecutive calendar days with at least one
// qualifying learning activity.
type Streak int

// IsValid reports whether the streak is non-negative.
func (s Streak) IsValid() bool { return s >= 0 }

// Email is a user's login identifier.
type Email string

// IsValid performs a shape check; real validation happens at signup.
func (e Email) IsValid() bool {
	s := string(e)
	at := strings.IndexByte(s, '@')
	return at > 0 && at < len(s)-1 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the email as a plain string.
func (e Email) String() string { return string(e) }

// User is the aggregate root for progress accounting. XP and streak fields
// are mutated exclusively through the progress ledger.
type User struct {
	ID           string
	Email        Email
	PasswordHash string
	DisplayName  string

	// Progress state. LastActivityDate is nil until the first activity
	// and afterwards always holds the date of the most recent accepted one.
	XP               XP
	Streak           Streak
	LastActivityDate *timeutil.Date

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks that the user is structurally sound.
func (u *User) Validate() error {
	if u.ID == "" {
		return ErrMissingID
	}
	if !u.Email.IsValid() {
		return ErrInvalidEmail
	}
	if !u.XP.IsValid() {
		return ErrNegativeXP
	}
	if !u.Streak.IsValid() {
		return ErrNegativeStreak
	}
	return nil
}

// Achievement records a crossed progress threshold.
type Achievement struct {
	ID         string
	UserID     string
	Criteria   string // e.g. "xp_1000"
	UnlockedAt time.Time
}
