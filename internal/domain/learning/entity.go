// Package learning contains the study-content side of the hub: topics,
// generated content sets, and the append-only learning session log that
// feeds the progress ledger.
package learning

import (
	"strings"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// ActivityType enumerates the kinds of qualifying learning activity.
type ActivityType string

const (
	ActivityStudy      ActivityType = "study"
	ActivityQuiz       ActivityType = "quiz"
	ActivityFlashcards ActivityType = "flashcards"
	ActivityInterview  ActivityType = "interview"
	ActivityChat       ActivityType = "chat"
)

// IsValid reports whether the activity type is known.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityStudy, ActivityQuiz, ActivityFlashcards, ActivityInterview, ActivityChat:
		return true
	}
	return false
}

// DefaultXP returns the XP awarded for one activity of this type when the
// caller doesn't supply an explicit amount.
func (t ActivityType) DefaultXP() int {
	switch t {
	case ActivityQuiz:
		return 20
	case ActivityFlashcards:
		return 15
	case ActivityInterview:
		return 25
	case ActivityChat:
		return 5
	default:
		return 10
	}
}

// Topic is a user-created study subject. Immutable once created.
type Topic struct {
	ID        string
	UserID    string
	Title     string
	CreatedAt time.Time
}

// Validate checks topic invariants.
func (t *Topic) Validate() error {
	if t.UserID == "" {
		return shared.NewDomainError("learning", "CreateTopic", shared.ErrInvalidID, "missing user ID")
	}
	if strings.TrimSpace(t.Title) == "" {
		return shared.NewDomainError("learning", "CreateTopic", shared.ErrEmptyValue, "topic title is empty")
	}
	return nil
}

// Session is the immutable audit record of one XP-granting activity.
// One row is created per qualifying activity; it is never mutated after
// creation except for the XPApplied bookkeeping flag, which exists so a
// reconciliation pass can find sessions whose XP never reached the user.
type Session struct {
	ID        string
	UserID    string
	TopicID   *string // nil for non-topic activities
	Type      ActivityType
	XPGained  int
	XPApplied bool
	CreatedAt time.Time
}

// Validate checks session invariants before the row is written.
func (s *Session) Validate() error {
	if s.UserID == "" {
		return shared.NewDomainError("learning", "RecordActivity", shared.ErrInvalidID, "missing user ID")
	}
	if !s.Type.IsValid() {
		return shared.ErrInvalidActivity
	}
	if s.XPGained < 0 {
		return shared.NewDomainError("learning", "RecordActivity", shared.ErrNegativeValue, "xp gained cannot be negative")
	}
	return nil
}
