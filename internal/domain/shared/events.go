package shared

import (
	"context"
	"time"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each one marks something the gamification or social
// subsystem did that other components may react to.
const (
	// Progress events
	EventXPAwarded           EventType = "progress.xp_awarded"
	EventStreakExtended      EventType = "progress.streak_extended"
	EventStreakReset         EventType = "progress.streak_reset"
	EventAchievementUnlocked EventType = "progress.achievement_unlocked"

	// Social events
	EventPostCreated EventType = "social.post_created"
	EventPostLiked   EventType = "social.post_liked"
	EventPostUnliked EventType = "social.post_unliked"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced the event.
	AggregateID() string
}

// BaseEvent provides common event fields.
type BaseEvent struct {
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
}

func (e BaseEvent) EventType() EventType  { return e.Type }
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }
func (e BaseEvent) AggregateID() string   { return e.AggregateId }

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{Type: eventType, Timestamp: time.Now().UTC(), AggregateId: aggregateID}
}

// XPAwardedEvent is emitted after a user's XP total was incremented.
type XPAwardedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Amount   int    `json:"amount"`
	NewTotal int    `json:"new_total"`
}

// NewXPAwardedEvent creates an XPAwardedEvent.
func NewXPAwardedEvent(userID string, amount, newTotal int) XPAwardedEvent {
	return XPAwardedEvent{
		BaseEvent: NewBaseEvent(EventXPAwarded, userID),
		UserID:    userID,
		Amount:    amount,
		NewTotal:  newTotal,
	}
}

// StreakChangedEvent is emitted when a streak is extended or reset.
// Extended carries EventStreakExtended, a gap reset EventStreakReset.
type StreakChangedEvent struct {
	BaseEvent
	UserID    string `json:"user_id"`
	NewStreak int    `json:"new_streak"`
}

// NewStreakChangedEvent creates a StreakChangedEvent of the given type.
func NewStreakChangedEvent(eventType EventType, userID string, newStreak int) StreakChangedEvent {
	return StreakChangedEvent{
		BaseEvent: NewBaseEvent(eventType, userID),
		UserID:    userID,
		NewStreak: newStreak,
	}
}

// AchievementUnlockedEvent is emitted when an XP threshold is crossed.
type AchievementUnlockedEvent struct {
	BaseEvent
	UserID   string `json:"user_id"`
	Criteria string `json:"criteria"`
	XPTotal  int    `json:"xp_total"`
}

// NewAchievementUnlockedEvent creates an AchievementUnlockedEvent.
func NewAchievementUnlockedEvent(userID, criteria string, xpTotal int) AchievementUnlockedEvent {
	return AchievementUnlockedEvent{
		BaseEvent: NewBaseEvent(EventAchievementUnlocked, userID),
		UserID:    userID,
		Criteria:  criteria,
		XPTotal:   xpTotal,
	}
}

// LikeToggledEvent is emitted after a like toggle committed.
type LikeToggledEvent struct {
	BaseEvent
	PostID   string `json:"post_id"`
	UserID   string `json:"user_id"`
	Liked    bool   `json:"liked"`
	NewCount int    `json:"new_count"`
}

// NewLikeToggledEvent creates a LikeToggledEvent.
func NewLikeToggledEvent(postID, userID string, liked bool, newCount int) LikeToggledEvent {
	eventType := EventPostUnliked
	if liked {
		eventType = EventPostLiked
	}
	return LikeToggledEvent{
		BaseEvent: NewBaseEvent(eventType, postID),
		PostID:    postID,
		UserID:    userID,
		Liked:     liked,
		NewCount:  newCount,
	}
}

// EventHandler processes a dispatched event.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event Event) error

// Handle implements EventHandler.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	return f(ctx, event)
}

// EventBus publishes domain events to subscribed handlers.
// Publishing is best-effort: a failing handler never fails the command
// that produced the event.
type EventBus interface {
	Publish(ctx context.Context, event Event)
	Subscribe(eventType EventType, handler EventHandler)
}
