// Package eventhandler contains subscribers for domain events.
package eventhandler

import (
	"context"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// OnAchievementUnlocked logs achievement crossings. Notification delivery
// would hang off this subscriber.
type OnAchievementUnlocked struct {
	log *logger.Logger
}

// NewOnAchievementUnlocked creates the subscriber.
func NewOnAchievementUnlocked(log *logger.Logger) *OnAchievementUnlocked {
	if log == nil {
		log = logger.NewNop()
	}
	return &OnAchievementUnlocked{log: log}
}

// Handle implements shared.EventHandler.
func (h *OnAchievementUnlocked) Handle(_ context.Context, event shared.Event) error {
	unlocked, ok := event.(shared.AchievementUnlockedEvent)
	if !ok {
		return nil
	}
	h.log.Info("achievement unlocked",
		"user_id", unlocked.UserID,
		"criteria", unlocked.Criteria,
		"xp_total", unlocked.XPTotal,
	)
	return nil
}

// Register subscribes the handler on the bus.
func (h *OnAchievementUnlocked) Register(bus shared.EventBus) {
	bus.Subscribe(shared.EventAchievementUnlocked, h)
}
