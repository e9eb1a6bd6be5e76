package query

import (
	"context"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/user"
)

// ProgressSnapshot is a read-only view of a user's progress state. It may
// lag a committed write by a moment but never shows a torn update.
type ProgressSnapshot struct {
	UserID           string              `json:"user_id"`
	XP               int                 `json:"xp"`
	Streak           int                 `json:"streak"`
	LastActivityDate string              `json:"last_activity_date,omitempty"`
	Achievements     []*user.Achievement `json:"achievements,omitempty"`
}

// GetProgressHandler serves progress snapshots without any locking.
type GetProgressHandler struct {
	users        user.Repository
	achievements user.AchievementRepository
}

// NewGetProgressHandler creates a GetProgressHandler.
func NewGetProgressHandler(users user.Repository, achievements user.AchievementRepository) *GetProgressHandler {
	return &GetProgressHandler{users: users, achievements: achievements}
}

// Handle returns the snapshot for one user.
func (h *GetProgressHandler) Handle(ctx context.Context, userID string) (*ProgressSnapshot, error) {
	if userID == "" {
		return nil, shared.NewDomainError("ledger", "GetProgress", shared.ErrInvalidID, "user_id is required")
	}

	u, err := h.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	snapshot := &ProgressSnapshot{
		UserID: u.ID,
		XP:     int(u.XP),
		Streak: int(u.Streak),
	}
	if u.LastActivityDate != nil {
		snapshot.LastActivityDate = u.LastActivityDate.String()
	}

	achievements, err := h.achievements.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	snapshot.Achievements = achievements

	return snapshot, nil
}
