package command

import (
	"context"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/redis"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// ToggleLikeCommand flips the like state between a user and a post.
type ToggleLikeCommand struct {
	PostID string
	UserID string
}

// Validate checks the command.
func (c *ToggleLikeCommand) Validate() error {
	if c.PostID == "" {
		return shared.NewDomainError("social", "ToggleLike", shared.ErrInvalidID, "post_id is required")
	}
	if c.UserID == "" {
		return shared.NewDomainError("social", "ToggleLike", shared.ErrInvalidID, "user_id is required")
	}
	return nil
}

// ToggleLikeHandler executes like toggles. The repository guarantees the
// atomic check-and-flip; this handler adds cache invalidation and events.
type ToggleLikeHandler struct {
	posts social.Repository
	cache redis.FeedCache
	bus   shared.EventBus
	log   *logger.Logger
}

// NewToggleLikeHandler creates a ToggleLikeHandler.
func NewToggleLikeHandler(posts social.Repository, cache redis.FeedCache, bus shared.EventBus, log *logger.Logger) *ToggleLikeHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &ToggleLikeHandler{posts: posts, cache: cache, bus: bus, log: log.With("component", "toggle_like")}
}

// Handle flips the pair's like state and returns the committed result.
func (h *ToggleLikeHandler) Handle(ctx context.Context, cmd ToggleLikeCommand) (social.ToggleResult, error) {
	if err := cmd.Validate(); err != nil {
		return social.ToggleResult{}, err
	}

	result, err := h.posts.ToggleLike(ctx, cmd.PostID, cmd.UserID)
	if err != nil {
		return social.ToggleResult{}, err
	}

	// The cached feed is stale the moment a count moves.
	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("feed cache invalidation failed", "post_id", cmd.PostID, "error", err)
	}

	h.bus.Publish(ctx, shared.NewLikeToggledEvent(cmd.PostID, cmd.UserID, result.Liked, result.NewCount))
	return result, nil
}
