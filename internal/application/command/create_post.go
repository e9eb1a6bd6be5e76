package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/redis"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// CreatePostCommand publishes a post to the feed.
type CreatePostCommand struct {
	UserID  string
	Content string
}

// CreatePostHandler creates posts. Post content is immutable afterwards.
type CreatePostHandler struct {
	posts social.Repository
	cache redis.FeedCache
	bus   shared.EventBus
	log   *logger.Logger
}

// NewCreatePostHandler creates a CreatePostHandler.
func NewCreatePostHandler(posts social.Repository, cache redis.FeedCache, bus shared.EventBus, log *logger.Logger) *CreatePostHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &CreatePostHandler{posts: posts, cache: cache, bus: bus, log: log.With("component", "create_post")}
}

// Handle validates and persists the post.
func (h *CreatePostHandler) Handle(ctx context.Context, cmd CreatePostCommand) (*social.Post, error) {
	post := &social.Post{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		Content:   cmd.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := post.Validate(); err != nil {
		return nil, err
	}

	if err := h.posts.CreatePost(ctx, post); err != nil {
		return nil, err
	}

	if err := h.cache.Invalidate(ctx); err != nil {
		h.log.Warn("feed cache invalidation failed", "post_id", post.ID, "error", err)
	}

	h.bus.Publish(ctx, shared.NewBaseEvent(shared.EventPostCreated, post.ID))
	return post, nil
}
