// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
	"github.com/learnloop/learnloop-hub/internal/infrastructure/persistence/redis"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// GetFeedQuery composes the feed for one viewer.
type GetFeedQuery struct {
	ViewerID string

	// Limit caps the page size. LimitSet distinguishes "caller sent no
	// limit" (default applies) from an explicit non-positive value
	// (rejected).
	Limit    int
	LimitSet bool
}

// GetFeedHandler is the feed read path. It has no side effects and may
// serve a slightly stale cached page, but never a torn one: pages are
// cached only after they were composed from committed state, and every
// like toggle invalidates them.
type GetFeedHandler struct {
	posts   social.Repository
	cache   redis.FeedCache
	ranking social.RankingPolicy
	log     *logger.Logger
}

// NewGetFeedHandler creates a GetFeedHandler.
func NewGetFeedHandler(posts social.Repository, cache redis.FeedCache, ranking social.RankingPolicy, log *logger.Logger) *GetFeedHandler {
	if ranking == nil {
		ranking = social.ChronologicalRanking{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GetFeedHandler{posts: posts, cache: cache, ranking: ranking, log: log.With("component", "get_feed")}
}

// Handle returns the viewer's feed page, newest first.
func (h *GetFeedHandler) Handle(ctx context.Context, q GetFeedQuery) ([]social.FeedItem, error) {
	if q.ViewerID == "" {
		return nil, shared.NewDomainError("social", "ComposeFeed", shared.ErrInvalidID, "viewer_id is required")
	}

	opts, err := social.FeedOptions{Limit: q.Limit}.Normalize(q.LimitSet)
	if err != nil {
		return nil, err
	}

	if items, err := h.cache.Get(ctx, q.ViewerID, opts.Limit); err == nil {
		return h.ranking.Rank(items), nil
	} else if !errors.Is(err, redis.ErrCacheMiss) {
		h.log.Warn("feed cache read failed", "viewer_id", q.ViewerID, "error", err)
	}

	items, err := h.posts.ListFeed(ctx, q.ViewerID, opts.Limit)
	if err != nil {
		return nil, err
	}
	items = h.ranking.Rank(items)

	if err := h.cache.Set(ctx, q.ViewerID, opts.Limit, items); err != nil {
		h.log.Warn("feed cache write failed", "viewer_id", q.ViewerID, "error", err)
	}
	return items, nil
}
