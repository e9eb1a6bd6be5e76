// Package social contains the post/like model and feed composition rules.
// The single hard invariant lives here: at most one like exists per
// (post, user) pair, and the post's denormalized like count always matches
// the number of like rows.
package social

import (
	"strings"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// Feed limit bounds. Requests above MaxFeedLimit are clamped, never rejected.
const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// Post is a feed entry. Content is immutable after creation; only the
// denormalized like count moves, and only through the like toggle.
type Post struct {
	ID        string
	UserID    string
	Content   string
	LikeCount int
	CreatedAt time.Time
}

// Validate checks post invariants at creation time.
func (p *Post) Validate() error {
	if p.UserID == "" {
		return shared.NewDomainError("social", "CreatePost", shared.ErrInvalidID, "missing user ID")
	}
	if strings.TrimSpace(p.Content) == "" {
		return shared.ErrEmptyPost
	}
	return nil
}

// Like is the relation row for a (post, user) pair. It is created and
// destroyed atomically with the post's like-count adjustment.
type Like struct {
	PostID    string
	UserID    string
	CreatedAt time.Time
}

// ToggleResult is the observable outcome of a like toggle.
type ToggleResult struct {
	Liked    bool `json:"liked"`
	NewCount int  `json:"like_count"`
}

// FeedItem is a post decorated with the viewer's like state.
type FeedItem struct {
	Post  *Post
	Liked bool
}

// FeedOptions controls feed composition.
type FeedOptions struct {
	Limit int
}

// Normalize validates and clamps the limit. A zero limit means the caller
// gave none and gets the default; an explicit non-positive limit is a
// validation error; anything above the maximum is clamped.
func (o FeedOptions) Normalize(explicit bool) (FeedOptions, error) {
	switch {
	case !explicit:
		o.Limit = DefaultFeedLimit
	case o.Limit <= 0:
		return o, shared.ErrInvalidLimit
	case o.Limit > MaxFeedLimit:
		o.Limit = MaxFeedLimit
	}
	return o, nil
}
