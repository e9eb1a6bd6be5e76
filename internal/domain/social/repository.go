package social

import "context"

// Repository is the persistence contract for posts and likes.
//
// ToggleLike must execute the check-and-flip as one atomic unit per
// (post, user) pair: concurrent duplicate requests may never produce two
// like rows nor two count increments. Implementations use the unique
// constraint on (post_id, user_id) as the conflict signal and resolve a
// lost race by re-reading current state, not by retrying the flip.
type Repository interface {
	CreatePost(ctx context.Context, p *Post) error
	GetPost(ctx context.Context, id string) (*Post, error)

	// ToggleLike flips the like state for the pair and adjusts the post's
	// like count in the same transaction, returning the committed state.
	ToggleLike(ctx context.Context, postID, userID string) (ToggleResult, error)

	// ListFeed returns the newest posts first, each carrying its current
	// like count and whether viewerID has liked it.
	ListFeed(ctx context.Context, viewerID string, limit int) ([]FeedItem, error)
}
