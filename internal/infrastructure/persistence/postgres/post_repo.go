package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/internal/domain/social"
)

// errToggleRaced aborts the toggle transaction when a concurrent writer won
// the insert race; the caller answers with the now-current state instead.
var errToggleRaced = errors.New("postgres: like toggle lost insert race")

// PostRepository implements social.Repository for PostgreSQL.
type PostRepository struct {
	conn *Connection
}

// NewPostRepository creates a new PostRepository.
func NewPostRepository(conn *Connection) *PostRepository {
	return &PostRepository{conn: conn}
}

// CreatePost inserts a post.
func (r *PostRepository) CreatePost(ctx context.Context, p *social.Post) error {
	query := `
		INSERT INTO posts (id, user_id, content, like_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.conn.Exec(ctx, query, p.ID, p.UserID, p.Content, p.LikeCount, p.CreatedAt); err != nil {
		if IsForeignKeyViolation(err) {
			return shared.ErrUserNotFound
		}
		return shared.WrapError("social", "CreatePost", shared.ErrStore, "failed to create post", err)
	}
	return nil
}

// GetPost returns a post by ID.
func (r *PostRepository) GetPost(ctx context.Context, id string) (*social.Post, error) {
	query := `SELECT id, user_id, content, like_count, created_at FROM posts WHERE id = $1`

	var p social.Post
	err := r.conn.QueryRow(ctx, query, id).Scan(&p.ID, &p.UserID, &p.Content, &p.LikeCount, &p.CreatedAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrPostNotFound
		}
		return nil, shared.WrapError("social", "FindPost", shared.ErrStore, "failed to load post", err)
	}
	return &p, nil
}

// ToggleLike flips the like state for (postID, userID) as one atomic unit.
//
// Inside a single transaction: delete the like row first; if a row was
// deleted this toggle is an unlike and the count decrements. Otherwise
// insert the row and increment. A unique violation on the insert means a
// concurrent toggle for the same pair committed between our delete and
// insert - the transaction rolls back and the current committed state is
// returned instead of blindly re-flipping, which would double-toggle.
func (r *PostRepository) ToggleLike(ctx context.Context, postID, userID string) (social.ToggleResult, error) {
	var result social.ToggleResult

	err := r.conn.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("failed to delete like: %w", err)
		}

		if tag.RowsAffected() == 1 {
			// Unlike: the delete and the decrement commit together.
			err := tx.QueryRow(ctx, `
				UPDATE posts SET like_count = GREATEST(like_count - 1, 0)
				WHERE id = $1
				RETURNING like_count
			`, postID).Scan(&result.NewCount)
			if err != nil {
				return fmt.Errorf("failed to decrement like count: %w", err)
			}
			result.Liked = false
			return nil
		}

		// Like: insert the relation row, then increment in the same tx.
		_, err = tx.Exec(ctx, `
			INSERT INTO likes (post_id, user_id, created_at)
			VALUES ($1, $2, NOW())
		`, postID, userID)
		if err != nil {
			if IsUniqueViolation(err) {
				return errToggleRaced
			}
			if IsForeignKeyViolation(err) {
				return shared.ErrPostNotFound
			}
			return fmt.Errorf("failed to insert like: %w", err)
		}

		err = tx.QueryRow(ctx, `
			UPDATE posts SET like_count = like_count + 1
			WHERE id = $1
			RETURNING like_count
		`, postID).Scan(&result.NewCount)
		if err != nil {
			if IsNoRows(err) {
				return shared.ErrPostNotFound
			}
			return fmt.Errorf("failed to increment like count: %w", err)
		}
		result.Liked = true
		return nil
	})

	if errors.Is(err, errToggleRaced) {
		// The concurrent writer's flip is the committed truth; report it.
		return r.likeState(ctx, postID, userID)
	}
	if err != nil {
		if errors.Is(err, shared.ErrPostNotFound) {
			return social.ToggleResult{}, shared.ErrPostNotFound
		}
		return social.ToggleResult{}, shared.WrapError("social", "ToggleLike", shared.ErrStore, "toggle failed", err)
	}
	return result, nil
}

// likeState reads the committed like state for a pair.
func (r *PostRepository) likeState(ctx context.Context, postID, userID string) (social.ToggleResult, error) {
	query := `
		SELECT p.like_count,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $2)
		FROM posts p
		WHERE p.id = $1
	`

	var result social.ToggleResult
	err := r.conn.QueryRow(ctx, query, postID, userID).Scan(&result.NewCount, &result.Liked)
	if err != nil {
		if IsNoRows(err) {
			return social.ToggleResult{}, shared.ErrPostNotFound
		}
		return social.ToggleResult{}, shared.WrapError("social", "ToggleLike", shared.ErrStore, "failed to read like state", err)
	}
	return result, nil
}

// ListFeed returns the newest posts with the viewer's like flag attached.
// Reads take no locks; they see committed state only.
func (r *PostRepository) ListFeed(ctx context.Context, viewerID string, limit int) ([]social.FeedItem, error) {
	query := `
		SELECT p.id, p.user_id, p.content, p.like_count, p.created_at,
		       EXISTS(SELECT 1 FROM likes l WHERE l.post_id = p.id AND l.user_id = $1)
		FROM posts p
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	rows, err := r.conn.Query(ctx, query, viewerID, limit)
	if err != nil {
		return nil, shared.WrapError("social", "ComposeFeed", shared.ErrStore, "query failed", err)
	}
	defer rows.Close()

	var items []social.FeedItem
	for rows.Next() {
		var (
			p     social.Post
			liked bool
		)
		if err := rows.Scan(&p.ID, &p.UserID, &p.Content, &p.LikeCount, &p.CreatedAt, &liked); err != nil {
			return nil, fmt.Errorf("failed to scan feed item: %w", err)
		}
		items = append(items, social.FeedItem{Post: &p, Liked: liked})
	}
	return items, rows.Err()
}
