package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/application/query"
)

// SocialHandler serves posts, likes, and the feed.
type SocialHandler struct {
	createPost *command.CreatePostHandler
	toggleLike *command.ToggleLikeHandler
	feed       *query.GetFeedHandler
}

// NewSocialHandler creates a SocialHandler.
func NewSocialHandler(createPost *command.CreatePostHandler, toggleLike *command.ToggleLikeHandler, feed *query.GetFeedHandler) *SocialHandler {
	return &SocialHandler{createPost: createPost, toggleLike: toggleLike, feed: feed}
}

type createPostRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreatePost handles POST /api/v1/posts.
func (h *SocialHandler) CreatePost(c *gin.Context) {
	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	post, err := h.createPost.Handle(c.Request.Context(), command.CreatePostCommand{
		UserID:  userID(c),
		Content: req.Content,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// ToggleLike handles POST /api/v1/posts/:id/like. The same endpoint both
// likes and unlikes; the response reports the committed state.
func (h *SocialHandler) ToggleLike(c *gin.Context) {
	result, err := h.toggleLike.Handle(c.Request.Context(), command.ToggleLikeCommand{
		PostID: c.Param("id"),
		UserID: userID(c),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetFeed handles GET /api/v1/feed. An absent limit parameter applies the
// default page size; an explicit non-numeric or non-positive one is a 400.
func (h *SocialHandler) GetFeed(c *gin.Context) {
	q := query.GetFeedQuery{ViewerID: userID(c)}
	if raw, ok := c.GetQuery("limit"); ok {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: "limit must be an integer"}})
			return
		}
		q.Limit = limit
		q.LimitSet = true
	}

	items, err := h.feed.Handle(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}
