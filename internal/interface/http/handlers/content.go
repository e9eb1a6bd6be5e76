package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/domain/learning"
)

// ContentHandler serves topics and content generation.
type ContentHandler struct {
	generate *command.GenerateContentHandler
	topics   *command.CreateTopicHandler
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(generate *command.GenerateContentHandler, topics *command.CreateTopicHandler) *ContentHandler {
	return &ContentHandler{generate: generate, topics: topics}
}

type createTopicRequest struct {
	Title string `json:"title" binding:"required"`
}

// CreateTopic handles POST /api/v1/topics.
func (h *ContentHandler) CreateTopic(c *gin.Context) {
	var req createTopicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	topic, err := h.topics.Handle(c.Request.Context(), command.CreateTopicCommand{
		UserID: userID(c),
		Title:  req.Title,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, topic)
}

type generateRequest struct {
	TopicID string `json:"topic_id"`
	Subject string `json:"subject" binding:"required"`
	Count   int    `json:"count"`
}

// Generate handles POST /api/v1/content/:kind where :kind is one of
// explanation, quiz, flashcards, interview, or chat. A generation that
// succeeds also records the matching learning activity.
func (h *ContentHandler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	result, err := h.generate.Handle(c.Request.Context(), command.GenerateContentCommand{
		UserID:  userID(c),
		TopicID: req.TopicID,
		Kind:    learning.ContentKind(c.Param("kind")),
		Subject: req.Subject,
		Count:   req.Count,
	})
	if err != nil {
		// The content may have been generated and stored even though the
		// activity could not be recorded; surface what we have.
		if result != nil && result.ContentSet != nil {
			c.JSON(http.StatusCreated, result)
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}
