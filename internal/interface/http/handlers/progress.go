package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnloop/learnloop-hub/internal/application/command"
	"github.com/learnloop/learnloop-hub/internal/application/query"
	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/pkg/timeutil"
)

// ProgressHandler serves the progress ledger endpoints.
type ProgressHandler struct {
	ledger   *command.ProgressLedger
	progress *query.GetProgressHandler
}

// NewProgressHandler creates a ProgressHandler.
func NewProgressHandler(ledger *command.ProgressLedger, progress *query.GetProgressHandler) *ProgressHandler {
	return &ProgressHandler{ledger: ledger, progress: progress}
}

type recordActivityRequest struct {
	TopicID  string `json:"topic_id"`
	Type     string `json:"type" binding:"required"`
	XPGained int    `json:"xp_gained"`

	// ActivityDate is an ISO calendar date ("2025-03-14"). Empty means
	// today. Accepting past dates lets clients replay buffered offline
	// activity; out-of-order days never damage the streak.
	ActivityDate string `json:"activity_date"`
}

// RecordActivity handles POST /api/v1/activities.
func (h *ProgressHandler) RecordActivity(c *gin.Context) {
	var req recordActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: err.Error()}})
		return
	}

	cmd := command.RecordActivityCommand{
		UserID:   userID(c),
		TopicID:  req.TopicID,
		Type:     learning.ActivityType(req.Type),
		XPGained: req.XPGained,
	}
	if req.ActivityDate != "" {
		date, err := timeutil.ParseDate(req.ActivityDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errorBody{Code: "validation", Message: "activity_date must be YYYY-MM-DD"}})
			return
		}
		cmd.ActivityDate = date
	}

	result, err := h.ledger.Handle(c.Request.Context(), cmd)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetProgress handles GET /api/v1/progress.
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	snapshot, err := h.progress.Handle(c.Request.Context(), userID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
