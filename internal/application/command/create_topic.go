package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
)

// CreateTopicCommand creates a study topic.
type CreateTopicCommand struct {
	UserID string
	Title  string
}

// CreateTopicHandler creates topics.
type CreateTopicHandler struct {
	topics learning.TopicRepository
}

// NewCreateTopicHandler creates a CreateTopicHandler.
func NewCreateTopicHandler(topics learning.TopicRepository) *CreateTopicHandler {
	return &CreateTopicHandler{topics: topics}
}

// Handle validates and persists the topic.
func (h *CreateTopicHandler) Handle(ctx context.Context, cmd CreateTopicCommand) (*learning.Topic, error) {
	topic := &learning.Topic{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		Title:     cmd.Title,
		CreatedAt: time.Now().UTC(),
	}
	if err := topic.Validate(); err != nil {
		return nil, err
	}
	if err := h.topics.Create(ctx, topic); err != nil {
		return nil, err
	}
	return topic, nil
}
