package command

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// ContentProvider is the capability contract for the external content
// generator. Each call takes a topic/role/prompt and returns validated
// domain content or a provider error.
type ContentProvider interface {
	Explain(ctx context.Context, topic string) (learning.Content, error)
	Quiz(ctx context.Context, topic string, count int) (learning.Content, error)
	Flashcards(ctx context.Context, topic string, count int) (learning.Content, error)
	Interview(ctx context.Context, role string, count int) (learning.Content, error)
	Chat(ctx context.Context, prompt string) (learning.Content, error)
}

// GenerateContentCommand requests one piece of generated study content.
type GenerateContentCommand struct {
	UserID  string
	TopicID string // optional link to a stored topic
	Kind    learning.ContentKind
	Subject string // topic title, interview role, or chat prompt
	Count   int    // question/card count hint for set kinds
}

// Validate checks the command before the provider is called; a provider
// failure therefore never leaves partial state behind.
func (c *GenerateContentCommand) Validate() error {
	if c.UserID == "" {
		return shared.NewDomainError("learning", "GenerateContent", shared.ErrInvalidID, "user_id is required")
	}
	if !c.Kind.IsValid() {
		return shared.ErrUnknownContent
	}
	if strings.TrimSpace(c.Subject) == "" {
		return shared.NewDomainError("learning", "GenerateContent", shared.ErrEmptyValue, "subject is required")
	}
	if c.Count < 0 {
		return shared.NewDomainError("learning", "GenerateContent", shared.ErrNegativeValue, "count cannot be negative")
	}
	return nil
}

// GenerateContentResult carries the stored content and the ledger outcome.
type GenerateContentResult struct {
	ContentSet *learning.ContentSet  `json:"content_set"`
	Activity   *RecordActivityResult `json:"activity"`
}

// GenerateContentHandler orchestrates a provider call: generate, persist
// the response verbatim, then record the learning activity in the ledger.
type GenerateContentHandler struct {
	provider ContentProvider
	content  learning.ContentRepository
	topics   learning.TopicRepository
	ledger   *ProgressLedger
	log      *logger.Logger
}

// NewGenerateContentHandler creates a GenerateContentHandler.
func NewGenerateContentHandler(
	provider ContentProvider,
	content learning.ContentRepository,
	topics learning.TopicRepository,
	ledger *ProgressLedger,
	log *logger.Logger,
) *GenerateContentHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &GenerateContentHandler{
		provider: provider,
		content:  content,
		topics:   topics,
		ledger:   ledger,
		log:      log.With("component", "generate_content"),
	}
}

// Handle runs the full generate-store-record flow.
func (h *GenerateContentHandler) Handle(ctx context.Context, cmd GenerateContentCommand) (*GenerateContentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if cmd.TopicID != "" {
		if _, err := h.topics.GetByID(ctx, cmd.TopicID); err != nil {
			return nil, err
		}
	}

	content, err := h.generate(ctx, cmd)
	if err != nil {
		// Provider failures happen before any mutation; nothing to undo.
		return nil, err
	}

	cs := &learning.ContentSet{
		ID:        uuid.NewString(),
		UserID:    cmd.UserID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if cmd.TopicID != "" {
		topicID := cmd.TopicID
		cs.TopicID = &topicID
	}
	if err := h.content.Create(ctx, cs); err != nil {
		return nil, err
	}

	activity, err := h.ledger.Handle(ctx, RecordActivityCommand{
		UserID:  cmd.UserID,
		TopicID: cmd.TopicID,
		Type:    cmd.Kind.ActivityType(),
	})
	if err != nil {
		// The content is stored and usable even when progress accounting
		// failed; surface the error with the content attached.
		h.log.Error("activity recording failed after content store",
			"content_id", cs.ID, "user_id", cmd.UserID, "error", err)
		return &GenerateContentResult{ContentSet: cs}, err
	}

	return &GenerateContentResult{ContentSet: cs, Activity: activity}, nil
}

func (h *GenerateContentHandler) generate(ctx context.Context, cmd GenerateContentCommand) (learning.Content, error) {
	switch cmd.Kind {
	case learning.KindExplanation:
		return h.provider.Explain(ctx, cmd.Subject)
	case learning.KindQuiz:
		return h.provider.Quiz(ctx, cmd.Subject, cmd.Count)
	case learning.KindFlashcards:
		return h.provider.Flashcards(ctx, cmd.Subject, cmd.Count)
	case learning.KindInterview:
		return h.provider.Interview(ctx, cmd.Subject, cmd.Count)
	case learning.KindChat:
		return h.provider.Chat(ctx, cmd.Subject)
	default:
		return learning.Content{}, shared.ErrUnknownContent
	}
}
