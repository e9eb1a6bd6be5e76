package learning

import (
	"strings"
	"time"

	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// ContentKind tags the union of provider content shapes.
type ContentKind string

const (
	KindExplanation ContentKind = "explanation"
	KindQuiz        ContentKind = "quiz"
	KindFlashcards  ContentKind = "flashcards"
	KindInterview   ContentKind = "interview"
	KindChat        ContentKind = "chat"
)

// IsValid reports whether the content kind is known.
func (k ContentKind) IsValid() bool {
	switch k {
	case KindExplanation, KindQuiz, KindFlashcards, KindInterview, KindChat:
		return true
	}
	return false
}

// ActivityType maps a content kind to the activity it represents.
func (k ContentKind) ActivityType() ActivityType {
	switch k {
	case KindQuiz:
		return ActivityQuiz
	case KindFlashcards:
		return ActivityFlashcards
	case KindInterview:
		return ActivityInterview
	case KindChat:
		return ActivityChat
	default:
		return ActivityStudy
	}
}

// QuizQuestion is one multiple-choice question.
type QuizQuestion struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	AnswerIndex int      `json:"answer_index"`
	Explanation string   `json:"explanation,omitempty"`
}

// Flashcard is one front/back card.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// InterviewQuestion is one interview question with a model answer.
type InterviewQuestion struct {
	Question    string `json:"question"`
	ModelAnswer string `json:"model_answer,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
}

// Content is the tagged union of provider payloads. Exactly the field
// matching Kind is populated; everything else stays nil/empty. Content is
// validated once at the provider boundary and stored verbatim afterwards.
type Content struct {
	Kind ContentKind `json:"kind"`

	Explanation string              `json:"explanation,omitempty"`
	Questions   []QuizQuestion      `json:"questions,omitempty"`
	Cards       []Flashcard         `json:"cards,omitempty"`
	Interview   []InterviewQuestion `json:"interview,omitempty"`
	Reply       string              `json:"reply,omitempty"`
}

// Validate checks that the payload matches its tag and is non-empty.
func (c *Content) Validate() error {
	if !c.Kind.IsValid() {
		return shared.ErrUnknownContent
	}

	switch c.Kind {
	case KindExplanation:
		if strings.TrimSpace(c.Explanation) == "" {
			return shared.ErrEmptyContent
		}
	case KindQuiz:
		if len(c.Questions) == 0 {
			return shared.ErrEmptyContent
		}
		for _, q := range c.Questions {
			if strings.TrimSpace(q.Question) == "" || len(q.Options) < 2 {
				return shared.ErrMalformedContent
			}
			if q.AnswerIndex < 0 || q.AnswerIndex >= len(q.Options) {
				return shared.ErrMalformedContent
			}
		}
	case KindFlashcards:
		if len(c.Cards) == 0 {
			return shared.ErrEmptyContent
		}
		for _, card := range c.Cards {
			if strings.TrimSpace(card.Front) == "" || strings.TrimSpace(card.Back) == "" {
				return shared.ErrMalformedContent
			}
		}
	case KindInterview:
		if len(c.Interview) == 0 {
			return shared.ErrEmptyContent
		}
		for _, q := range c.Interview {
			if strings.TrimSpace(q.Question) == "" {
				return shared.ErrMalformedContent
			}
		}
	case KindChat:
		if strings.TrimSpace(c.Reply) == "" {
			return shared.ErrEmptyContent
		}
	}

	return nil
}

// ContentSet is a stored provider response: created once from a single
// provider call, written verbatim, never partially.
type ContentSet struct {
	ID        string
	UserID    string
	TopicID   *string
	Content   Content
	CreatedAt time.Time
}
