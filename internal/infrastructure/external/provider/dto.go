package provider

import (
	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
)

// GenerateRequest is the wire request sent to the content provider.
type GenerateRequest struct {
	Kind   string `json:"kind"`
	Topic  string `json:"topic,omitempty"`
	Role   string `json:"role,omitempty"`
	Prompt string `json:"prompt,omitempty"`
	Count  int    `json:"count,omitempty"`
}

// GenerateResponse is the provider's wire response: a tagged union keyed by
// kind, mirroring learning.Content but kept separate so wire drift never
// leaks into the domain.
type GenerateResponse struct {
	Kind        string                       `json:"kind"`
	Explanation string                       `json:"explanation,omitempty"`
	Questions   []learning.QuizQuestion      `json:"questions,omitempty"`
	Cards       []learning.Flashcard         `json:"cards,omitempty"`
	Interview   []learning.InterviewQuestion `json:"interview,omitempty"`
	Reply       string                       `json:"reply,omitempty"`
	Error       string                       `json:"error,omitempty"`
}

// ToContent validates the wire payload and converts it into domain content.
// This is the single point where untrusted provider output enters the
// data model.
func (r *GenerateResponse) ToContent() (learning.Content, error) {
	content := learning.Content{
		Kind:        learning.ContentKind(r.Kind),
		Explanation: r.Explanation,
		Questions:   r.Questions,
		Cards:       r.Cards,
		Interview:   r.Interview,
		Reply:       r.Reply,
	}

	if err := content.Validate(); err != nil {
		return learning.Content{}, shared.WrapError("provider", "Parse", shared.ErrInvalidFormat,
			"provider returned malformed content", err)
	}
	return content, nil
}
