package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/learnloop/learnloop-hub/internal/domain/learning"
	"github.com/learnloop/learnloop-hub/internal/domain/shared"
	"github.com/learnloop/learnloop-hub/pkg/logger"
)

// scriptedProvider satisfies ContentProvider from canned responses.
type scriptedProvider struct {
	content learning.Content
	err     error
	calls   int
}

func (p *scriptedProvider) respond() (learning.Content, error) {
	p.calls++
	if p.err != nil {
		return learning.Content{}, p.err
	}
	return p.content, nil
}

func (p *scriptedProvider) Explain(context.Context, string) (learning.Content, error) {
	return p.respond()
}
func (p *scriptedProvider) Quiz(context.Context, string, int) (learning.Content, error) {
	return p.respond()
}
func (p *scriptedProvider) Flashcards(context.Context, string, int) (learning.Content, error) {
	return p.respond()
}
func (p *scriptedProvider) Interview(context.Context, string, int) (learning.Content, error) {
	return p.respond()
}
func (p *scriptedProvider) Chat(context.Context, string) (learning.Content, error) {
	return p.respond()
}

type generateFixture struct {
	handler  *GenerateContentHandler
	provider *scriptedProvider
	users    *memUserRepo
	sessions *memSessionRepo
	content  *memContentRepo
	topics   *memTopicRepo
}

func newGenerateFixture(provider *scriptedProvider) *generateFixture {
	users := newMemUserRepo()
	users.seed(seededUser("u1"))
	sessions := newMemSessionRepo()
	content := newMemContentRepo()
	topics := newMemTopicRepo()
	ledger := NewProgressLedger(users, sessions, newMemAchievementRepo(), &recordingBus{}, logger.NewNop())
	return &generateFixture{
		handler:  NewGenerateContentHandler(provider, content, topics, ledger, logger.NewNop()),
		provider: provider,
		users:    users,
		sessions: sessions,
		content:  content,
		topics:   topics,
	}
}

func TestGenerateContent_StoresAndRecordsActivity(t *testing.T) {
	fix := newGenerateFixture(&scriptedProvider{
		content: learning.Content{Kind: learning.KindQuiz, Questions: []learning.QuizQuestion{
			{Question: "What closes a channel?", Options: []string{"close()", "delete()"}, AnswerIndex: 0},
		}},
	})

	result, err := fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID:  "u1",
		Kind:    learning.KindQuiz,
		Subject: "channels",
		Count:   1,
	})
	require.NoError(t, err)
	require.NotNil(t, result.ContentSet)
	require.NotNil(t, result.Activity)

	assert.Equal(t, 20, result.Activity.XPTotal, "quiz default XP")
	assert.Equal(t, 1, result.Activity.Streak)

	stored, err := fix.content.GetByID(context.Background(), result.ContentSet.ID)
	require.NoError(t, err)
	assert.Equal(t, learning.KindQuiz, stored.Content.Kind)
}

func TestGenerateContent_ProviderFailureLeavesNoState(t *testing.T) {
	fix := newGenerateFixture(&scriptedProvider{err: shared.ErrProviderFailed})

	_, err := fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID:  "u1",
		Kind:    learning.KindChat,
		Subject: "how do I test goroutines?",
	})
	require.Error(t, err)
	assert.True(t, shared.IsProvider(err))

	u, err := fix.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, int(u.XP), "failed generation must not award XP")

	unapplied, err := fix.sessions.ListUnapplied(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, unapplied, "failed generation must not write sessions")
}

func TestGenerateContent_Validation(t *testing.T) {
	fix := newGenerateFixture(&scriptedProvider{})

	_, err := fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID: "u1", Kind: learning.ContentKind("podcast"), Subject: "x",
	})
	assert.ErrorIs(t, err, shared.ErrUnknownContent)

	_, err = fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID: "u1", Kind: learning.KindChat, Subject: "  ",
	})
	assert.True(t, shared.IsValidation(err))

	assert.Zero(t, fix.provider.calls, "invalid commands must not reach the provider")
}

func TestGenerateContent_UnknownTopic(t *testing.T) {
	fix := newGenerateFixture(&scriptedProvider{})

	_, err := fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID:  "u1",
		TopicID: "ghost",
		Kind:    learning.KindChat,
		Subject: "hello",
	})
	assert.True(t, shared.IsNotFound(err))
	assert.Zero(t, fix.provider.calls)
}

func TestGenerateContent_LedgerFailureKeepsContent(t *testing.T) {
	fix := newGenerateFixture(&scriptedProvider{
		content: learning.Content{Kind: learning.KindChat, Reply: "use t.Parallel()"},
	})
	// Knock the user out so the XP award fails after the content is stored.
	fix.users.incrementErr = shared.ErrStore

	result, err := fix.handler.Handle(context.Background(), GenerateContentCommand{
		UserID:  "u1",
		Kind:    learning.KindChat,
		Subject: "testing",
	})
	require.Error(t, err)
	require.NotNil(t, result, "stored content is surfaced alongside the error")
	require.NotNil(t, result.ContentSet)
	assert.Nil(t, result.Activity)

	stored, err := fix.content.GetByID(context.Background(), result.ContentSet.ID)
	require.NoError(t, err)
	assert.Equal(t, "use t.Parallel()", stored.Content.Reply)
}
