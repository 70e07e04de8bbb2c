package ai_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/robalyx/arbiter/internal/ai"
	"github.com/robalyx/arbiter/internal/ai/client"
	"github.com/robalyx/arbiter/internal/moderation/verdict"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type call struct {
	system string
	prompt string
}

type fakeGenerator struct {
	reply string
	err   error
	calls []call
}

func (f *fakeGenerator) GenerateText(_ context.Context, systemInstruction, prompt string) (string, error) {
	f.calls = append(f.calls, call{system: systemInstruction, prompt: prompt})
	return f.reply, f.err
}

func TestRequestWithoutGenerator(t *testing.T) {
	t.Parallel()

	requester := ai.NewRequester(nil, zaptest.NewLogger(t))
	assert.False(t, requester.Connected())

	reply := requester.Request(t.Context(), "prompt", "system")
	assert.True(t, reply.Failed)
	assert.Equal(t, ai.NotConnectedReply, reply.Text)
}

func TestRequestReturnsReplyVerbatim(t *testing.T) {
	t.Parallel()

	raw := "  تم تطبيق التحذير الأول.\n[ACTION: WARN_1]  "
	gen := &fakeGenerator{reply: raw}
	requester := ai.NewRequester(gen, zaptest.NewLogger(t))

	reply := requester.Request(t.Context(), "the prompt", "the system")
	assert.False(t, reply.Failed)
	assert.Equal(t, raw, reply.Text)

	require.Len(t, gen.calls, 1)
	assert.Equal(t, "the system", gen.calls[0].system)
	assert.Equal(t, ai.RequestPrefix+"the prompt", gen.calls[0].prompt)
}

func TestRequestContainsErrors(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		errors.New("connection reset"),
		client.ErrContentBlocked,
		client.ErrEmptyResponse,
		context.DeadlineExceeded,
	} {
		t.Run(err.Error(), func(t *testing.T) {
			t.Parallel()

			gen := &fakeGenerator{err: err}
			requester := ai.NewRequester(gen, zaptest.NewLogger(t))

			reply := requester.Request(t.Context(), "prompt", "system")
			assert.True(t, reply.Failed)
			assert.Equal(t, ai.InternalErrorReply, reply.Text)
			assert.Len(t, gen.calls, 1, "exactly one attempt")
		})
	}
}

func TestDecideAndChatInstructions(t *testing.T) {
	t.Parallel()

	gen := &fakeGenerator{reply: "ok"}
	requester := ai.NewRequester(gen, zaptest.NewLogger(t))

	requester.Decide(t.Context(), "سجل التذكرة")
	requester.Chat(t.Context(), "كيف حالك؟")

	require.Len(t, gen.calls, 2)
	assert.Equal(t, ai.AccountingSystemPrompt, gen.calls[0].system)
	assert.Equal(t, ai.RequestPrefix+"سجل التذكرة", gen.calls[0].prompt)
	assert.Equal(t, ai.GeneralChatSystemPrompt, gen.calls[1].system)
	assert.Equal(t, ai.RequestPrefix+ai.ChatPromptPrefix+"كيف حالك؟", gen.calls[1].prompt)
}

func TestFailureRepliesParseAsNoDecision(t *testing.T) {
	t.Parallel()

	for _, text := range []string{ai.NotConnectedReply, ai.InternalErrorReply} {
		assert.NotContains(t, text, verdict.ActionMarker)

		got := verdict.Parse(text)
		assert.Equal(t, verdict.DecisionNone, got.Tag)
		assert.Equal(t, text, got.Rationale)
	}
}

func TestRulebookListsEveryMarker(t *testing.T) {
	t.Parallel()

	for _, tag := range []string{"WARN_1", "WARN_2", "WARN_3", "BLACKLIST", "NONE", "WAIT"} {
		assert.True(t, strings.Contains(ai.AccountingSystemPrompt, "[ACTION: "+tag+"]"), tag)
	}
}
