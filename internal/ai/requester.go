package ai

import (
	"context"

	"github.com/robalyx/arbiter/internal/ai/client"
	"go.uber.org/zap"
)

// Reply is the text to show for one request. Failed marks a failure string
// returned in place of a model reply.
type Reply struct {
	Text   string
	Failed bool
}

// Requester sends prompts to the text generator and contains every failure.
type Requester struct {
	generator client.TextGenerator
	logger    *zap.Logger
}

// NewRequester creates a requester. A nil generator puts the requester in
// always-fail mode.
func NewRequester(generator client.TextGenerator, logger *zap.Logger) *Requester {
	return &Requester{
		generator: generator,
		logger:    logger.Named("ai_requester"),
	}
}

// Connected reports whether a generator is configured.
func (r *Requester) Connected() bool {
	return r.generator != nil
}

// Request makes exactly one generation call. It never returns an error: any
// failure is logged and replaced with a fixed failure string.
func (r *Requester) Request(ctx context.Context, prompt, systemInstruction string) Reply {
	if r.generator == nil {
		r.logger.Error("Text generation is not configured")
		return Reply{Text: NotConnectedReply, Failed: true}
	}

	text, err := r.generator.GenerateText(ctx, systemInstruction, RequestPrefix+prompt)
	if err != nil {
		r.logger.Error("Text generation failed",
			zap.Int("prompt_length", len(prompt)),
			zap.Error(err))
		return Reply{Text: InternalErrorReply, Failed: true}
	}

	return Reply{Text: text}
}

// Decide asks for a ticket decision under the accounting rulebook.
func (r *Requester) Decide(ctx context.Context, transcriptPrompt string) Reply {
	return r.Request(ctx, transcriptPrompt, AccountingSystemPrompt)
}

// Chat asks a free-form question under the friendly-assistant instruction.
func (r *Requester) Chat(ctx context.Context, question string) Reply {
	return r.Request(ctx, ChatPromptPrefix+question, GeneralChatSystemPrompt)
}
