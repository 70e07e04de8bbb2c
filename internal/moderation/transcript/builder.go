package transcript

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/disgoorg/snowflake/v2"
	"github.com/robalyx/arbiter/internal/moderation/chat"
	"go.uber.org/zap"
)

// DefaultWindow is the number of recent messages sent to the model.
const DefaultWindow = 10

// TicketPromptTemplate frames the transcript for the accounting rulebook.
// The placeholder receives the newline-joined transcript lines.
const TicketPromptTemplate = "سجل التذكرة:\n---\n%s\n---\nبناءً على القوانين، ما هو القرار والإجراء المطلوب؟ أجب موجهاً للعضو الذي يتم محاسبته."

// Transcript is an ordered, oldest-first rendering of a channel window.
type Transcript struct {
	Lines []string
}

// String joins the transcript lines.
func (t Transcript) String() string {
	return strings.Join(t.Lines, "\n")
}

// Prompt wraps the transcript in the ticket prompt.
func (t Transcript) Prompt() string {
	return fmt.Sprintf(TicketPromptTemplate, t.String())
}

// Builder renders channel history into transcripts.
type Builder struct {
	fetcher chat.MessageFetcher
	window  int
	logger  *zap.Logger
}

// NewBuilder creates a builder with the given window. A non-positive window
// falls back to DefaultWindow.
func NewBuilder(fetcher chat.MessageFetcher, window int, logger *zap.Logger) *Builder {
	if window <= 0 {
		window = DefaultWindow
	}

	return &Builder{
		fetcher: fetcher,
		window:  window,
		logger:  logger.Named("transcript"),
	}
}

// Build fetches the latest window of messages and renders them oldest first.
func (b *Builder) Build(ctx context.Context, channelID snowflake.ID) (Transcript, error) {
	messages, err := b.fetcher.RecentMessages(ctx, channelID, b.window)
	if err != nil {
		return Transcript{}, fmt.Errorf("failed to fetch channel history: %w", err)
	}

	// Guard against collaborators that ignore the limit
	if len(messages) > b.window {
		messages = messages[:b.window]
	}

	lines := make([]string, 0, len(messages))
	for _, msg := range slices.Backward(messages) {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Author, msg.Content))
	}

	b.logger.Debug("Built ticket transcript",
		zap.Uint64("channel_id", uint64(channelID)),
		zap.Int("lines", len(lines)))

	return Transcript{Lines: lines}, nil
}
