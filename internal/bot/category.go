package bot

import (
	"context"
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	discordclient "github.com/robalyx/arbiter/internal/discord/client"
)

// ChannelLookup describes a single channel.
type ChannelLookup func(ctx context.Context, channelID snowflake.ID) (discordclient.ChannelInfo, error)

// ResolveCategory returns the category a message channel sits in. Threads take
// the category of their parent channel.
func ResolveCategory(ctx context.Context, lookup ChannelLookup, channelID snowflake.ID) (snowflake.ID, error) {
	info, err := lookup(ctx, channelID)
	if err != nil {
		return 0, err
	}

	if !info.Thread || info.ParentID == 0 {
		return info.ParentID, nil
	}

	parent, err := lookup(ctx, info.ParentID)
	if err != nil {
		return 0, fmt.Errorf("failed to resolve thread parent %d: %w", info.ParentID, err)
	}
	return parent.ParentID, nil
}
