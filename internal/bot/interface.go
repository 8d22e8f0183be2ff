// Package bot holds what commands, middleware and the Discord runtime share
// without importing each other.
package bot

import (
	"errors"

	"github.com/keshon/beatbob/internal/music/player"
)

var ErrUserNotInVoice = errors.New("user not in any voice channel")

// Voice is what the Discord bot provides to music commands.
type Voice interface {
	// Player returns the engine of a guild, creating it on first use.
	Player(guildID string) (*player.Player, error)
	FindUserVoiceState(guildID, userID string) (*VoiceState, error)
}

// NowPlaying shows the now-playing view of a guild in a text channel,
// replacing an earlier one.
type NowPlaying interface {
	Show(channelID string, s player.Snapshot) error
}

// VoiceState holds minimal voice channel state for a user.
type VoiceState struct {
	ChannelID string
	UserID    string
}
