package bot

import (
	"errors"

	"github.com/keshon/beatbob/internal/music/player"
)

const (
	MsgNotInVoice      = "You must be in a voice channel."
	MsgBotNotConnected = "I am not connected to a voice channel"
	MsgNotSameChannel  = "You must be in the same voice channel as the bot to use that command"
)

// VoiceGrant proves a user passed a voice check. Commands act on Player only
// through a grant.
type VoiceGrant struct {
	GuildID   string
	UserID    string
	ChannelID string // the user's voice channel
	Player    *player.Player
}

// CheckInVoice grants access when the user is in any voice channel of the
// guild.
func CheckInVoice(v Voice, guildID, userID string) (*VoiceGrant, error) {
	vs, err := v.FindUserVoiceState(guildID, userID)
	if err != nil || vs == nil || vs.ChannelID == "" {
		if err != nil && !errors.Is(err, ErrUserNotInVoice) {
			return nil, err
		}
		return nil, NewUserInputError(MsgNotInVoice)
	}

	p, err := v.Player(guildID)
	if err != nil {
		return nil, err
	}
	return &VoiceGrant{GuildID: guildID, UserID: userID, ChannelID: vs.ChannelID, Player: p}, nil
}

// CheckSameVoiceChannel grants access when the bot is connected and the user
// is in the same voice channel.
func CheckSameVoiceChannel(v Voice, guildID, userID string) (*VoiceGrant, error) {
	g, err := CheckInVoice(v, guildID, userID)
	if err != nil {
		return nil, err
	}

	botChannel := g.Player.ChannelID()
	if botChannel == "" {
		return nil, NewUserInputError(MsgBotNotConnected)
	}
	if botChannel != g.ChannelID {
		return nil, NewUserInputError(MsgNotSameChannel)
	}
	return g, nil
}
