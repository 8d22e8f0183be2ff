package middleware

import (
	"context"

	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/pkg/cmd"
)

// WithUserInVoice lets a slash command through only when the caller is in a
// voice channel, and hands it a grant for that channel.
func WithUserInVoice(v bot.Voice) cmd.Middleware {
	return withVoiceCheck(v, bot.CheckInVoice)
}

// WithSameVoiceChannel lets a slash command through only when the bot is
// connected and the caller is in its voice channel.
func WithSameVoiceChannel(v bot.Voice) cmd.Middleware {
	return withVoiceCheck(v, bot.CheckSameVoiceChannel)
}

type voiceCheck func(v bot.Voice, guildID, userID string) (*bot.VoiceGrant, error)

func withVoiceCheck(v bot.Voice, check voiceCheck) cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			sc, ok := inv.Data.(*command.SlashInteractionContext)
			if !ok {
				return c.Run(ctx, inv)
			}

			grant, err := check(v, sc.GuildID(), sc.UserID())
			if err != nil {
				return err
			}
			sc.Grant = grant
			return c.Run(ctx, inv)
		})
	}
}
