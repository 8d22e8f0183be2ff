package middleware

import (
	"context"

	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/pkg/cmd"
)

const msgGuildOnly = "This command can only be used in a server."

// WithGuildOnly rejects interactions that do not come from a guild.
func WithGuildOnly() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			if o, ok := inv.Data.(command.Origin); ok && o.GuildID() == "" {
				return bot.NewUserInputError(msgGuildOnly)
			}
			return c.Run(ctx, inv)
		})
	}
}
