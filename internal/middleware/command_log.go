package middleware

import (
	"context"
	"log"
	"time"

	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/pkg/cmd"
)

// WithCommandLogger logs every invocation with where it came from and how
// it ended.
func WithCommandLogger() cmd.Middleware {
	return func(c cmd.Command) cmd.Command {
		return cmd.Wrap(c, func(ctx context.Context, inv *cmd.Invocation) error {
			start := time.Now()
			err := c.Run(ctx, inv)

			kind := "command"
			if _, ok := inv.Data.(*command.ComponentInteractionContext); ok {
				kind = "component"
			}

			var guild, channel, user string
			if o, ok := inv.Data.(command.Origin); ok {
				guild, channel, user = o.GuildID(), o.ChannelID(), o.UserID()
			}

			if err != nil {
				log.Printf("[ERR] /%s %s failed | guild=%s channel=%s user=%s took=%s err=%v",
					c.Name(), kind, guild, channel, user, time.Since(start).Round(time.Millisecond), err)
			} else {
				log.Printf("[INFO] /%s %s | guild=%s channel=%s user=%s took=%s",
					c.Name(), kind, guild, channel, user, time.Since(start).Round(time.Millisecond))
			}
			return err
		})
	}
}
