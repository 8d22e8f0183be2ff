package music

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

type JoinCommand struct{ base }

func (c *JoinCommand) Name() string        { return "join" }
func (c *JoinCommand) Description() string { return "You want Beatbob in your life <3" }

func (c *JoinCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *JoinCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Connect(sc.Context(), g.ChannelID); err != nil {
		return userError(err)
	}
	return reply(sc, fmt.Sprintf("Joined '%s'", channelName(sc.Session, g.ChannelID)))
}

// channelName falls back to the ID when the channel is not in the state
// cache.
func channelName(s *discordgo.Session, channelID string) string {
	if s != nil && s.State != nil {
		if ch, err := s.State.Channel(channelID); err == nil && ch.Name != "" {
			return ch.Name
		}
	}
	return channelID
}
