package music

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
)

// DefaultQueuePreview is how many upcoming tracks /queue lists by default.
const DefaultQueuePreview = 10

type QueueCommand struct {
	base
	Voice   bot.Voice
	Preview int
}

func (c *QueueCommand) Name() string        { return "queue" }
func (c *QueueCommand) Description() string { return "Display the current queue" }

func (c *QueueCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *QueueCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	p, err := c.Voice.Player(sc.GuildID())
	if err != nil {
		return err
	}

	n := c.Preview
	if n <= 0 {
		n = DefaultQueuePreview
	}
	embed, ok := QueueEmbed(p.NowPlaying(), p.QueueSnapshot(n), p.QueueLen())
	if !ok {
		return reply(sc, "The queue is currently empty.")
	}
	return bot.RespondEmbed(sc.Session, sc.Event, embed)
}
