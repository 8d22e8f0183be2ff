package music

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
)

type PlayCommand struct{ base }

func (c *PlayCommand) Name() string { return "play" }
func (c *PlayCommand) Description() string {
	return "Play a song from YouTube, Spotify, SoundCloud or a radio stream"
}

func (c *PlayCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description(), &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "query",
		Description: "Link or song name",
		Required:    true,
	})
}

func (c *PlayCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	var query string
	for _, opt := range sc.Event.ApplicationCommandData().Options {
		if opt.Name == "query" {
			query = strings.TrimSpace(opt.StringValue())
		}
	}
	if query == "" {
		return bot.NewUserInputError("Tell me what to play.")
	}

	// Resolving can take a while.
	if err := bot.RespondDeferredEphemeral(sc.Session, sc.Event); err != nil {
		return fmt.Errorf("failed to send deferred response: %w", err)
	}

	text, err := play(sc.Context(), g, query)
	if err != nil {
		return err
	}
	return bot.EditResponseEmbed(sc.Session, sc.Event, textEmbed(text))
}
