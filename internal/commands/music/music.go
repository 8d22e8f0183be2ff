// Package music holds the music slash commands and the now-playing view.
package music

import (
	"errors"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/internal/music/player"
)

const (
	group    = "music"
	category = "🎵 Music"
)

type base struct{}

func (base) Group() string    { return group }
func (base) Category() string { return category }

func slashDefinition(name, description string, options ...*discordgo.ApplicationCommandOption) *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        name,
		Description: description,
		Type:        discordgo.ChatApplicationCommand,
		Options:     options,
	}
}

// slashContext unwraps the context handed to Run.
func slashContext(ctx any) (*command.SlashInteractionContext, bool) {
	sc, ok := ctx.(*command.SlashInteractionContext)
	return sc, ok && sc != nil
}

// grantFor returns the grant left by the voice middleware.
func grantFor(sc *command.SlashInteractionContext) (*bot.VoiceGrant, error) {
	if sc.Grant == nil || sc.Grant.Player == nil {
		return nil, errors.New("command registered without a voice check")
	}
	return sc.Grant, nil
}

func reply(sc *command.SlashInteractionContext, text string) error {
	return bot.RespondEmbedEphemeral(sc.Session, sc.Event, textEmbed(text))
}

func replyPublic(sc *command.SlashInteractionContext, text string) error {
	return bot.RespondEmbed(sc.Session, sc.Event, textEmbed(text))
}

func textEmbed(text string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Description: text, Color: bot.EmbedColor}
}

// userError turns the engine's errors into something a user can act on.
// Anything it does not recognize is passed through.
func userError(err error) error {
	var (
		re *player.ResolutionError
		te *player.TransportError
	)
	switch {
	case err == nil:
		return nil
	case errors.As(err, &re):
		if re.Reason == "" {
			return bot.NewUserInputError("Could not load that track.")
		}
		return bot.NewUserInputError(re.Reason)
	case errors.As(err, &te):
		return bot.NewUserInputError("I could not join your voice channel.")
	case errors.Is(err, player.ErrNoTrackPlaying):
		return bot.NewUserInputError("No song is currently playing")
	case errors.Is(err, player.ErrClosed):
		return bot.NewUserInputError("The player is shutting down.")
	}
	return err
}
