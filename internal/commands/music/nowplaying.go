package music

import (
	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
)

const nowPlayingName = "nowplaying"

// NowPlayingCommand posts the now-playing view and handles its buttons.
type NowPlayingCommand struct {
	base
	Voice bot.Voice
	View  bot.NowPlaying
}

func (c *NowPlayingCommand) Name() string        { return nowPlayingName }
func (c *NowPlayingCommand) Description() string { return "Display the currently playing song." }

func (c *NowPlayingCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *NowPlayingCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	p, err := c.Voice.Player(sc.GuildID())
	if err != nil {
		return err
	}
	snap := p.Snapshot()
	if snap.Track == nil {
		return reply(sc, "No song is currently playing")
	}

	if err := c.View.Show(sc.ChannelID(), snap); err != nil {
		return err
	}
	return reply(sc, "Now playing panel updated.")
}

// Component handles the now-playing buttons. Only listeners in the bot's
// voice channel may use them.
func (c *NowPlayingCommand) Component(cc *command.ComponentInteractionContext) error {
	_, action := command.ParseCustomID(cc.Event.MessageComponentData().CustomID)

	g, err := bot.CheckSameVoiceChannel(c.Voice, cc.GuildID(), cc.UserID())
	if err != nil {
		return err
	}
	if err := applyControl(cc.Context(), g.Player, action); err != nil {
		return userError(err)
	}
	return bot.RespondDeferredUpdate(cc.Session, cc.Event)
}
