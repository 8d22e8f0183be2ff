package music

import "github.com/bwmarrin/discordgo"

type PauseCommand struct{ base }

func (c *PauseCommand) Name() string        { return "pause" }
func (c *PauseCommand) Description() string { return "Pause music." }

func (c *PauseCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *PauseCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Pause(); err != nil {
		return userError(err)
	}
	return reply(sc, "Paused.")
}
