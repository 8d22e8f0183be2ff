package music

import "github.com/bwmarrin/discordgo"

type StopCommand struct{ base }

func (c *StopCommand) Name() string        { return "stop" }
func (c *StopCommand) Description() string { return "Stop playback and clear the queue." }

func (c *StopCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *StopCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Stop(sc.Context()); err != nil {
		return userError(err)
	}
	return reply(sc, "Stopped.")
}
