package music

import "github.com/bwmarrin/discordgo"

type ResumeCommand struct{ base }

func (c *ResumeCommand) Name() string        { return "resume" }
func (c *ResumeCommand) Description() string { return "Resume paused music." }

func (c *ResumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *ResumeCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Resume(); err != nil {
		return userError(err)
	}
	return reply(sc, "Resumed.")
}
