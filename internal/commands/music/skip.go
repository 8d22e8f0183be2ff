package music

import "github.com/bwmarrin/discordgo"

type SkipCommand struct{ base }

func (c *SkipCommand) Name() string        { return "skip" }
func (c *SkipCommand) Description() string { return "Skips the current song." }

func (c *SkipCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *SkipCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Skip(sc.Context()); err != nil {
		return userError(err)
	}
	return reply(sc, "Skipped song.")
}
