package music

import "github.com/bwmarrin/discordgo"

type LeaveCommand struct{ base }

func (c *LeaveCommand) Name() string        { return "leave" }
func (c *LeaveCommand) Description() string { return "You no longer want Beatbob in your life </3" }

func (c *LeaveCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description())
}

func (c *LeaveCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	if err := g.Player.Disconnect(sc.Context()); err != nil {
		return userError(err)
	}
	return replyPublic(sc, "Goodbye o7")
}
