package music

import "github.com/bwmarrin/discordgo"

type VolumeCommand struct{ base }

func (c *VolumeCommand) Name() string        { return "volume" }
func (c *VolumeCommand) Description() string { return "Change volume." }

func (c *VolumeCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return slashDefinition(c.Name(), c.Description(), &discordgo.ApplicationCommandOption{
		Type:        discordgo.ApplicationCommandOptionInteger,
		Name:        "volume",
		Description: "Percentage from 0 to 100",
		Required:    true,
	})
}

func (c *VolumeCommand) Run(ctx any) error {
	sc, ok := slashContext(ctx)
	if !ok {
		return nil
	}
	g, err := grantFor(sc)
	if err != nil {
		return err
	}

	percent := -1
	for _, opt := range sc.Event.ApplicationCommandData().Options {
		if opt.Name == "volume" {
			percent = int(opt.IntValue())
		}
	}

	text, err := setVolume(g.Player, percent)
	if err != nil {
		return err
	}
	return replyPublic(sc, text)
}
