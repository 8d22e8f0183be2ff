package command

import (
	"context"
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/pkg/cmd"
)

type echoCommand struct {
	ran       any
	component *ComponentInteractionContext
}

func (e *echoCommand) Name() string        { return "echo" }
func (e *echoCommand) Description() string { return "Echo" }
func (e *echoCommand) Group() string       { return "test" }
func (e *echoCommand) Category() string    { return "Testing" }
func (e *echoCommand) Run(ctx any) error   { e.ran = ctx; return nil }

func (e *echoCommand) SlashDefinition() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{Name: e.Name(), Description: e.Description()}
}

func (e *echoCommand) Component(ctx *ComponentInteractionContext) error {
	e.component = ctx
	return nil
}

func TestAdapterRoutesContexts(t *testing.T) {
	echo := &echoCommand{}
	reg := cmd.NewRegistry()
	if err := RegisterCommand(reg, echo); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	c := reg.Get("echo")
	slash := &SlashInteractionContext{Event: &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{}}}
	if err := c.Run(context.Background(), &cmd.Invocation{Data: slash}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if echo.ran != slash {
		t.Errorf("Expected slash context to reach Run")
	}

	comp := &ComponentInteractionContext{}
	if err := c.Run(context.Background(), &cmd.Invocation{Data: comp}); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if echo.component != comp {
		t.Errorf("Expected component context to reach Component")
	}

	if def := cmd.Root(c).(SlashProvider).SlashDefinition(); def.Name != "echo" {
		t.Errorf("Expected slash definition through the adapter, got %+v", def)
	}
}

func TestRegisterDuplicate(t *testing.T) {
	reg := cmd.NewRegistry()
	_ = RegisterCommand(reg, &echoCommand{})
	if err := RegisterCommand(reg, &echoCommand{}); err == nil {
		t.Errorf("Expected duplicate registration to fail")
	}
}

func TestCustomID(t *testing.T) {
	id := CustomID("nowplaying", "volume_up")
	c, a := ParseCustomID(id)
	if c != "nowplaying" || a != "volume_up" {
		t.Errorf("Expected nowplaying/volume_up, got %s/%s", c, a)
	}
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "m"}},
	}}
	if InteractionUser(guild).ID != "m" {
		t.Errorf("Expected member user")
	}

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{User: &discordgo.User{ID: "u"}}}
	if InteractionUser(dm).ID != "u" {
		t.Errorf("Expected DM user")
	}
}
