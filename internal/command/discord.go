// Package command adapts Discord commands to the transport-agnostic core in
// pkg/cmd.
package command

import (
	"context"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/pkg/cmd"
)

// SlashInteractionContext is what a slash command runs with. Grant is set by
// the voice middleware, Ctx by the adapter.
type SlashInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
	Grant   *bot.VoiceGrant
}

// ComponentInteractionContext is what a button handler runs with.
type ComponentInteractionContext struct {
	Ctx     context.Context
	Session *discordgo.Session
	Event   *discordgo.InteractionCreate
}

// Context returns the invocation context, or Background when unset.
func (c *SlashInteractionContext) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *ComponentInteractionContext) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// GuildID, ChannelID and UserID describe where an interaction came from.
func (c *SlashInteractionContext) GuildID() string   { return c.Event.GuildID }
func (c *SlashInteractionContext) ChannelID() string { return c.Event.ChannelID }
func (c *SlashInteractionContext) UserID() string    { return InteractionUser(c.Event).ID }

func (c *ComponentInteractionContext) GuildID() string   { return c.Event.GuildID }
func (c *ComponentInteractionContext) ChannelID() string { return c.Event.ChannelID }
func (c *ComponentInteractionContext) UserID() string    { return InteractionUser(c.Event).ID }

// Origin is implemented by both interaction contexts.
type Origin interface {
	GuildID() string
	ChannelID() string
	UserID() string
}

// InteractionUser returns the user behind an interaction, from the member in
// guilds and from User in DMs.
func InteractionUser(e *discordgo.InteractionCreate) *discordgo.User {
	if e.Member != nil && e.Member.User != nil {
		return e.Member.User
	}
	if e.User != nil {
		return e.User
	}
	return &discordgo.User{ID: "unknown", Username: "Unknown"}
}

type SlashProvider interface {
	SlashDefinition() *discordgo.ApplicationCommand
}

// ComponentInteractionHandler handles buttons whose custom ID starts with
// the command name followed by ":".
type ComponentInteractionHandler interface {
	Component(*ComponentInteractionContext) error
}

// DiscordMeta lets middleware read command metadata through wrappers.
type DiscordMeta interface {
	Group() string
	Category() string
}

// DiscordCommand is what individual Discord commands implement. Run receives
// a *SlashInteractionContext.
type DiscordCommand interface {
	Name() string
	Description() string
	Group() string
	Category() string
	Run(ctx any) error
}

// DiscordAdapter turns a DiscordCommand into a cmd.Command.
type DiscordAdapter struct {
	Cmd DiscordCommand
}

func (a *DiscordAdapter) Name() string        { return a.Cmd.Name() }
func (a *DiscordAdapter) Description() string { return a.Cmd.Description() }
func (a *DiscordAdapter) Group() string       { return a.Cmd.Group() }
func (a *DiscordAdapter) Category() string    { return a.Cmd.Category() }

// Run routes component contexts to Component and everything else to the
// command's Run.
func (a *DiscordAdapter) Run(ctx context.Context, inv *cmd.Invocation) error {
	switch c := inv.Data.(type) {
	case *ComponentInteractionContext:
		c.Ctx = ctx
		return a.Component(c)
	case *SlashInteractionContext:
		c.Ctx = ctx
	}
	return a.Cmd.Run(inv.Data)
}

func (a *DiscordAdapter) SlashDefinition() *discordgo.ApplicationCommand {
	if sp, ok := a.Cmd.(SlashProvider); ok {
		return sp.SlashDefinition()
	}
	return nil
}

func (a *DiscordAdapter) Component(ctx *ComponentInteractionContext) error {
	if ch, ok := a.Cmd.(ComponentInteractionHandler); ok {
		return ch.Component(ctx)
	}
	return nil
}

// CustomID builds a component custom ID routed to the named command.
func CustomID(command, action string) string {
	return command + ":" + action
}

// ParseCustomID splits a custom ID built by CustomID.
func ParseCustomID(id string) (command, action string) {
	command, action, _ = strings.Cut(id, ":")
	return command, action
}

// RegisterCommand wraps discordCmd with mws and adds it to reg.
func RegisterCommand(reg *cmd.Registry, discordCmd DiscordCommand, mws ...cmd.Middleware) error {
	return reg.Register(cmd.Apply(&DiscordAdapter{Cmd: discordCmd}, mws...))
}
