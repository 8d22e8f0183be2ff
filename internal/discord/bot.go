// Package discord runs the gateway session: it routes interactions to the
// command registry, keeps slash commands registered and connects engines to
// voice.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/internal/config"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/pkg/cmd"
	"github.com/keshon/beatbob/pkg/jobmgr"
	"github.com/keshon/beatbob/pkg/util"
)

// voiceLeaveTimeout bounds tearing down an engine after the bot was removed
// from voice by someone else.
const voiceLeaveTimeout = 10 * time.Second

// syncWorkers is how many guilds get their commands synced at once.
const syncWorkers = 2

// Bot is a Discord bot
type Bot struct {
	cfg      *config.Config
	dg       *discordgo.Session
	players  *player.Registry
	commands *cmd.Registry
	jobs     *jobmgr.Manager
	cache    hashCache

	ctx context.Context // cancelled on shutdown, set by Run
}

// NewSession creates a gateway session with the intents the music bot
// needs.
func NewSession(token string) (*discordgo.Session, error) {
	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates
	return dg, nil
}

// New wires a bot around dg. Commands added to commands are dispatched and
// kept registered with Discord.
func New(cfg *config.Config, dg *discordgo.Session, players *player.Registry, commands *cmd.Registry, jobs *jobmgr.Manager) *Bot {
	return &Bot{
		cfg:      cfg,
		dg:       dg,
		players:  players,
		commands: commands,
		jobs:     jobs,
		cache:    hashCache{dir: cfg.CommandsDir},
		ctx:      context.Background(),
	}
}

// Run opens the session and blocks until ctx is done.
func (b *Bot) Run(ctx context.Context) error {
	b.ctx = ctx
	b.dg.AddHandler(b.onReady)
	b.dg.AddHandler(b.onInteractionCreate)
	b.dg.AddHandler(b.onVoiceStateUpdate)

	if err := b.dg.Open(); err != nil {
		return fmt.Errorf("failed to open Discord session: %w", err)
	}
	defer b.dg.Close()

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

// Player implements bot.Voice.
func (b *Bot) Player(guildID string) (*player.Player, error) {
	return b.players.GetOrCreate(guildID)
}

// FindUserVoiceState implements bot.Voice from the state cache.
func (b *Bot) FindUserVoiceState(guildID, userID string) (*bot.VoiceState, error) {
	vs, err := b.dg.State.VoiceState(guildID, userID)
	if errors.Is(err, discordgo.ErrStateNotFound) || (err == nil && vs.ChannelID == "") {
		return nil, bot.ErrUserNotInVoice
	}
	if err != nil {
		return nil, fmt.Errorf("error retrieving voice state: %w", err)
	}
	return &bot.VoiceState{ChannelID: vs.ChannelID, UserID: vs.UserID}, nil
}

// onReady is called when the bot is ready
func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("[INFO] ✅ Discord bot %s is running in %d guild(s).", r.User.Username, len(r.Guilds))

	err := b.jobs.StartAsync("commands:sync", func(ctx context.Context) error {
		scopes := b.cfg.GuildIDs
		if len(scopes) == 0 {
			scopes = []string{""}
		}
		return util.Parallel(ctx, scopes, syncWorkers, func(ctx context.Context, guildID string) error {
			return b.syncCommands(guildID)
		})
	})
	if err != nil {
		log.Printf("[WARN] Slash command sync not started: %v", err)
	}
}

// onVoiceStateUpdate tears the engine's connection down when the bot was
// disconnected from voice by someone else.
func (b *Bot) onVoiceStateUpdate(s *discordgo.Session, v *discordgo.VoiceStateUpdate) {
	if s.State.User == nil || v.UserID != s.State.User.ID || v.ChannelID != "" {
		return
	}
	p, ok := b.players.Get(v.GuildID)
	if !ok || p.ChannelID() == "" {
		return
	}

	log.Printf("[INFO] Removed from voice, disconnecting player | guild=%s", v.GuildID)
	ctx, cancel := context.WithTimeout(context.Background(), voiceLeaveTimeout)
	defer cancel()
	if err := p.Disconnect(ctx); err != nil {
		log.Printf("[WARN] Disconnect after removal failed | guild=%s err=%v", v.GuildID, err)
	}
}

// onInteractionCreate is called when an interaction is created
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	var (
		name string
		data any
	)

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		name = i.ApplicationCommandData().Name
		data = &command.SlashInteractionContext{Session: s, Event: i}
	case discordgo.InteractionMessageComponent:
		customID := i.MessageComponentData().CustomID
		log.Printf("[DEBUG] Processing component interaction: %s", customID)
		name, _ = command.ParseCustomID(customID)
		data = &command.ComponentInteractionContext{Session: s, Event: i}
	default:
		log.Printf("[DEBUG] Unknown interaction type: %d", i.Type)
		return
	}

	c := b.commands.Get(name)
	if c == nil {
		log.Printf("[WARN] Unknown command: %s", name)
		return
	}

	if err := c.Run(b.ctx, &cmd.Invocation{Data: data}); err != nil {
		if rerr := bot.ReplyError(s, i, err); rerr != nil {
			log.Printf("[ERR] Failed to report error for /%s: %v", name, rerr)
		}
	}
}
