package discord

import (
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/pkg/cmd"
)

// registerDelay keeps bulk registration under Discord's create rate limit.
const registerDelay = 25 * time.Millisecond

// syncPlan is what has to change remotely for one scope.
type syncPlan struct {
	upsert []*discordgo.ApplicationCommand
	remove []*discordgo.ApplicationCommand
	hashes map[string]string
}

// planSync compares local definitions with what Discord has and what was
// registered last time. A command is upserted when its hash changed or it
// is missing remotely; remote commands with no local definition are removed.
func planSync(local, remote []*discordgo.ApplicationCommand, cached map[string]string) syncPlan {
	plan := syncPlan{hashes: make(map[string]string, len(local))}

	remoteByName := make(map[string]*discordgo.ApplicationCommand, len(remote))
	for _, rc := range remote {
		remoteByName[rc.Name] = rc
	}

	for _, def := range local {
		h := hashCommand(def)
		plan.hashes[def.Name] = h
		if _, ok := remoteByName[def.Name]; !ok || cached[def.Name] != h {
			plan.upsert = append(plan.upsert, def)
		}
	}
	for name, rc := range remoteByName {
		if _, ok := plan.hashes[name]; !ok {
			plan.remove = append(plan.remove, rc)
		}
	}
	return plan
}

// commandDefinitions returns the slash definitions of every registered
// command, looking through middleware wrappers.
func commandDefinitions(reg *cmd.Registry) []*discordgo.ApplicationCommand {
	var defs []*discordgo.ApplicationCommand
	for _, c := range reg.GetAll() {
		if def := commandDefinition(c); def != nil {
			defs = append(defs, def)
		}
	}
	return defs
}

func commandDefinition(c cmd.Command) *discordgo.ApplicationCommand {
	slash, ok := cmd.Root(c).(command.SlashProvider)
	if !ok {
		return nil
	}
	def := slash.SlashDefinition()
	if def != nil && def.Type == 0 {
		def.Type = discordgo.ChatApplicationCommand
	}
	return def
}

// syncCommands brings the commands of one guild, or the global ones when
// guildID is empty, in line with the registry.
func (b *Bot) syncCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	scope := guildID
	if scope == "" {
		scope = globalScope
	}

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		return fmt.Errorf("fetch commands for %s: %w", scope, err)
	}

	plan := planSync(commandDefinitions(b.commands), remote, b.cache.load(guildID))

	for _, rc := range plan.remove {
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", scope, rc.Name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", scope, rc.Name, err)
		}
	}

	if len(plan.upsert) == 0 {
		log.Printf("[INFO] [%s] Slash commands are up to date", scope)
	}
	for _, def := range plan.upsert {
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, def); err != nil {
			log.Printf("[ERR] [%s] Failed to register %s: %v", scope, def.Name, err)
			delete(plan.hashes, def.Name)
		} else {
			log.Printf("[INFO] [%s] Registered: /%s", scope, def.Name)
		}
		time.Sleep(registerDelay)
	}

	b.cache.save(guildID, plan.hashes)
	return nil
}

// appID returns the bot's application ID, fetching it when the state cache
// does not have it yet.
func (b *Bot) appID() (string, error) {
	if b.dg.State != nil && b.dg.State.User != nil && b.dg.State.User.ID != "" {
		return b.dg.State.User.ID, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("failed to fetch bot user: %w", err)
	}
	return u.ID, nil
}
