package discord

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"slices"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// stableCommand is the part of a command definition that Discord keeps.
// IDs and versions are left out so a fetched command hashes like a local one.
type stableCommand struct {
	Name        string                           `json:"name"`
	Description string                           `json:"description"`
	Type        discordgo.ApplicationCommandType `json:"type"`
	Options     []stableOption                   `json:"options,omitempty"`
}

type stableOption struct {
	Name        string                                 `json:"name"`
	Description string                                 `json:"description"`
	Type        discordgo.ApplicationCommandOptionType `json:"type"`
	Required    bool                                   `json:"required"`
	Choices     []stableChoice                         `json:"choices,omitempty"`
	Options     []stableOption                         `json:"options,omitempty"`
}

type stableChoice struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// hashCommand returns a deterministic hash of def.
func hashCommand(def *discordgo.ApplicationCommand) string {
	t := def.Type
	if t == 0 {
		t = discordgo.ChatApplicationCommand
	}
	data, _ := json.Marshal(stableCommand{
		Name:        def.Name,
		Description: def.Description,
		Type:        t,
		Options:     stableOptions(def.Options),
	})
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}

// stableOptions sorts options by name; Discord does not keep their order
// for subcommands.
func stableOptions(opts []*discordgo.ApplicationCommandOption) []stableOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]stableOption, 0, len(opts))
	for _, o := range opts {
		so := stableOption{
			Name:        o.Name,
			Description: o.Description,
			Type:        o.Type,
			Required:    o.Required,
			Options:     stableOptions(o.Options),
		}
		for _, c := range o.Choices {
			so.Choices = append(so.Choices, stableChoice{Name: c.Name, Value: c.Value})
		}
		out = append(out, so)
	}
	slices.SortFunc(out, func(a, b stableOption) int { return strings.Compare(a.Name, b.Name) })
	return out
}
