package music

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/internal/music/player"
)

const (
	colorPlaying = 0x2ecc71
	colorPaused  = 0xf1c40f

	fieldLimit    = 1024
	fieldTruncate = 1000
)

// Now-playing button actions.
const (
	ActionPauseResume = "pause_resume"
	ActionSkip        = "skip"
	ActionStop        = "stop"
	ActionVolumeDown  = "volume_down"
	ActionVolumeUp    = "volume_up"
)

// NowPlayingEmbed renders the now-playing view of s.
func NowPlayingEmbed(s player.Snapshot, now time.Time) *discordgo.MessageEmbed {
	volume := &discordgo.MessageEmbedField{
		Name:   "Volume",
		Value:  fmt.Sprintf("%d%%", s.VolumePercent()),
		Inline: true,
	}
	footer := &discordgo.MessageEmbedFooter{Text: "Last updated"}
	stamp := now.Format(time.RFC3339)

	t := s.Track
	if t == nil {
		return &discordgo.MessageEmbed{
			Title:       "Nothing is currently playing",
			Description: "Use `/play` to request a song.",
			Timestamp:   stamp,
			Footer:      footer,
			Fields:      []*discordgo.MessageEmbedField{volume},
		}
	}

	state, color := "playing", colorPlaying
	if s.State == player.StatePaused {
		state, color = "paused", colorPaused
	}

	embed := &discordgo.MessageEmbed{
		Title:     t.Title,
		URL:       t.PageURL,
		Color:     color,
		Timestamp: stamp,
		Footer:    footer,
		Author:    &discordgo.MessageEmbedAuthor{Name: fmt.Sprintf("Now Playing (%s)", state)},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: t.DurationText(), Inline: true},
			volume,
		},
	}
	if t.Thumbnail != "" {
		embed.Image = &discordgo.MessageEmbedImage{URL: t.Thumbnail}
	}
	if t.RequestedBy != "" {
		embed.Description = fmt.Sprintf("Requested by <@%s>", t.RequestedBy)
	}
	if t.Artist != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Artist", Value: t.Artist, Inline: true})
	}
	return embed
}

// NowPlayingButtons returns the controls shown under the now-playing view.
func NowPlayingButtons() []discordgo.MessageComponent {
	button := func(label, action string, style discordgo.ButtonStyle) discordgo.MessageComponent {
		return discordgo.Button{
			Label:    label,
			Style:    style,
			CustomID: command.CustomID(nowPlayingName, action),
		}
	}
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			button("⏯️ Pause/Resume", ActionPauseResume, discordgo.PrimaryButton),
			button("⏭️ Skip", ActionSkip, discordgo.PrimaryButton),
			button("⏹️ Stop", ActionStop, discordgo.PrimaryButton),
		}},
		discordgo.ActionsRow{Components: []discordgo.MessageComponent{
			button("🔉 Volume down", ActionVolumeDown, discordgo.SecondaryButton),
			button("🔊 Volume up", ActionVolumeUp, discordgo.SecondaryButton),
		}},
	}
}

// QueueEmbed renders the current track and the first upcoming ones. total is
// the full queue length. It reports false when there is nothing to show.
func QueueEmbed(current *player.Track, upcoming []player.Track, total int) (*discordgo.MessageEmbed, bool) {
	if current == nil && len(upcoming) == 0 {
		return nil, false
	}

	embed := &discordgo.MessageEmbed{Title: "Music queue", Color: colorPlaying}
	if current != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Now Playing",
			Value: trackLine(*current),
		})
	}

	if len(upcoming) > 0 {
		lines := make([]string, len(upcoming))
		for i, t := range upcoming {
			lines[i] = fmt.Sprintf("%d. %s — %s", i+1, t.Title, t.DurationText())
		}
		if total < len(upcoming) {
			total = len(upcoming)
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("Up Next (%d tracks)", total),
			Value: truncateField(strings.Join(lines, "\n")),
		})
	}
	return embed, true
}

func trackLine(t player.Track) string {
	if t.PageURL != "" {
		return fmt.Sprintf("[%s](%s) — %s", t.Title, t.PageURL, t.DurationText())
	}
	return fmt.Sprintf("%s — %s", t.Title, t.DurationText())
}

// truncateField keeps text within an embed field, cutting on a rune
// boundary.
func truncateField(text string) string {
	if len(text) <= fieldLimit {
		return text
	}
	cut := fieldTruncate
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "\n...and more!"
}
