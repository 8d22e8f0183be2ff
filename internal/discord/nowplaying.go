package discord

import (
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/commands/music"
	"github.com/keshon/beatbob/internal/music/player"
)

var errMessageGone = errors.New("message no longer exists")

// messenger posts and maintains one channel message.
type messenger interface {
	Send(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error)
	Edit(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error
	Delete(channelID, messageID string) error
}

// NowPlayingHub keeps one now-playing message per guild in sync with its
// engine. It implements player.Observer and bot.NowPlaying.
type NowPlayingHub struct {
	msg messenger
	now func() time.Time

	mu    sync.Mutex
	views map[string]*view
}

type view struct {
	mu        sync.Mutex
	channelID string
	messageID string
}

func NewNowPlayingHub(dg *discordgo.Session) *NowPlayingHub {
	return newNowPlayingHub(sessionMessenger{dg: dg})
}

func newNowPlayingHub(msg messenger) *NowPlayingHub {
	return &NowPlayingHub{msg: msg, now: time.Now, views: make(map[string]*view)}
}

func (h *NowPlayingHub) viewFor(guildID string, create bool) *view {
	h.mu.Lock()
	defer h.mu.Unlock()
	v := h.views[guildID]
	if v == nil && create {
		v = &view{}
		h.views[guildID] = v
	}
	return v
}

// Show posts a fresh view in channelID and deletes the previous one.
func (h *NowPlayingHub) Show(channelID string, s player.Snapshot) error {
	v := h.viewFor(s.GuildID, true)
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.messageID != "" {
		if err := h.msg.Delete(v.channelID, v.messageID); err != nil && !errors.Is(err, errMessageGone) {
			log.Printf("[WARN] Failed to delete old now playing message | guild=%s err=%v", s.GuildID, err)
		}
		v.messageID = ""
	}

	id, err := h.msg.Send(channelID, music.NowPlayingEmbed(s, h.now()), music.NowPlayingButtons())
	if err != nil {
		return err
	}
	v.channelID, v.messageID = channelID, id
	return nil
}

// Notify edits the guild's view in place. A view deleted by someone is
// posted again in the same channel.
func (h *NowPlayingHub) Notify(s player.Snapshot) {
	v := h.viewFor(s.GuildID, false)
	if v == nil {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.channelID == "" {
		return
	}

	embed := music.NowPlayingEmbed(s, h.now())
	if v.messageID != "" {
		err := h.msg.Edit(v.channelID, v.messageID, embed, music.NowPlayingButtons())
		if err == nil {
			return
		}
		if !errors.Is(err, errMessageGone) {
			log.Printf("[WARN] Failed to update now playing message | guild=%s err=%v", s.GuildID, err)
			return
		}
		log.Printf("[DEBUG] Now playing message was deleted, posting a new one | guild=%s", s.GuildID)
	}

	id, err := h.msg.Send(v.channelID, embed, music.NowPlayingButtons())
	if err != nil {
		log.Printf("[WARN] Failed to post now playing message | guild=%s err=%v", s.GuildID, err)
		v.messageID = ""
		return
	}
	v.messageID = id
}

// sessionMessenger is the discordgo-backed messenger.
type sessionMessenger struct {
	dg *discordgo.Session
}

func (m sessionMessenger) Send(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	msg, err := m.dg.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	})
	if err != nil {
		return "", err
	}
	return msg.ID, nil
}

func (m sessionMessenger) Edit(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := m.dg.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel:    channelID,
		ID:         messageID,
		Embeds:     &embeds,
		Components: &components,
	})
	return gone(err)
}

func (m sessionMessenger) Delete(channelID, messageID string) error {
	return gone(m.dg.ChannelMessageDelete(channelID, messageID))
}

// gone maps Discord's "unknown message" answers to errMessageGone.
func gone(err error) error {
	var rerr *discordgo.RESTError
	if errors.As(err, &rerr) {
		if rerr.Response != nil && rerr.Response.StatusCode == http.StatusNotFound {
			return errMessageGone
		}
		if rerr.Message != nil && rerr.Message.Code == discordgo.ErrCodeUnknownMessage {
			return errMessageGone
		}
	}
	return err
}
