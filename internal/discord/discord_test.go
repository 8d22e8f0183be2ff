package discord

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/music/player"
)

func TestHashCommandIgnoresOptionOrderAndIDs(t *testing.T) {
	a := &discordgo.ApplicationCommand{
		Name:        "play",
		Description: "Play",
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "query", Type: discordgo.ApplicationCommandOptionString, Required: true},
			{Name: "source", Type: discordgo.ApplicationCommandOptionString},
		},
	}
	b := &discordgo.ApplicationCommand{
		ID:          "123",
		Version:     "7",
		Name:        "play",
		Description: "Play",
		Type:        discordgo.ChatApplicationCommand,
		Options: []*discordgo.ApplicationCommandOption{
			{Name: "source", Type: discordgo.ApplicationCommandOptionString},
			{Name: "query", Type: discordgo.ApplicationCommandOptionString, Required: true},
		},
	}
	if hashCommand(a) != hashCommand(b) {
		t.Errorf("Expected equal hashes for equivalent definitions")
	}

	b.Description = "Play a song"
	if hashCommand(a) == hashCommand(b) {
		t.Errorf("Expected description change to change the hash")
	}
}

func TestPlanSync(t *testing.T) {
	play := &discordgo.ApplicationCommand{Name: "play", Description: "Play"}
	skip := &discordgo.ApplicationCommand{Name: "skip", Description: "Skip"}
	queue := &discordgo.ApplicationCommand{Name: "queue", Description: "Queue"}

	remote := []*discordgo.ApplicationCommand{
		{ID: "1", Name: "play", Description: "Play"},
		{ID: "2", Name: "skip", Description: "Skip"},
		{ID: "9", Name: "purge", Description: "Old"},
	}
	cached := map[string]string{"play": hashCommand(play), "skip": "stale"}

	plan := planSync([]*discordgo.ApplicationCommand{play, skip, queue}, remote, cached)

	var upsert []string
	for _, d := range plan.upsert {
		upsert = append(upsert, d.Name)
	}
	if fmt.Sprint(upsert) != "[skip queue]" {
		t.Errorf("Expected skip and queue to be upserted, got %v", upsert)
	}
	if len(plan.remove) != 1 || plan.remove[0].ID != "9" {
		t.Errorf("Expected purge to be removed, got %+v", plan.remove)
	}
	if len(plan.hashes) != 3 {
		t.Errorf("Expected 3 hashes, got %d", len(plan.hashes))
	}
}

func TestHashCache(t *testing.T) {
	c := hashCache{dir: t.TempDir()}
	if len(c.load("g1")) != 0 {
		t.Errorf("Expected empty cache")
	}

	c.save("g1", map[string]string{"play": "abc"})
	c.save("", map[string]string{"skip": "def"})

	if got := c.load("g1")["play"]; got != "abc" {
		t.Errorf("Expected abc, got %q", got)
	}
	if got := c.load("")["skip"]; got != "def" {
		t.Errorf("Expected global scope to round-trip, got %q", got)
	}
}

type sentMessage struct {
	channel, id, title string
}

type fakeMessenger struct {
	mu      sync.Mutex
	next    int
	live    map[string]sentMessage
	edits   int
	deletes int
	editErr error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{live: map[string]sentMessage{}}
}

func (f *fakeMessenger) Send(channelID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	id := fmt.Sprintf("m%d", f.next)
	f.live[id] = sentMessage{channel: channelID, id: id, title: embed.Title}
	return id, nil
}

func (f *fakeMessenger) Edit(channelID, messageID string, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	m, ok := f.live[messageID]
	if !ok {
		return errMessageGone
	}
	f.edits++
	m.title = embed.Title
	f.live[messageID] = m
	return nil
}

func (f *fakeMessenger) Delete(channelID, messageID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.live[messageID]; !ok {
		return errMessageGone
	}
	f.deletes++
	delete(f.live, messageID)
	return nil
}

func (f *fakeMessenger) only(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.live) != 1 {
		t.Fatalf("Expected exactly one live message, got %d", len(f.live))
	}
	for _, m := range f.live {
		return m
	}
	return sentMessage{}
}

func playing(title string) player.Snapshot {
	return player.Snapshot{
		GuildID: "g1",
		Status:  player.StatusPlaying,
		State:   player.StatePlaying,
		Track:   &player.Track{Title: title},
		Volume:  0.8,
	}
}

func newTestHub(msg messenger) *NowPlayingHub {
	h := newNowPlayingHub(msg)
	h.now = func() time.Time { return time.Unix(0, 0) }
	return h
}

func TestHubIgnoresGuildsWithoutView(t *testing.T) {
	msg := newFakeMessenger()
	h := newTestHub(msg)

	h.Notify(playing("Song"))
	if len(msg.live) != 0 {
		t.Errorf("Expected no message before /nowplaying, got %d", len(msg.live))
	}
}

func TestHubShowReplacesPreviousView(t *testing.T) {
	msg := newFakeMessenger()
	h := newTestHub(msg)

	if err := h.Show("text-1", playing("First")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := h.Show("text-2", playing("First")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	m := msg.only(t)
	if m.channel != "text-2" {
		t.Errorf("Expected view in text-2, got %s", m.channel)
	}
	if msg.deletes != 1 {
		t.Errorf("Expected old view deleted, got %d deletes", msg.deletes)
	}
}

func TestHubNotifyEditsInPlace(t *testing.T) {
	msg := newFakeMessenger()
	h := newTestHub(msg)
	_ = h.Show("text-1", playing("First"))

	h.Notify(playing("Second"))

	m := msg.only(t)
	if m.title != "Second" || msg.edits != 1 {
		t.Errorf("Expected one edit to Second, got %q after %d edits", m.title, msg.edits)
	}

	h.Notify(player.Snapshot{GuildID: "g1", Status: player.StatusStopped})
	if m := msg.only(t); m.title != "Nothing is currently playing" {
		t.Errorf("Expected idle view, got %q", m.title)
	}
}

func TestHubRecreatesDeletedView(t *testing.T) {
	msg := newFakeMessenger()
	h := newTestHub(msg)
	_ = h.Show("text-1", playing("First"))

	first := msg.only(t)
	_ = msg.Delete(first.channel, first.id)

	h.Notify(playing("Second"))

	m := msg.only(t)
	if m.id == first.id || m.channel != "text-1" || m.title != "Second" {
		t.Errorf("Expected a new message in text-1, got %+v", m)
	}
}

func TestHubKeepsViewOnTransientEditFailure(t *testing.T) {
	msg := newFakeMessenger()
	h := newTestHub(msg)
	_ = h.Show("text-1", playing("First"))

	msg.editErr = errors.New("503")
	h.Notify(playing("Second"))

	if m := msg.only(t); m.title != "First" {
		t.Errorf("Expected untouched view, got %q", m.title)
	}
}

func TestGone(t *testing.T) {
	rerr := &discordgo.RESTError{Message: &discordgo.APIErrorMessage{Code: discordgo.ErrCodeUnknownMessage}}
	if !errors.Is(gone(rerr), errMessageGone) {
		t.Errorf("Expected unknown message to map to errMessageGone")
	}
	other := errors.New("boom")
	if gone(other) != other {
		t.Errorf("Expected other errors to pass through")
	}
	if gone(nil) != nil {
		t.Errorf("Expected nil to stay nil")
	}
}
