package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/keshon/beatbob/internal/music/player"
)

// sendTimeout bounds how long one opus frame may wait for the voice
// connection. A stuck connection fails the track instead of hanging it.
const sendTimeout = 5 * time.Second

var errSendTimeout = errors.New("voice connection stopped accepting audio")

// Connector joins voice channels through a discordgo session.
type Connector struct {
	dg *discordgo.Session
}

func NewConnector(dg *discordgo.Session) *Connector {
	return &Connector{dg: dg}
}

// Connect joins channelID. The join keeps running in the background when ctx
// ends first; a connection that arrives late is closed.
func (c *Connector) Connect(ctx context.Context, guildID, channelID string) (player.Transport, error) {
	type result struct {
		vc  *discordgo.VoiceConnection
		err error
	}
	ch := make(chan result, 1)

	go func() {
		vc, err := c.dg.ChannelVoiceJoin(guildID, channelID, false, true)
		ch <- result{vc, err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, fmt.Errorf("failed to join voice channel: %w", r.err)
		}
		return &voiceTransport{dg: c.dg, vc: r.vc, guildID: guildID}, nil
	case <-ctx.Done():
		go func() {
			if r := <-ch; r.vc != nil {
				log.Printf("[Voice] Dropping late voice connection | guild=%s", guildID)
				_ = r.vc.Disconnect()
			}
		}()
		return nil, ctx.Err()
	}
}

// voiceTransport is a player.Transport over one discordgo voice connection.
// It also implements stream.VoiceSender.
type voiceTransport struct {
	dg      *discordgo.Session
	vc      *discordgo.VoiceConnection
	guildID string
}

func (t *voiceTransport) ChannelID() string {
	t.vc.RLock()
	defer t.vc.RUnlock()
	return t.vc.ChannelID
}

func (t *voiceTransport) MoveTo(ctx context.Context, channelID string) error {
	return t.vc.ChangeChannel(channelID, false, true)
}

func (t *voiceTransport) Disconnect(ctx context.Context) error {
	return t.vc.Disconnect()
}

// IsConnected reports whether the session still holds this connection.
// discordgo drops it from VoiceConnections on disconnect.
func (t *voiceTransport) IsConnected() bool {
	t.dg.RLock()
	current := t.dg.VoiceConnections[t.guildID]
	t.dg.RUnlock()
	return current == t.vc
}

func (t *voiceTransport) SendOpus(ctx context.Context, packet []byte) error {
	timer := time.NewTimer(sendTimeout)
	defer timer.Stop()

	select {
	case t.vc.OpusSend <- packet:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return errSendTimeout
	}
}

func (t *voiceTransport) Speaking(speaking bool) error {
	return t.vc.Speaking(speaking)
}
