package music

import (
	"context"
	"errors"
	"fmt"

	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/music/player"
)

const volumeStep = 10

// play connects the engine to the caller's channel when it is not attached
// anywhere, then resolves and queues query.
func play(ctx context.Context, g *bot.VoiceGrant, query string) (string, error) {
	if g.Player.ChannelID() == "" {
		if err := g.Player.Connect(ctx, g.ChannelID); err != nil {
			return "", userError(err)
		}
	}

	t, err := g.Player.AddTrack(ctx, query, g.UserID)
	if err != nil {
		return "", userError(err)
	}
	return fmt.Sprintf("🎵 Added to queue: `%s`", t.Title), nil
}

// setVolume validates percent before handing it to the engine.
func setVolume(p *player.Player, percent int) (string, error) {
	if percent < 0 || percent > 100 {
		return "", bot.NewUserInputError("Volume must be between 0 and 100.")
	}
	p.SetVolume(percent)
	return fmt.Sprintf("Volume set to %d%%", percent), nil
}

// applyControl runs a now-playing button action against p.
func applyControl(ctx context.Context, p *player.Player, action string) error {
	switch action {
	case ActionPauseResume:
		switch p.State() {
		case player.StatePlaying:
			return ignoreIdle(p.Pause())
		case player.StatePaused:
			return ignoreIdle(p.Resume())
		}
		return nil
	case ActionSkip:
		return p.Skip(ctx)
	case ActionStop:
		return p.Stop(ctx)
	case ActionVolumeDown:
		p.SetVolume(max(volumePercent(p)-volumeStep, 0))
		return nil
	case ActionVolumeUp:
		p.SetVolume(min(volumePercent(p)+volumeStep, 100))
		return nil
	}
	return fmt.Errorf("unknown now-playing action %q", action)
}

// ignoreIdle drops ErrNoTrackPlaying for a track that ended between the
// state read and the call.
func ignoreIdle(err error) error {
	if errors.Is(err, player.ErrNoTrackPlaying) {
		return nil
	}
	return err
}

func volumePercent(p *player.Player) int {
	return int(p.Volume()*100 + 0.5)
}
