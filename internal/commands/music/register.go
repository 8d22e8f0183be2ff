package music

import (
	"github.com/keshon/beatbob/internal/bot"
	"github.com/keshon/beatbob/internal/command"
	"github.com/keshon/beatbob/internal/middleware"
	"github.com/keshon/beatbob/pkg/cmd"
)

// Register adds the music commands to reg. preview is the number of
// upcoming tracks /queue shows.
func Register(reg *cmd.Registry, voice bot.Voice, view bot.NowPlaying, preview int) error {
	common := []cmd.Middleware{middleware.WithCommandLogger(), middleware.WithGuildOnly()}
	inVoice := append(common[:len(common):len(common)], middleware.WithUserInVoice(voice))
	sameChannel := append(common[:len(common):len(common)], middleware.WithSameVoiceChannel(voice))

	commands := []struct {
		cmd command.DiscordCommand
		mws []cmd.Middleware
	}{
		{&JoinCommand{}, inVoice},
		{&PlayCommand{}, inVoice},
		{&LeaveCommand{}, sameChannel},
		{&PauseCommand{}, sameChannel},
		{&ResumeCommand{}, sameChannel},
		{&StopCommand{}, sameChannel},
		{&SkipCommand{}, sameChannel},
		{&VolumeCommand{}, sameChannel},
		{&QueueCommand{Voice: voice, Preview: preview}, common},
		{&NowPlayingCommand{Voice: voice, View: view}, common},
	}

	for _, c := range commands {
		if err := command.RegisterCommand(reg, c.cmd, c.mws...); err != nil {
			return err
		}
	}
	return nil
}
