package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/keshon/beatbob/internal/commands/music"
	"github.com/keshon/beatbob/internal/config"
	"github.com/keshon/beatbob/internal/discord"
	"github.com/keshon/beatbob/internal/logging"
	"github.com/keshon/beatbob/internal/music/parsers"
	"github.com/keshon/beatbob/internal/music/parsers/ffmpeg"
	"github.com/keshon/beatbob/internal/music/parsers/kkdai"
	"github.com/keshon/beatbob/internal/music/parsers/ytdlp"
	"github.com/keshon/beatbob/internal/music/player"
	"github.com/keshon/beatbob/internal/music/source_resolver"
	"github.com/keshon/beatbob/internal/music/sources"
	"github.com/keshon/beatbob/internal/music/sources/radio"
	"github.com/keshon/beatbob/internal/music/sources/soundcloud"
	"github.com/keshon/beatbob/internal/music/sources/spotify"
	"github.com/keshon/beatbob/internal/music/sources/youtube"
	"github.com/keshon/beatbob/internal/music/stream"
	"github.com/keshon/beatbob/pkg/cmd"
	"github.com/keshon/beatbob/pkg/jobmgr"
	"github.com/keshon/beatbob/pkg/retrylimit"

	"golang.org/x/time/rate"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[ERR] Invalid configuration: %v", err)
	}

	logFile, err := logging.Setup(cfg.LogDir, cfg.Debug)
	if err != nil {
		log.Fatalf("[ERR] Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	log.Println("[INFO] Starting beatbob...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs := jobmgr.NewManager(ctx, func(msg string) {
		log.Println("[DEBUG] [Jobs]", msg)
	})

	session, err := discord.NewSession(cfg.DiscordToken)
	if err != nil {
		log.Fatalf("[ERR] %v", err)
	}

	resolver := newResolver(ctx, cfg)
	sinks := stream.NewFactory(ffmpeg.New(cfg.FFmpegPath))
	connector := discord.NewConnector(session)
	view := discord.NewNowPlayingHub(session)

	players := player.NewRegistry(func(guildID string) *player.Player {
		return player.New(guildID, player.Options{
			Resolver:       resolver,
			Sinks:          sinks,
			Connector:      connector,
			Observer:       view,
			Jobs:           jobs,
			DefaultVolume:  &cfg.DefaultVolume,
			ResolveTimeout: cfg.ResolveTimeout,
		})
	})

	commands := cmd.NewRegistry()
	b := discord.New(cfg, session, players, commands, jobs)
	if err := music.Register(commands, b, view, cfg.QueuePreview); err != nil {
		log.Fatalf("[ERR] Failed to register commands: %v", err)
	}

	if err := b.Run(ctx); err != nil {
		log.Printf("[ERR] Discord bot error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := players.Shutdown(shutdownCtx); err != nil {
		log.Printf("[WARN] Some players did not shut down cleanly: %v", err)
	}
	if err := jobs.StopAll(shutdownCtx); err != nil {
		log.Printf("[WARN] Background jobs did not stop in time: %v", err)
	}

	log.Println("[INFO] Discord bot exited cleanly")
}

// newResolver builds the source chain. Specific link sources come first;
// radio accepts any remaining URL and must stay last.
func newResolver(ctx context.Context, cfg *config.Config) *source_resolver.SourceResolver {
	limiter := retrylimit.NewAdaptiveLimiter(rate.Limit(cfg.YtdlpRate), 0.2, rate.Limit(cfg.YtdlpRate*2), 0.1, 0.5)

	generic := ytdlp.New(cfg.YouTubeProxy, limiter)
	youtubeExtractor := parsers.Chain{generic, kkdai.New(cfg.YouTubeProxy, limiter)}

	search := youtube.FallbackSearch{
		youtube.NewVideoSearch(kkdai.NewHTTPClient(cfg.YouTubeProxy)),
		youtube.NewMusicSearch(),
	}
	// Spotify titles match YouTube Music better than the video index.
	catalogSearch := youtube.FallbackSearch{search[1], search[0]}

	var lookup spotify.TrackLookup
	if cfg.SpotifyEnabled() {
		lookup = spotify.NewWebAPI(ctx, cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	} else {
		log.Println("[INFO] Spotify credentials not set, Spotify links are disabled")
	}

	yt := youtube.New(youtubeExtractor, search)
	links := []sources.Source{
		yt,
		spotify.New(lookup, catalogSearch, youtubeExtractor),
		soundcloud.New(generic),
		radio.New(radio.NewProber(), generic),
	}
	return source_resolver.New(yt, links...)
}
