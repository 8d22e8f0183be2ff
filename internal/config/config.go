package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	DiscordToken string   `env:"DISCORD_TOKEN,required,notEmpty"`
	GuildIDs     []string `env:"GUILD_IDS" envSeparator:","`

	DefaultVolume  int           `env:"DEFAULT_VOLUME" envDefault:"80"`
	ResolveTimeout time.Duration `env:"RESOLVE_TIMEOUT" envDefault:"45s"`
	QueuePreview   int           `env:"QUEUE_PREVIEW" envDefault:"10"`

	SpotifyClientID     string `env:"SPOTIFY_CLIENT_ID"`
	SpotifyClientSecret string `env:"SPOTIFY_CLIENT_SECRET"`

	YouTubeProxy string  `env:"YOUTUBE_PROXY"`
	YtdlpRate    float64 `env:"YTDLP_RATE" envDefault:"2"`

	FFmpegPath  string `env:"FFMPEG_PATH" envDefault:"ffmpeg"`
	CommandsDir string `env:"COMMANDS_DIR" envDefault:"data/commands"`

	LogDir string `env:"LOG_DIR" envDefault:"logs"`
	Debug  bool   `env:"DEBUG"`
}

// SpotifyEnabled reports whether both Spotify credentials are set.
func (c *Config) SpotifyEnabled() bool {
	return c.SpotifyClientID != "" && c.SpotifyClientSecret != ""
}

// Load reads .env if present, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, falling back to system environment variables")
	}
	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.ResolveTimeout < 0 {
		errs = append(errs, errors.New("RESOLVE_TIMEOUT must not be negative"))
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 100 {
		errs = append(errs, errors.New("DEFAULT_VOLUME must be between 0 and 100"))
	}
	if c.QueuePreview <= 0 {
		errs = append(errs, errors.New("QUEUE_PREVIEW must be positive"))
	}
	if c.YtdlpRate <= 0 {
		errs = append(errs, errors.New("YTDLP_RATE must be positive"))
	}
	if (c.SpotifyClientID == "") != (c.SpotifyClientSecret == "") {
		errs = append(errs, errors.New("SPOTIFY_CLIENT_ID and SPOTIFY_CLIENT_SECRET must be set together"))
	}
	return errors.Join(errs...)
}
