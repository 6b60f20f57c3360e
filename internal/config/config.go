package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	HTTP    HTTPConfig
	Redis   RedisConfig
	Discord DiscordConfig
	Relay   RelayConfig
	Chat    ChatConfig
}

// HTTPConfig holds the JSON API listener configuration
type HTTPConfig struct {
	Addr            string        `env:"HTTP_ADDR"             envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// URL is a redis:// URL; empty means in-memory storage
	URL string `env:"REDIS_URL"`
}

// DiscordConfig holds Discord-specific configuration
type DiscordConfig struct {
	Token   string `env:"DISCORD_TOKEN"`
	AppID   string `env:"DISCORD_APP_ID"`
	GuildID string `env:"DISCORD_GUILD_ID"` // Optional: for guild-specific commands
}

// Enabled reports whether the Discord bot should start
func (d DiscordConfig) Enabled() bool {
	return d.Token != ""
}

// RelayConfig holds outbound webhook configuration
type RelayConfig struct {
	WebhookURLs []string      `env:"RELAY_WEBHOOK_URLS" envSeparator:","`
	Timeout     time.Duration `env:"RELAY_TIMEOUT"      envDefault:"10s"`
}

// ChatConfig holds chat log limits
type ChatConfig struct {
	MaxMessages int `env:"CHAT_MAX_MESSAGES" envDefault:"500"`
	PageSize    int `env:"CHAT_PAGE_SIZE"    envDefault:"50"`
}

// Load reads .env files when present and then parses the process environment
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return parse(env.Options{})
}

// LoadFromMap parses configuration from the given variables only
func LoadFromMap(vars map[string]string) (*Config, error) {
	return parse(env.Options{Environment: vars})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field combinations the env tags cannot express
func (c *Config) Validate() error {
	if c.Discord.Enabled() && c.Discord.AppID == "" {
		return fmt.Errorf("DISCORD_APP_ID is required when DISCORD_TOKEN is set")
	}
	if c.HTTP.Addr == "" && !c.Discord.Enabled() {
		return fmt.Errorf("HTTP_ADDR or DISCORD_TOKEN is required")
	}
	if c.Chat.MaxMessages <= 0 {
		return fmt.Errorf("CHAT_MAX_MESSAGES must be positive, got %d", c.Chat.MaxMessages)
	}
	if c.Chat.PageSize <= 0 || c.Chat.PageSize > c.Chat.MaxMessages {
		return fmt.Errorf("CHAT_PAGE_SIZE must be between 1 and %d, got %d", c.Chat.MaxMessages, c.Chat.PageSize)
	}
	if c.Relay.Timeout <= 0 {
		return fmt.Errorf("RELAY_TIMEOUT must be positive")
	}
	return nil
}
