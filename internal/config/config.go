// /internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	maxRequestsPerSecond = 50
	maxBurstSize         = 100
)

var (
	logLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	logFormats = map[string]bool{"json": true, "text": true}
)

type Config struct {
	DiscordToken  string `env:"DISCORD_BOT_TOKEN"`
	ApplicationID string `env:"DISCORD_APPLICATION_ID"`

	AllowedGuilds   []string `env:"ALLOWED_GUILDS" envSeparator:","`
	AllowedChannels []string `env:"ALLOWED_CHANNELS" envSeparator:","`

	RequestsPerSecond float64 `env:"RATE_LIMIT_REQUESTS_PER_SECOND" envDefault:"5"`
	BurstSize         int     `env:"RATE_LIMIT_BURST_SIZE" envDefault:"10"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8787"`
}

// Load reads envFile (if present) into the process environment and parses
// the configuration from it.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("load %s: %w", envFile, err)
			}
			log.Println("[INFO] No .env file found, falling back to system environment variables")
		}
	}
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) normalize() {
	c.AllowedGuilds = cleanIDs(c.AllowedGuilds)
	c.AllowedChannels = cleanIDs(c.AllowedChannels)
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if c.LogLevel == "warning" {
		c.LogLevel = "warn"
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DiscordToken) == "" {
		return errors.New("DISCORD_BOT_TOKEN is not set")
	}
	if c.RequestsPerSecond <= 0 || c.RequestsPerSecond > maxRequestsPerSecond {
		return fmt.Errorf("RATE_LIMIT_REQUESTS_PER_SECOND must be in (0, %d], got %v", maxRequestsPerSecond, c.RequestsPerSecond)
	}
	if c.BurstSize <= 0 || c.BurstSize > maxBurstSize {
		return fmt.Errorf("RATE_LIMIT_BURST_SIZE must be in (0, %d], got %d", maxBurstSize, c.BurstSize)
	}
	if !logLevels[c.LogLevel] {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.LogLevel)
	}
	if !logFormats[c.LogFormat] {
		return fmt.Errorf("invalid LOG_FORMAT %q (want json or text)", c.LogFormat)
	}
	return nil
}

func cleanIDs(ids []string) []string {
	var out []string
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
