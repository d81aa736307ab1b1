package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/keshon/discord-ops/internal/config"
	"github.com/keshon/discord-ops/internal/discord"
	"github.com/keshon/discord-ops/internal/format"
	"github.com/keshon/discord-ops/internal/logging"
	"github.com/keshon/discord-ops/pkg/ratelimit"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

const connectTimeout = 15 * time.Second

func check(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.LogNameCheck, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	printSummary(c.App.Writer, cfg)

	if !c.Bool("connect") {
		return nil
	}

	client, err := discord.New(cfg.DiscordToken, ratelimit.NewBudget(cfg.RequestsPerSecond, cfg.BurstSize), nil)
	if err != nil {
		return fmt.Errorf("discord client: %w", err)
	}
	ctx, cancel := context.WithTimeout(c.Context, connectTimeout)
	defer cancel()

	me, err := client.CurrentUser(ctx)
	if err != nil {
		logger.Error("Token check failed", zap.Error(err))
		return fmt.Errorf("token check: %w", err)
	}
	logger.Info("Token check passed", zap.String("bot_id", me.ID))
	fmt.Fprintf(c.App.Writer, "Connected as %s (%s)\n", format.DisplayName(&me), format.ID(me.ID))
	return nil
}

func printSummary(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Configuration OK")
	fmt.Fprintf(w, "- Allowed guilds: %s\n", listOrAll(cfg.AllowedGuilds))
	fmt.Fprintf(w, "- Allowed channels: %s\n", listOrAll(cfg.AllowedChannels))
	fmt.Fprintf(w, "- Rate limit: %v req/s, burst %d\n", cfg.RequestsPerSecond, cfg.BurstSize)
	fmt.Fprintf(w, "- HTTP address: %s\n", cfg.HTTPAddr)
	fmt.Fprintf(w, "- Logging: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
}

func listOrAll(ids []string) string {
	if len(ids) == 0 {
		return "all"
	}
	return strings.Join(ids, ", ")
}
