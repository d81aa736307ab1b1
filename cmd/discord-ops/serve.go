package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/keshon/discord-ops/internal/access"
	"github.com/keshon/discord-ops/internal/config"
	"github.com/keshon/discord-ops/internal/discord"
	"github.com/keshon/discord-ops/internal/httpapi"
	"github.com/keshon/discord-ops/internal/logging"
	"github.com/keshon/discord-ops/internal/service"
	"github.com/keshon/discord-ops/pkg/ratelimit"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func serve(c *cli.Context) error {
	cfg, err := config.Load(c.String("env-file"))
	if err != nil {
		return err
	}
	if addr := c.String("addr"); addr != "" {
		cfg.HTTPAddr = addr
	}

	logger, err := logging.New(logging.LogNameServer, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	client, err := discord.New(cfg.DiscordToken, ratelimit.NewBudget(cfg.RequestsPerSecond, cfg.BurstSize), nil)
	if err != nil {
		return fmt.Errorf("discord client: %w", err)
	}

	gate := access.NewGate(cfg.AllowedGuilds, cfg.AllowedChannels)
	if !gate.Restricted() {
		logger.Warn("No allow-lists configured, every guild and channel the bot can see is reachable")
	}
	svc := service.New(client, gate, logger)

	logger.Info("Starting "+appName,
		zap.String("addr", cfg.HTTPAddr),
		zap.Strings("allowed_guilds", cfg.AllowedGuilds),
		zap.Strings("allowed_channels", cfg.AllowedChannels),
		zap.Float64("requests_per_second", cfg.RequestsPerSecond),
		zap.Int("burst", cfg.BurstSize),
	)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		if err := httpapi.Run(ctx, cfg.HTTPAddr, httpapi.NewRouter(svc, logger), logger); err != nil {
			errCh <- err
		}
		close(errCh)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case s := <-sig:
		logger.Info("Received signal, shutting down", zap.Stringer("signal", s))
		cancel()
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server error", zap.Error(err))
			return err
		}
	}

	// wait for the drain to finish
	if err := <-errCh; err != nil {
		return err
	}
	logger.Info(appName + " exited cleanly")
	return nil
}
