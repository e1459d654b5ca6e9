package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ericfisherdev/passvault/internal/adapter/driven/keyring"
	"github.com/ericfisherdev/passvault/internal/adapter/driving/cli"
	"github.com/ericfisherdev/passvault/internal/application"
	"github.com/ericfisherdev/passvault/internal/config"
	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Structured logging to stderr; stdout is reserved for command output.
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// 2. Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("fatal error", "error", err)
		return cli.ExitUsage
	}
	level.Set(cfg.LogLevel)
	slog.Debug("config loaded",
		"db_path", cfg.DBPath,
		"test_mode", cfg.TestMode,
		"keyring", cfg.KeyringEnabled,
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Select KDF parameters and the secret cache.
	kdf := application.ProductionKDF()
	if cfg.TestMode {
		kdf = application.TestKDF()
		slog.Warn("test mode enabled, using reduced KDF iterations", "iterations", kdf.Iterations)
	}

	var cache driven.SecretCache = keyring.Disabled{}
	if cfg.KeyringEnabled {
		cache = keyring.NewOS()
	}

	// 5. Wire the CLI and run.
	handler := cli.NewHandler(
		cfg.DBPath,
		kdf,
		cache,
		cli.NewTerminalPrompter(os.Stdin, os.Stderr),
		cli.SystemClipboard{},
		cli.SudoChecker{},
		level,
		logger,
		os.Stdout,
		os.Stderr,
	)
	return cli.Execute(ctx, handler, os.Args[1:])
}
