// Package main is the entry point for the gridcaster renderer.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/gridcaster/internal/config"
	"github.com/Faultbox/gridcaster/internal/engine/terminal"
	"github.com/Faultbox/gridcaster/internal/engine/window"
	"github.com/Faultbox/gridcaster/internal/game"
	"github.com/Faultbox/gridcaster/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "gridcaster: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if config.SaveRequested() {
		path, err := cfg.Save()
		if err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		fmt.Printf("config written to %s\n", path)
		return nil
	}

	if err := initLogger(cfg); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logger.Sync()

	logger.Info("=== gridcaster ===", zap.String("level", logger.Level()))
	go rotateOnHangup()
	logger.Sugar.Debugf("Config: %+v", cfg)

	display, err := openDisplay(cfg)
	if err != nil {
		logger.Error("failed to open display", zap.Error(err))
		return err
	}

	g, err := game.New(cfg, display)
	if err != nil {
		_ = display.Close()
		logger.Error("failed to create game", zap.Error(err))
		return err
	}
	g.SetSound(game.NewSound(cfg.Audio))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := g.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}
	if err := g.Close(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("game error", zap.Error(runErr))
		return runErr
	}

	logger.Info("game closed normally")
	return nil
}

// initLogger keeps log output off the tty when the terminal draws the frame.
func initLogger(cfg *config.Config) error {
	if cfg.Graphics.Backend != "terminal" {
		return logger.Init(cfg.Logging.Level, cfg.Logging.LogFile)
	}
	path := cfg.Logging.LogFile
	if path == "" {
		path = "gridcaster.log"
	}
	return logger.InitWithFileConfig(cfg.Logging.Level, logger.DefaultFileConfig(path), false)
}

func openDisplay(cfg *config.Config) (game.Display, error) {
	switch cfg.Graphics.Backend {
	case "terminal":
		return terminal.New()
	default:
		return window.New(window.Config{
			Title:      cfg.Graphics.Title,
			Width:      cfg.Graphics.Width * cfg.Graphics.Scale,
			Height:     cfg.Graphics.Height * cfg.Graphics.Scale,
			Fullscreen: cfg.Graphics.Fullscreen,
			VSync:      cfg.Graphics.VSync,
		})
	}
}
