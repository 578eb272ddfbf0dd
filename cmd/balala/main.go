// Package main is the entry point for the Balala demo.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/balala/internal/config"
	"github.com/Faultbox/balala/internal/game"
	"github.com/Faultbox/balala/internal/logger"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Balala ===", zap.String("config", cfg.Source))
	logger.Sugar.Debugf("Config: %+v", cfg)

	g, err := game.New(cfg)
	if err != nil {
		logger.Fatal("failed to create game", zap.Error(err))
	}

	runErr := g.Run()
	g.Close()
	if runErr != nil {
		logger.Error("game error", zap.Error(runErr))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("game closed normally")
}
