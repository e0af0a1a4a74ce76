package main

import (
	"github.com/cognitive-crime/casegraph/internal/config"
	"github.com/cognitive-crime/casegraph/internal/server"
	"github.com/cognitive-crime/casegraph/pkg/logger"
	"github.com/cognitive-crime/casegraph/pkg/logger/console"

	_ "github.com/lib/pq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{})
		logger.Init(consoleLogger)
		logger.Fatal("Invalid configuration", "err", err)
	}

	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: cfg.Debug,
	})
	logger.Init(consoleLogger)

	server.Init(cfg)
}
