package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/roman-kulish/chromatica/cmd/chromatica/app"
)

func main() {
	var logLevel slog.LevelVar
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &logLevel}))

	var configPath string
	flag.StringVar(&configPath, "c", "", "Path to the configuration file")
	flag.Usage = func() {
		app.Usage(flag.CommandLine.Output())
		flag.PrintDefaults()
	}
	flag.Parse()

	config := app.NewConfig()
	if configPath != "" {
		var err error
		if config, err = app.LoadConfig(configPath); err != nil {
			logger.Error("failed to load configuration file", slog.String("path", configPath), slog.Any("error", err))
			os.Exit(1)
		}
	}

	logLevel.Set(config.Settings.LogLevel.Level())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := app.Run(ctx, config, flag.Args(), logger, os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			cancel()
			os.Exit(0)
		}

		logger.Error(err.Error())
		if errors.Is(err, app.ErrUsage) {
			flag.Usage()
		}

		cancel()
		os.Exit(1)
	}
}
