package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/desertthunder/coursebook/internal/shared"
	"github.com/urfave/cli/v3"
)

const (
	defaultConfigPath = "config.toml"
	defaultDotenv     = ".env"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := defaultConfigPath
	if p := os.Getenv(shared.EnvPrefix + "_CONFIG"); p != "" {
		configPath = p
	}

	config, err := loadConfig(configPath, defaultDotenv)
	if err != nil {
		logger.Fatalf("configuration error: %v", err)
	}

	level, err := shared.ParseLogLevel(config.Log.Level)
	if err != nil {
		logger.Warn("falling back to info logging", "err", err)
	}
	shared.SetLogLevel(logger, level)

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "coursebook",
		Usage:    "Browse course slots and book a place",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := app.Run(ctx, os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Fatalf("application error: %v", err)
	}
}

// loadConfig starts from the embedded defaults, overlays the TOML file when present and then the environment.
func loadConfig(path, dotenv string) (*shared.Config, error) {
	config := shared.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if config, err = shared.LoadConfig(path); err != nil {
			return nil, err
		}
	}

	if err := config.ApplyEnv(dotenv); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
