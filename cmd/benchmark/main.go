package main

import (
	"context"
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/fiberparty/internal/observability"
)

const (
	configKey     = "config"
	iterationsKey = "iterations"
	profileKey    = "profile"
	logLevelKey   = "log-level"
)

func main() {
	cmd := &cli.Command{
		Name:  "benchmark",
		Usage: "Measure render cycle latency",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  configKey,
				Usage: "TOML file overriding the default scenarios",
			},
			&cli.IntFlag{
				Name:  iterationsKey,
				Usage: "Iterations per scenario and size",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
				Value: "default.pgo",
			},
			&cli.StringFlag{
				Name:  logLevelKey,
				Usage: "zerolog level",
				Value: "info",
			},
		},
		Action: benchmark,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("benchmark failed")
	}
}

func benchmark(ctx context.Context, cmd *cli.Command) error {
	logger, err := observability.InitLogger("benchmark", cmd.String(logLevelKey))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd.String(configKey))
	if err != nil {
		return err
	}
	if cmd.IsSet(iterationsKey) {
		cfg.Iterations = int(cmd.Int(iterationsKey))
		if err := cfg.validate(); err != nil {
			return err
		}
	}

	if path := cmd.String(profileKey); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("start profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	logger.Info().Int("iterations", cfg.Iterations).Int64("seed", cfg.Seed).Msg("warming up")
	return run(cfg, os.Stdout, logger)
}
