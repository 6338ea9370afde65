package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/version"
	"github.com/urfave/cli/v3"
)

var timeNow = time.Now

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to a YAML run configuration. Defaults and ARGO_* environment variables apply without one.",
	}
}

// runFlags are shared by every command that loads a run configuration.
func runFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		configFlag(),
		&cli.StringFlag{
			Name:    "start",
			Aliases: []string{"s"},
			Usage:   "First day of history in `YYYY-MM-DD` format",
		},
		&cli.StringFlag{
			Name:    "end",
			Aliases: []string{"e"},
			Usage:   "Last day of history in `YYYY-MM-DD` format. Defaults to today.",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Results directory",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "debug, info, warn or error",
		},
	}, extra...)
}

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "forecast",
		Usage:   "Build daily return features and train next-day return models",
		Version: version.GetVersion(),
		Commands: []*cli.Command{
			trainCommand(),
			featuresCommand(),
			statsCommand(),
			downloadCommand(),
			schemaCommand(),
		},
	}
}

// loadConfig reads --config and applies the run flags set on cmd.
func loadConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("start") {
		cfg.Start = cmd.String("start")
	}

	if cmd.IsSet("end") {
		cfg.End = cmd.String("end")
	}

	if cmd.IsSet("output") {
		cfg.Output.Dir = cmd.String("output")
	}

	if cmd.IsSet("log-level") {
		cfg.Log.Level = cmd.String("log-level")
	}

	if cmd.IsSet("workers") {
		cfg.Workers = int(cmd.Int("workers"))
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	log, err := logger.NewLoggerWithLevel(cfg.Log.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return log, nil
}

func stdout(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}

	return os.Stdout
}

func stderr(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}

	return os.Stderr
}

func main() {
	if err := newApp().Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
