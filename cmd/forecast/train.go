package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rxtech-lab/argo-forecast/internal/config"
	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/harness"
	"github.com/rxtech-lab/argo-forecast/internal/logger"
	"github.com/rxtech-lab/argo-forecast/internal/pipeline"
	"github.com/rxtech-lab/argo-forecast/internal/report"
	"github.com/rxtech-lab/argo-forecast/internal/store"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const reportFileName = "training_report"

func trainCommand() *cli.Command {
	return &cli.Command{
		Name:  "train",
		Usage: "Assemble features and train one model per instrument",
		Flags: runFlags(&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Instruments processed concurrently",
		}),
		Action: trainAction,
	}
}

func trainAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer log.Sync()

	source, err := marketdata.NewSource(cfg.Source, log)
	if err != nil {
		return err
	}
	defer source.Close()

	fileStore, err := store.NewFileStore(cfg.Output.Dir, store.Options{
		SaveFeatures: cfg.Output.SaveFeatures,
		SaveModels:   cfg.Output.SaveModels,
	}, log)
	if err != nil {
		return err
	}

	sink := newSink(cfg)

	h, err := harness.NewHarness(cfg.Harness, log)
	if err != nil {
		return err
	}

	start, end, err := cfg.Range(timeNow())
	if err != nil {
		return err
	}

	runner, err := pipeline.NewRunner(source, h, pipeline.Options{
		Store:     fileStore,
		Sink:      sink,
		Assembler: assemblerOptions(cfg),
		Workers:   cfg.Workers,
		Start:     start,
		End:       end,
		Logger:    log,
	})
	if err != nil {
		return err
	}

	results := runner.Run(ctx, cfg.Instruments, progressCallbacks(cmd, log))

	if err := sink.Close(); err != nil {
		log.Error("Failed to write reports", zap.Error(err))

		return err
	}

	fmt.Fprintln(stdout(cmd), report.RenderResults(results))

	return nil
}

func assemblerOptions(cfg *config.Config) feature.Options {
	return feature.Options{
		Registry:   nil,
		Volatility: nil,
		CloseLags:  cfg.Features.CloseLags,
		ReturnLags: cfg.Features.ReturnLags,
		MinBars:    cfg.Features.MinBars,
	}
}

func newSink(cfg *config.Config) report.MultiSink {
	sinks := report.MultiSink{
		report.NewYAMLSink(filepath.Join(cfg.Output.Dir, reportFileName+".yaml")),
	}

	if cfg.Output.XLSX {
		sinks = append(sinks, report.NewXLSXSink(filepath.Join(cfg.Output.Dir, reportFileName+".xlsx")))
	}

	if cfg.Output.PrometheusFile != "" {
		sinks = append(sinks, report.NewPrometheusSink(cfg.Output.PrometheusFile, cfg.Output.PrometheusGroup))
	}

	return sinks
}

// progressCallbacks draws a progress bar and logs every outcome.
func progressCallbacks(cmd *cli.Command, log *logger.Logger) pipeline.Callbacks {
	var bar *progressbar.ProgressBar

	onRunStart := pipeline.OnRunStartCallback(func(total int) error {
		bar = progressbar.NewOptions(total,
			progressbar.OptionSetDescription("Training"),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWriter(stderr(cmd)),
		)

		return nil
	})

	onInstrumentEnd := pipeline.OnInstrumentEndCallback(func(_ int, result types.InstrumentResult) {
		fields := []zap.Field{zap.String("symbol", result.Symbol), zap.String("status", string(result.Status))}
		if result.Err != nil {
			fields = append(fields, zap.Error(result.Err))
		}

		log.Info("Instrument finished", fields...)

		if bar != nil {
			_ = bar.Add(1)
		}
	})

	onRunEnd := pipeline.OnRunEndCallback(func(map[string]types.InstrumentResult) {
		if bar != nil {
			_ = bar.Finish()
		}
	})

	return pipeline.Callbacks{
		OnRunStart:        &onRunStart,
		OnRunEnd:          &onRunEnd,
		OnInstrumentStart: nil,
		OnInstrumentEnd:   &onInstrumentEnd,
	}
}
