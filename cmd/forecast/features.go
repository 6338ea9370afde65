package main

import (
	"context"
	"fmt"

	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/internal/store"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func featuresCommand() *cli.Command {
	return &cli.Command{
		Name:   "features",
		Usage:  "Assemble and save the feature table of every instrument without training",
		Flags:  runFlags(),
		Action: featuresAction,
	}
}

func featuresAction(ctx context.Context, cmd *cli.Command) error {
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

	fileStore, err := store.NewFileStore(cfg.Output.Dir, store.Options{SaveFeatures: true, SaveModels: false}, log)
	if err != nil {
		return err
	}

	instruments, err := fetchAll(ctx, source, cfg, log)
	if err != nil {
		return err
	}

	for _, inst := range instruments {
		assembler, err := feature.NewAssembler(assemblerOptions(cfg))
		if err != nil {
			return err
		}

		table, err := assembler.Assemble(inst.series)
		if err != nil {
			log.Warn("Skipping instrument", zap.String("instrument", inst.key), zap.Error(err))

			continue
		}

		if err := fileStore.SaveFeatures(ctx, table); err != nil {
			return err
		}

		dataset, err := table.CompleteCases()
		if err != nil {
			return err
		}

		fmt.Fprintf(stdout(cmd), "%s: %d rows, %d complete, %d warnings -> %s\n",
			inst.key, table.Len(), dataset.Len(), len(table.Warnings), fileStore.FeaturesPath(inst.key))
	}

	return nil
}
