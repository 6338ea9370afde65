package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rxtech-lab/argo-forecast/internal/report"
	"github.com/rxtech-lab/argo-forecast/internal/stats"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata"
	"github.com/urfave/cli/v3"
)

const statsFileName = "return_stats.yaml"

func statsCommand() *cli.Command {
	return &cli.Command{
		Name:   "stats",
		Usage:  "Summarize daily returns, their correlations and monthly and quarterly returns",
		Flags:  runFlags(),
		Action: statsAction,
	}
}

func statsAction(ctx context.Context, cmd *cli.Command) error {
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

	instruments, err := fetchAll(ctx, source, cfg, log)
	if err != nil {
		return err
	}

	if len(instruments) == 0 {
		return errors.New(errors.ErrCodeMissingData, "no instrument has data")
	}

	doc, err := buildStatsReport(instruments)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to create %s", cfg.Output.Dir)
	}

	path := filepath.Join(cfg.Output.Dir, statsFileName)
	if err := report.WriteStatsReport(path, doc); err != nil {
		return err
	}

	out := stdout(cmd)
	fmt.Fprintln(out, report.RenderSummaries(doc.Summaries))
	fmt.Fprintln(out, report.RenderCorrelation(doc.Correlation))
	fmt.Fprintf(out, "Report written to %s\n", path)

	return nil
}

func buildStatsReport(instruments []fetched) (report.StatsReport, error) {
	doc := report.StatsReport{
		Timestamp:   timeNow().UTC(),
		Summaries:   nil,
		Correlation: nil,
		Monthly:     nil,
		Quarterly:   nil,
	}

	returns := make(map[string]types.ReturnSeries, len(instruments))

	for _, inst := range instruments {
		r := inst.series.Returns()
		if r.Len() == 0 {
			continue
		}

		returns[inst.key] = r

		summary, err := stats.Summarize(r)
		if err != nil {
			return doc, err
		}

		monthly, err := stats.PeriodReturns(r, stats.PeriodMonth)
		if err != nil {
			return doc, err
		}

		quarterly, err := stats.PeriodReturns(r, stats.PeriodQuarter)
		if err != nil {
			return doc, err
		}

		doc.Summaries = append(doc.Summaries, summary)
		doc.Monthly = append(doc.Monthly, monthly)
		doc.Quarterly = append(doc.Quarterly, quarterly)
	}

	doc.Correlation = stats.Correlation(returns)

	return doc, nil
}
