package report

import (
	"os"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/stats"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"gopkg.in/yaml.v3"
)

// StatsReport is the document written by the stats command.
type StatsReport struct {
	Timestamp   time.Time                `yaml:"timestamp"`
	Summaries   []stats.Summary          `yaml:"summaries"`
	Correlation *stats.CorrelationMatrix `yaml:"correlation"`
	Monthly     []stats.PeriodSummary    `yaml:"monthly"`
	Quarterly   []stats.PeriodSummary    `yaml:"quarterly"`
}

func WriteStatsReport(path string, report StatsReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return errors.Wrap(errors.ErrCodeReportFailed, "failed to marshal stats report", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to write %s", path)
	}

	return nil
}
