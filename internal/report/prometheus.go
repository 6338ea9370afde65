package report

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// PrometheusSink records holdout metrics and outcome counts in its own
// registry and writes them in the textfile collector format on Close.
type PrometheusSink struct {
	path        string
	registry    *prometheus.Registry
	r2          *prometheus.GaugeVec
	rmse        *prometheus.GaugeVec
	samples     *prometheus.GaugeVec
	instruments *prometheus.CounterVec
}

// NewPrometheusSink labels every series with group.
func NewPrometheusSink(path, group string) *PrometheusSink {
	constLabels := prometheus.Labels{"group": group}
	s := &PrometheusSink{
		path:     path,
		registry: prometheus.NewRegistry(),
		r2: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "argo_forecast_r2",
				Help:        "Holdout coefficient of determination of the latest model",
				ConstLabels: constLabels,
			},
			[]string{"symbol"},
		),
		rmse: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "argo_forecast_rmse",
				Help:        "Holdout root mean squared error of the latest model, in percent",
				ConstLabels: constLabels,
			},
			[]string{"symbol"},
		),
		samples: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name:        "argo_forecast_samples",
				Help:        "Rows used by the latest model per segment",
				ConstLabels: constLabels,
			},
			[]string{"symbol", "segment"},
		),
		instruments: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "argo_forecast_instruments_total",
				Help:        "Instruments processed by outcome",
				ConstLabels: constLabels,
			},
			[]string{"status"},
		),
	}

	s.registry.MustRegister(s.r2, s.rmse, s.samples, s.instruments)

	return s
}

func (s *PrometheusSink) Report(ctx context.Context, result types.InstrumentResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.instruments.WithLabelValues(string(result.Status)).Inc()

	if result.Metrics.IsNone() {
		return nil
	}

	m := result.Metrics.Unwrap()
	s.r2.WithLabelValues(result.Symbol).Set(m.R2)
	s.rmse.WithLabelValues(result.Symbol).Set(m.RMSE)
	s.samples.WithLabelValues(result.Symbol, "train").Set(float64(m.NTrain))
	s.samples.WithLabelValues(result.Symbol, "test").Set(float64(m.NTest))

	return nil
}

func (s *PrometheusSink) Close() error {
	if err := prometheus.WriteToTextfile(s.path, s.registry); err != nil {
		return errors.Wrapf(errors.ErrCodeReportFailed, err, "failed to write %s", s.path)
	}

	return nil
}
