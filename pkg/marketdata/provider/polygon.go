package provider

import (
	"context"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
)

// PolygonAggsIterator is the part of the polygon aggregates iterator we use.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the part of the polygon REST client we use.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonClientWrapper struct {
	client *polygon.Client
}

func (w *polygonClientWrapper) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return w.client.ListAggs(ctx, params, options...)
}

type PolygonClient struct {
	apiClient PolygonAPIClient
	writer    writer.MarketDataWriter
}

func NewPolygonClient(apiKey string) (Provider, error) {
	if apiKey == "" {
		return nil, errors.New(errors.ErrCodeMissingParameter, "apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonClientWrapper{client: polygon.New(apiKey)}), nil
}

// NewPolygonClientWithAPI creates a PolygonClient over any PolygonAPIClient.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *PolygonClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *PolygonClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	return download(c.writer, ticker, startDate, endDate, c.bars(ctx, ticker, startDate, endDate), onProgress)
}

func (c *PolygonClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (*types.PriceSeries, error) {
	return fetch(ticker, c.bars(ctx, ticker, startDate, endDate))
}

// bars iterates split-adjusted daily aggregates.
func (c *PolygonClient) bars(ctx context.Context, ticker string, startDate, endDate time.Time) barSeq {
	return func(yield func(types.MarketData, error) bool) {
		//nolint:exhaustruct // third-party struct with many optional fields
		params := models.ListAggsParams{
			Ticker:     ticker,
			Multiplier: 1,
			Timespan:   models.Day,
			From:       models.Millis(startDate),
			To:         models.Millis(endDate),
		}.WithAdjusted(true).WithLimit(50000)

		aggs := c.apiClient.ListAggs(ctx, params)

		for aggs.Next() {
			agg := aggs.Item()
			data := types.MarketData{
				Id:     "",
				Symbol: ticker,
				Time:   time.Time(agg.Timestamp).UTC(),
				Open:   agg.Open,
				High:   agg.High,
				Low:    agg.Low,
				Close:  agg.Close,
				Volume: agg.Volume,
			}

			if !yield(data, nil) {
				return
			}
		}

		if err := aggs.Err(); err != nil {
			yield(types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "error iterating polygon aggregates for %s", ticker))
		}
	}
}
