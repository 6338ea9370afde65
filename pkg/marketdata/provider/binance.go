package provider

import (
	"context"
	"strconv"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
)

// binancePageSize is the largest page the klines endpoint returns.
const binancePageSize = 1000

// BinanceKlinesService is the part of the binance klines service we use.
type BinanceKlinesService interface {
	Symbol(symbol string) BinanceKlinesService
	Interval(interval string) BinanceKlinesService
	StartTime(startTime int64) BinanceKlinesService
	EndTime(endTime int64) BinanceKlinesService
	Limit(limit int) BinanceKlinesService
	Do(ctx context.Context) ([]*binance.Kline, error)
}

// BinanceAPIClient is the part of the binance client we use.
type BinanceAPIClient interface {
	NewKlinesService() BinanceKlinesService
}

type binanceClientWrapper struct {
	client *binance.Client
}

func (w *binanceClientWrapper) NewKlinesService() BinanceKlinesService {
	return &binanceKlinesServiceWrapper{service: w.client.NewKlinesService()}
}

type binanceKlinesServiceWrapper struct {
	service *binance.KlinesService
}

func (w *binanceKlinesServiceWrapper) Symbol(symbol string) BinanceKlinesService {
	w.service.Symbol(symbol)

	return w
}

func (w *binanceKlinesServiceWrapper) Interval(interval string) BinanceKlinesService {
	w.service.Interval(interval)

	return w
}

func (w *binanceKlinesServiceWrapper) StartTime(startTime int64) BinanceKlinesService {
	w.service.StartTime(startTime)

	return w
}

func (w *binanceKlinesServiceWrapper) EndTime(endTime int64) BinanceKlinesService {
	w.service.EndTime(endTime)

	return w
}

func (w *binanceKlinesServiceWrapper) Limit(limit int) BinanceKlinesService {
	w.service.Limit(limit)

	return w
}

func (w *binanceKlinesServiceWrapper) Do(ctx context.Context) ([]*binance.Kline, error) {
	return w.service.Do(ctx)
}

type BinanceClient struct {
	apiClient BinanceAPIClient
	writer    writer.MarketDataWriter
}

// NewBinanceClient uses the public market data API, which needs no key.
func NewBinanceClient() (Provider, error) {
	return NewBinanceClientWithAPI(&binanceClientWrapper{client: binance.NewClient("", "")}), nil
}

// NewBinanceClientWithAPI creates a BinanceClient over any BinanceAPIClient.
func NewBinanceClientWithAPI(apiClient BinanceAPIClient) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		writer:    nil,
	}
}

func (c *BinanceClient) ConfigWriter(w writer.MarketDataWriter) {
	c.writer = w
}

func (c *BinanceClient) Download(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, onProgress OnDownloadProgress) (string, error) {
	return download(c.writer, ticker, startDate, endDate, c.bars(ctx, ticker, startDate, endDate), onProgress)
}

func (c *BinanceClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time) (*types.PriceSeries, error) {
	return fetch(ticker, c.bars(ctx, ticker, startDate, endDate))
}

// bars pages through daily klines. Each page starts 1ms after the close
// time of the previous page's last kline.
func (c *BinanceClient) bars(ctx context.Context, ticker string, startDate, endDate time.Time) barSeq {
	return func(yield func(types.MarketData, error) bool) {
		currentStart := startDate.UnixMilli()
		endMillis := endDate.UnixMilli()

		for currentStart <= endMillis {
			klines, err := c.apiClient.NewKlinesService().
				Symbol(ticker).
				Interval("1d").
				StartTime(currentStart).
				EndTime(endMillis).
				Limit(binancePageSize).
				Do(ctx)
			if err != nil {
				yield(types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataFetchFailed, err, "failed to fetch klines for %s", ticker))

				return
			}

			for _, k := range klines {
				data, err := klineToMarketData(ticker, k)
				if !yield(data, err) || err != nil {
					return
				}
			}

			if len(klines) < binancePageSize {
				return
			}

			currentStart = klines[len(klines)-1].CloseTime + 1
		}
	}
}

// klineToMarketData uses the open time as the bar timestamp.
func klineToMarketData(ticker string, k *binance.Kline) (types.MarketData, error) {
	values := make([]float64, 5)

	for i, s := range []string{k.Open, k.High, k.Low, k.Close, k.Volume} {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return types.MarketData{}, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "invalid kline value %q for %s", s, ticker)
		}

		values[i] = v
	}

	return types.MarketData{
		Id:     "",
		Symbol: ticker,
		Time:   time.UnixMilli(k.OpenTime).UTC(),
		Open:   values[0],
		High:   values[1],
		Low:    values[2],
		Close:  values[3],
		Volume: values[4],
	}, nil
}
