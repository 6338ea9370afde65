package marketdata

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/provider"
	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/writer"
	"github.com/stretchr/testify/suite"
)

// fakeProvider writes a fixed set of bars to the configured writer.
type fakeProvider struct {
	bars        []types.MarketData
	downloadErr error
	writer      writer.MarketDataWriter
}

func (f *fakeProvider) ConfigWriter(w writer.MarketDataWriter) {
	f.writer = w
}

func (f *fakeProvider) Download(_ context.Context, _ string, _, _ time.Time, _ provider.OnDownloadProgress) (string, error) {
	if f.downloadErr != nil {
		return "", f.downloadErr
	}

	if err := f.writer.Initialize(); err != nil {
		return "", err
	}
	defer f.writer.Close()

	for _, bar := range f.bars {
		if err := f.writer.Write(bar); err != nil {
			return "", err
		}
	}

	return f.writer.Finalize()
}

func (f *fakeProvider) Fetch(_ context.Context, ticker string, _, _ time.Time) (*types.PriceSeries, error) {
	return types.NewPriceSeries(ticker, f.bars)
}

type ClientTestSuite struct {
	suite.Suite
	dir    string
	params DownloadParams
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func (suite *ClientTestSuite) SetupTest() {
	suite.dir = filepath.Join(suite.T().TempDir(), "data")
	suite.params = DownloadParams{
		Ticker:    "SPY",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
	}
}

func (suite *ClientTestSuite) TestNewClient() {
	suite.Run("binance", func() {
		client, err := NewClient(ClientConfig{ProviderType: provider.ProviderBinance, DataPath: suite.dir, PolygonApiKey: ""}, nil)
		suite.Require().NoError(err)
		suite.IsType(&provider.BinanceClient{}, client.provider)
	})

	suite.Run("polygon needs a key", func() {
		_, err := NewClient(ClientConfig{ProviderType: provider.ProviderPolygon, DataPath: suite.dir, PolygonApiKey: ""}, nil)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
	})

	suite.Run("unknown provider", func() {
		_, err := NewClient(ClientConfig{ProviderType: "yahoo", DataPath: suite.dir, PolygonApiKey: ""}, nil)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
	})
}

func (suite *ClientTestSuite) TestFileName() {
	suite.Equal("SPY_2024-01-01_2024-01-31_1d.parquet", suite.params.FileName())
}

func (suite *ClientTestSuite) TestDownloadCreatesDataPath() {
	fake := &fakeProvider{bars: []types.MarketData{{
		Id:     "",
		Symbol: "SPY",
		Time:   time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC),
		Open:   1,
		High:   2,
		Low:    0.5,
		Close:  1.5,
		Volume: 10,
	}}}
	client := newClientWithProvider(fake, ClientConfig{ProviderType: provider.ProviderBinance, DataPath: suite.dir, PolygonApiKey: ""}, nil)

	path, err := client.Download(context.Background(), suite.params)
	suite.Require().NoError(err)

	suite.Equal(filepath.Join(suite.dir, suite.params.FileName()), path)
	_, err = os.Stat(path)
	suite.NoError(err)
}

func (suite *ClientTestSuite) TestDownloadErrors() {
	suite.Run("invalid params", func() {
		client := newClientWithProvider(&fakeProvider{}, ClientConfig{ProviderType: provider.ProviderBinance, DataPath: suite.dir, PolygonApiKey: ""}, nil)
		params := suite.params
		params.EndDate = params.StartDate

		_, err := client.Download(context.Background(), params)
		suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
	})

	suite.Run("provider error", func() {
		cause := stderrors.New("boom")
		client := newClientWithProvider(&fakeProvider{downloadErr: cause}, ClientConfig{ProviderType: provider.ProviderBinance, DataPath: suite.dir, PolygonApiKey: ""}, nil)

		_, err := client.Download(context.Background(), suite.params)
		suite.ErrorIs(err, cause)
		suite.Contains(err.Error(), "download failed")
	})
}
