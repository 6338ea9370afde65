package marketdata

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/pkg/marketdata/provider"
	"github.com/stretchr/testify/suite"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func (suite *DownloadConfigTestSuite) TestParseDownloadConfig() {
	config, err := ParseDownloadConfig(`{"provider":"binance","ticker":"BTCUSDT","startDate":"2021-01-01","endDate":"2024-12-31"}`)
	suite.Require().NoError(err)

	params, err := config.ToDownloadParams()
	suite.Require().NoError(err)
	suite.Equal("BTCUSDT", params.Ticker)
	suite.Equal(time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), params.StartDate)
	suite.Equal(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), params.EndDate)

	client := config.ToClientConfig("data")
	suite.Equal(provider.ProviderBinance, client.ProviderType)
	suite.Equal("data", client.DataPath)
}

func (suite *DownloadConfigTestSuite) TestInvalid() {
	tests := []struct {
		name string
		json string
	}{
		{"malformed json", `{`},
		{"missing ticker", `{"provider":"binance","startDate":"2021-01-01","endDate":"2024-12-31"}`},
		{"unknown provider", `{"provider":"yahoo","ticker":"SPY","startDate":"2021-01-01","endDate":"2024-12-31"}`},
		{"polygon without key", `{"provider":"polygon","ticker":"SPY","startDate":"2021-01-01","endDate":"2024-12-31"}`},
		{"bad date", `{"provider":"binance","ticker":"SPY","startDate":"01/01/2021","endDate":"2024-12-31"}`},
		{"end before start", `{"provider":"binance","ticker":"SPY","startDate":"2024-12-31","endDate":"2021-01-01"}`},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := ParseDownloadConfig(tt.json)
			suite.Error(err)
		})
	}
}

func (suite *DownloadConfigTestSuite) TestPolygonWithKey() {
	config, err := ParseDownloadConfig(`{"provider":"polygon","ticker":"SPY","startDate":"2021-01-01","endDate":"2024-12-31","apiKey":"secret"}`)
	suite.Require().NoError(err)
	suite.Equal("secret", config.ToClientConfig("data").PolygonApiKey)
}
