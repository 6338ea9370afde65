package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-forecast/internal/types"
	"github.com/rxtech-lab/argo-forecast/mocks"
	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type ForecastCLITestSuite struct {
	suite.Suite
	dir        string
	dataDir    string
	resultsDir string
	configPath string
}

func TestForecastCLISuite(t *testing.T) {
	suite.Run(t, new(ForecastCLITestSuite))
}

func (suite *ForecastCLITestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
	suite.dataDir = filepath.Join(suite.dir, "data")
	suite.resultsDir = filepath.Join(suite.dir, "results")
	suite.Require().NoError(os.MkdirAll(suite.dataDir, 0o755))

	suite.writeCSV("PAT", mocks.NewDataGenerator(1).Generate(mocks.WeekdayPatternConfig("PAT", 200)))
	suite.writeCSV("SHORT", mocks.GenerateDaily("SHORT", 60))

	config := fmt.Sprintf(`
instruments:
  - name: Pattern
    symbol: PAT
  - name: Short
    symbol: SHORT
  - name: Missing
    symbol: NOPE
start: "2020-01-01"
end: "2021-12-31"
workers: 2
source:
  provider: csv
  path: %q
harness:
  forest:
    trees: 5
output:
  dir: %q
  xlsx: true
log:
  level: error
`, suite.dataDir, suite.resultsDir)

	suite.configPath = filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(suite.configPath, []byte(config), 0o644))

	timeNow = func() time.Time { return time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC) }
	suite.T().Cleanup(func() { timeNow = time.Now })
}

func (suite *ForecastCLITestSuite) writeCSV(symbol string, bars []types.MarketData) {
	var b strings.Builder

	b.WriteString("date,open,high,low,close,volume\n")

	for _, bar := range bars {
		fmt.Fprintf(&b, "%s,%f,%f,%f,%f,%f\n", bar.Time.Format(time.DateOnly), bar.Open, bar.High, bar.Low, bar.Close, bar.Volume)
	}

	suite.Require().NoError(os.WriteFile(filepath.Join(suite.dataDir, symbol+".csv"), []byte(b.String()), 0o644))
}

func (suite *ForecastCLITestSuite) run(args ...string) (string, error) {
	var out bytes.Buffer

	app := newApp()
	app.Writer = &out
	app.ErrWriter = &bytes.Buffer{}

	err := app.Run(context.Background(), append([]string{"forecast"}, args...))

	return out.String(), err
}

func (suite *ForecastCLITestSuite) TestTrain() {
	out, err := suite.run("train", "-c", suite.configPath)
	suite.Require().NoError(err)

	suite.Contains(out, "Pattern")
	suite.Contains(out, string(types.InstrumentStatusSkippedInsufficientSamples))
	suite.Contains(out, string(types.InstrumentStatusSkippedNoData))

	data, err := os.ReadFile(filepath.Join(suite.resultsDir, "training_report.yaml"))
	suite.Require().NoError(err)

	var report types.TrainingReport
	suite.Require().NoError(yaml.Unmarshal(data, &report))
	suite.Require().Len(report.Instruments, 3)

	statuses := map[string]types.InstrumentStatus{}
	for _, r := range report.Instruments {
		statuses[r.Symbol] = r.Status
	}

	suite.Equal(types.InstrumentStatusSkippedNoData, statuses["Missing"])
	suite.Equal(types.InstrumentStatusTrained, statuses["Pattern"])
	suite.Equal(types.InstrumentStatusSkippedInsufficientSamples, statuses["Short"])

	suite.FileExists(filepath.Join(suite.resultsDir, "Pattern_model.json"))
	suite.FileExists(filepath.Join(suite.resultsDir, "Pattern_features.parquet"))
	suite.FileExists(filepath.Join(suite.resultsDir, "training_report.xlsx"))
	suite.NoFileExists(filepath.Join(suite.resultsDir, "Short_model.json"))
}

func (suite *ForecastCLITestSuite) TestTrainFlagsOverrideConfig() {
	other := filepath.Join(suite.dir, "other")

	_, err := suite.run("train", "-c", suite.configPath, "--output", other, "--workers", "1")
	suite.Require().NoError(err)
	suite.FileExists(filepath.Join(other, "training_report.yaml"))
}

func (suite *ForecastCLITestSuite) TestTrainInvalidConfig() {
	_, err := suite.run("train", "-c", suite.configPath, "--start", "2023-01-01")
	suite.Error(err)

	_, err = suite.run("train", "-c", filepath.Join(suite.dir, "missing.yaml"))
	suite.Error(err)
}

func (suite *ForecastCLITestSuite) TestFeatures() {
	out, err := suite.run("features", "-c", suite.configPath)
	suite.Require().NoError(err)

	suite.Contains(out, "Pattern: 200 rows, 150 complete")
	suite.FileExists(filepath.Join(suite.resultsDir, "Pattern_features.parquet"))
	suite.FileExists(filepath.Join(suite.resultsDir, "Short_features.parquet"))
	suite.NoFileExists(filepath.Join(suite.resultsDir, "Pattern_model.json"))
}

func (suite *ForecastCLITestSuite) TestStats() {
	out, err := suite.run("stats", "-c", suite.configPath)
	suite.Require().NoError(err)

	suite.Contains(out, "Pattern")
	suite.Contains(out, "Short")

	data, err := os.ReadFile(filepath.Join(suite.resultsDir, statsFileName))
	suite.Require().NoError(err)
	suite.Contains(string(data), "summaries:")
	suite.Contains(string(data), "quarterly:")
}

func (suite *ForecastCLITestSuite) TestSchema() {
	out, err := suite.run("schema")
	suite.Require().NoError(err)

	var schema map[string]any
	suite.Require().NoError(json.Unmarshal([]byte(out), &schema))

	dir := filepath.Join(suite.dir, "schema")
	_, err = suite.run("schema", "--out", dir)
	suite.Require().NoError(err)
	suite.FileExists(filepath.Join(dir, schemaFileName))

	sample, err := os.ReadFile(filepath.Join(dir, sampleConfigFileName))
	suite.Require().NoError(err)
	suite.True(strings.HasPrefix(string(sample), "# yaml-language-server: $schema="+schemaFileName))

	out, err = suite.run("schema", "--download")
	suite.Require().NoError(err)
	suite.Contains(out, "startDate")
}

func (suite *ForecastCLITestSuite) TestDownloadValidation() {
	_, err := suite.run("download", "--ticker", "SPY", "--start", "2024-01-01", "--provider", "yahoo")
	suite.Error(err)

	_, err = suite.run("download", "--ticker", "SPY", "--start", "01/01/2024", "--provider", "binance")
	suite.Error(err)
}
