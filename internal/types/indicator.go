package types

type IndicatorType string

const (
	IndicatorTypeMA             IndicatorType = "ma"
	IndicatorTypeEMA            IndicatorType = "ema"
	IndicatorTypeMACD           IndicatorType = "macd"
	IndicatorTypeRSI            IndicatorType = "rsi"
	IndicatorTypeBollingerBands IndicatorType = "bollinger_bands"
	IndicatorTypeMomentum       IndicatorType = "momentum"
)

// FeatureName is the column name of a feature in a FeatureTable.
type FeatureName string

const (
	FeatureMACD          FeatureName = "macd"
	FeatureMACDSignal    FeatureName = "macd_signal"
	FeatureMACDHistogram FeatureName = "macd_histogram"
	FeatureRSI           FeatureName = "rsi"
	FeatureBBUpper       FeatureName = "bb_upper"
	FeatureBBMiddle      FeatureName = "bb_middle"
	FeatureBBLower       FeatureName = "bb_lower"
	FeatureBBWidth       FeatureName = "bb_width"
	FeatureBBPosition    FeatureName = "bb_position"

	FeatureDayOfWeek FeatureName = "day_of_week"
	FeatureMonth     FeatureName = "month"
	FeatureQuarter   FeatureName = "quarter"
	FeatureYear      FeatureName = "year"
	FeatureDaySin    FeatureName = "day_sin"
	FeatureDayCos    FeatureName = "day_cos"
	FeatureMonthSin  FeatureName = "month_sin"
	FeatureMonthCos  FeatureName = "month_cos"

	FeatureHLVolatility FeatureName = "hl_volatility"
)
