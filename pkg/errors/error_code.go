package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeInsufficientData     ErrorCode = 106
	ErrCodeInvalidType          ErrorCode = 107
	ErrCodeInvalidPeriod        ErrorCode = 108
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110
	ErrCodeInvalidSeries        ErrorCode = 120

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201
	ErrCodeQueryFailed           ErrorCode = 202
	ErrCodeMissingData           ErrorCode = 206

	// Indicator and feature errors (300-399)
	ErrCodeIndicatorNotFound      ErrorCode = 300
	ErrCodeIndicatorAlreadyExists ErrorCode = 301
	ErrCodeIndicatorCalculation   ErrorCode = 302
	ErrCodeAlignment              ErrorCode = 310
	ErrCodeNumericDegeneracy      ErrorCode = 311
	ErrCodeFeatureSchemaMismatch  ErrorCode = 312

	// Training errors (400-499)
	ErrCodeInsufficientSamples ErrorCode = 400
	ErrCodeTrainingFailed      ErrorCode = 401
	ErrCodeModelFormat         ErrorCode = 402
	ErrCodeModelNotFitted      ErrorCode = 403

	// Persistence and reporting errors (600-699)
	ErrCodePersistenceFailed ErrorCode = 600
	ErrCodeReportFailed      ErrorCode = 601

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidProvider       ErrorCode = 704
)
