package mocks

//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-forecast/internal/indicator Indicator
//go:generate mockgen -destination=./mock_pipeline.go -package=mocks github.com/rxtech-lab/argo-forecast/internal/pipeline Source,Store,Sink
