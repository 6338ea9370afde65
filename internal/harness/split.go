package harness

import (
	"math"

	"github.com/rxtech-lab/argo-forecast/internal/feature"
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

// ChronologicalSplit keeps the first rows for training and the last
// ceil(n*fraction) rows for testing. Row order is never shuffled.
func ChronologicalSplit(dataset *feature.Dataset, fraction float64) (*feature.Dataset, *feature.Dataset, error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, errors.Newf(errors.ErrCodeInvalidParameter, "holdout fraction must be in (0, 1), got %v", fraction)
	}

	n := dataset.Len()
	nTest := int(math.Ceil(float64(n) * fraction))
	nTrain := n - nTest

	if nTrain <= 0 || nTest <= 0 {
		return nil, nil, errors.NewInsufficientSamplesError(2, n, dataset.Symbol)
	}

	return dataset.Slice(0, nTrain), dataset.Slice(nTrain, n), nil
}
