package indicator

import (
	"github.com/rxtech-lab/argo-forecast/pkg/errors"
)

func errInvalidParam(i int, p any) error {
	return errors.Newf(errors.ErrCodeInvalidType, "invalid type for parameter %d, expected int, got %T", i, p)
}

func errNonPositive(i int, v int) error {
	return errors.Newf(errors.ErrCodeInvalidPeriod, "parameter %d must be a positive integer, got %d", i, v)
}

func errParamCount(name string, want string, got int) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "%s Config expects %s, got %d parameters", name, want, got)
}

func errNotInteger(i int, v float64) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "parameter %d must be a whole number, got %v", i, v)
}

func errNonPositiveFloat(i int, v float64) error {
	return errors.Newf(errors.ErrCodeInvalidParameter, "parameter %d must be positive, got %v", i, v)
}
