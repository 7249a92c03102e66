package asyncx

import "github.com/Abraxas-365/asynckit/pkg/errx"

var asyncxErrors = errx.NewRegistry("ASYNCX")

var (
	ErrTimeout        = asyncxErrors.Register("TIMEOUT", errx.TypeTimeout, "Operation did not settle before the deadline")
	ErrRetryExhausted = asyncxErrors.Register("RETRY_EXHAUSTED", errx.TypeExhausted, "Retry attempts exhausted")
	ErrTaskPanicked   = asyncxErrors.Register("TASK_PANICKED", errx.TypeInternal, "Task panicked")
	ErrInvalidTask    = asyncxErrors.Register("INVALID_TASK", errx.TypeValidation, "Task is nil")
)

// IsTimeout reports whether err was produced by WithTimeout's deadline.
func IsTimeout(err error) bool {
	return errx.IsCode(err, ErrTimeout)
}

// IsRetryExhausted reports whether err is the final failure of Retry after
// every attempt failed.
func IsRetryExhausted(err error) bool {
	return errx.IsCode(err, ErrRetryExhausted)
}

// IsPanic reports whether err comes from a recovered task panic.
func IsPanic(err error) bool {
	return errx.IsCode(err, ErrTaskPanicked)
}
