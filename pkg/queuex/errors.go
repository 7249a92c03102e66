package queuex

import "github.com/Abraxas-365/asynckit/pkg/errx"

var queuexErrors = errx.NewRegistry("QUEUEX")

var (
	ErrClosed       = queuexErrors.Register("CLOSED", errx.TypeConflict, "Queue is closed")
	ErrInvalidTask  = queuexErrors.Register("INVALID_TASK", errx.TypeValidation, "Task is nil")
	ErrCancelled    = queuexErrors.Register("CANCELLED", errx.TypeCancelled, "Task was cancelled before it started")
	ErrTaskPanicked = queuexErrors.Register("TASK_PANICKED", errx.TypeInternal, "Task panicked")
)

// IsCancelled reports whether err is the error of an entry that was
// cancelled or cleared while still queued.
func IsCancelled(err error) bool {
	return errx.IsCode(err, ErrCancelled)
}
