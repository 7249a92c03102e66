package memox

import "github.com/Abraxas-365/asynckit/pkg/errx"

var memoxErrors = errx.NewRegistry("MEMOX")

var (
	ErrKeyFailed = memoxErrors.Register("KEY_FAILED", errx.TypeValidation, "Could not derive a cache key from the argument")
)
