package asyncx

import (
	"context"
	"time"
)

// Delay blocks for d or until ctx is done, whichever comes first.
// It returns ctx.Err() only when the context ended the wait.
func Delay(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
