package collect

import (
	"context"
	"time"
)

// Pacer is called between events to keep the provider request rate down.
type Pacer interface {
	Pace(ctx context.Context) error
}

// FixedDelay waits a fixed duration, returning early with the context error
// when ctx is cancelled.
type FixedDelay time.Duration

func (d FixedDelay) Pace(ctx context.Context) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(time.Duration(d))
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// NoDelay never waits.
type NoDelay struct{}

func (NoDelay) Pace(ctx context.Context) error {
	return ctx.Err()
}

// PacerFunc adapts a function to Pacer.
type PacerFunc func(ctx context.Context) error

func (f PacerFunc) Pace(ctx context.Context) error {
	return f(ctx)
}
