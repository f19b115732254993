package records

import (
	"context"
	"time"
)

// Observer recibe una observación por cada operación del store
// (metrics en internal/platform/metrics).
type Observer interface {
	Observe(ctx context.Context, op string, success bool, duration time.Duration)
}

type noopObserver struct{}

func (noopObserver) Observe(context.Context, string, bool, time.Duration) {}
