package sessionstore

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/filesession/pkg/async"
	"github.com/dmitrymomot/filesession/pkg/logger"
)

// GarbageCollectorMiddleware runs the collector on requests that win the lottery.
// The sweep is dispatched after the wrapped handler returns and is never
// awaited, so it does not delay the response.
func GarbageCollectorMiddleware(c *Collector, l Lottery) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)

			if !l.Draw() {
				return
			}

			ctx := context.WithoutCancel(r.Context())
			c.logger.DebugContext(ctx, "request raffled to run the garbage collector")
			CollectAsync(ctx, c)
		})
	}
}

// CollectAsync starts a sweep in the background and returns its future.
// Errors are logged by the sweep goroutine.
func CollectAsync(ctx context.Context, c *Collector) *async.Future[SweepResult] {
	return async.Async(ctx, c, func(ctx context.Context, c *Collector) (SweepResult, error) {
		res, err := c.Sweep(ctx)
		if err != nil {
			c.logger.ErrorContext(ctx, "session cleanup failed", logger.Error(err))
		}
		return res, err
	})
}
