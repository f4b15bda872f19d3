// Package async runs a function in its own goroutine and exposes its eventual
// result as a generic Future.
//
// It is used to dispatch best-effort background work, such as a garbage
// collection sweep triggered by a request, without holding up the caller:
//
//	future := async.Async(ctx, collector, func(ctx context.Context, c *Collector) (SweepResult, error) {
//	    return c.Sweep(ctx)
//	})
//	// fire and forget, or:
//	res, err := future.AwaitWithTimeout(time.Second)
//
// Panics inside the function are recovered and surface as ErrPanic from Await.
package async
