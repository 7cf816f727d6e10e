package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/batchreactor-go/internal/application/common"
)

// PrometheusMiddleware creates a middleware that records command execution metrics:
// execution duration (histogram) and success/failure counts (counter), labelled
// by the request's type name, e.g. "RunSimulationCommand".
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)

		collector.RecordCommandExecution(common.RequestName(request), time.Since(start).Seconds(), err == nil)
		return response, err
	}
}
