package ratelimit

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Gate is the admission-control middleware consulted before every notes API
// call. Below the threshold it increments the shared counter and lets the
// request through; at or above it the request is rejected with 429 and the
// handler is never invoked.
type Gate struct {
	counter  Counter
	keyFn    KeyFunc
	max      int64
	window   time.Duration
	logger   *zap.Logger
	rejected prometheus.Counter
}

// NewGate creates an admission gate. reg may be nil to skip metric
// registration (tests).
func NewGate(counter Counter, keyFn KeyFunc, max int, window time.Duration, logger *zap.Logger, reg prometheus.Registerer) (*Gate, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "rate_limited_total",
		Help: "Total number of requests rejected by the admission gate.",
	})
	if reg != nil {
		if err := reg.Register(rejected); err != nil {
			return nil, err
		}
	}
	return &Gate{
		counter:  counter,
		keyFn:    keyFn,
		max:      int64(max),
		window:   window,
		logger:   logger,
		rejected: rejected,
	}, nil
}

// Handler returns the fiber middleware handler. A counter store failure is a
// store fault: logged and surfaced as a server error, never silently allowed
// through.
func (g *Gate) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		count, err := g.counter.Incr(c.UserContext(), g.keyFn(c), g.window)
		if err != nil {
			g.logger.Error("rate limit counter failure", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError)
		}
		if count > g.max {
			g.rejected.Inc()
			return fiber.NewError(fiber.StatusTooManyRequests)
		}
		return c.Next()
	}
}
