package ratelimit

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Counter is the shared counter store behind the admission gate. The count is
// kept per key over a window; state expiry is the store's responsibility (the
// gate never runs cleanup).
type Counter interface {
	// Incr atomically increments the counter for key, starting the window's
	// expiry on the first hit, and returns the new count.
	Incr(ctx context.Context, key string, window time.Duration) (int64, error)
}

// KeyFunc derives the counter key for a request. Key derivation is the only
// part of the gate that decides whose budget a request consumes.
type KeyFunc func(c *fiber.Ctx) string

// GlobalKey shares one counter across all callers. This is the historical
// behavior of the API: a single noisy client can exhaust the budget for
// everyone.
func GlobalKey() KeyFunc {
	return func(*fiber.Ctx) string { return "ratelimit:global" }
}

// ClientKey keys the counter by caller IP.
func ClientKey() KeyFunc {
	return func(c *fiber.Ctx) string { return "ratelimit:ip:" + c.IP() }
}

// KeyFuncForScope maps the configured scope name to a key strategy.
// Unknown scopes fall back to global, matching the historical default.
func KeyFuncForScope(scope string) KeyFunc {
	if scope == "client" {
		return ClientKey()
	}
	return GlobalKey()
}
