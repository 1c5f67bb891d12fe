package middleware

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// RateLimit creates a per-user rate limiter middleware instance. The
// model-backed endpoints sit behind it so one user cannot burn the
// completion quota for everyone.
func RateLimit(identifier string, max int, window time.Duration) fiber.Handler {
	if max <= 0 {
		max = 10
	}
	if window <= 0 {
		window = time.Second
	}

	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			email := UserEmail(c)
			if email == "" {
				email = c.IP()
			}
			return fmt.Sprintf("%s:%s", identifier, email)
		},
	})
}
