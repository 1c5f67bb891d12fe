package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/noah-isme/mentor-go-api/internal/utils"
)

// UserEmailKey is the fiber locals key holding the authenticated user's email.
const UserEmailKey = "user_email"

// JWTProtected returns a middleware that validates JWT bearer tokens and
// extracts the owner email claim.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		if email := extractEmailFromClaims(claims); email != "" {
			c.Locals(UserEmailKey, email)
		}

		return c.Next()
	}
}

// UserEmail returns the authenticated email bound to the request, if any.
func UserEmail(c *fiber.Ctx) string {
	if value := c.Locals(UserEmailKey); value != nil {
		if email, ok := value.(string); ok {
			return email
		}
	}
	return ""
}

func extractEmailFromClaims(claims jwt.MapClaims) string {
	keys := []string{"email", "sub"}
	for _, key := range keys {
		if value, ok := claims[key].(string); ok {
			trimmed := strings.TrimSpace(value)
			if strings.Contains(trimmed, "@") {
				return trimmed
			}
		}
	}
	return ""
}
