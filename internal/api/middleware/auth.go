package middleware

import (
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"rentacar.com/internal/constants"
	"rentacar.com/internal/identity"
)

// CasbinMiddleware checks permissions for the request using JWT claims.
// Revoked tokens (signed-out sessions) are rejected before the policy check.
func CasbinMiddleware(enforcer *casbin.Enforcer, jwtSecret string, rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Extract Token
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing Authorization header"})
		}

		tokenString := strings.Replace(authHeader, "Bearer ", "", 1)

		// 2. Parse Token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !token.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
		}

		// 3. Revocation check against the sign-out list
		if rdb != nil {
			key := constants.RevokedTokenKeyPrefix + identity.TokenDigest(tokenString)
			if n, err := rdb.Exists(c.Context(), key).Result(); err == nil && n > 0 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token has been revoked"})
			}
		}

		// 4. User identity for Casbin
		// The role claim is the Casbin subject: policies are defined per role
		// (e.g. p, Admin, ...), not per user.
		role, _ := claims["role"].(string)
		sub := role

		username, _ := claims["username"].(string)
		email, _ := claims["email"].(string)

		c.Locals("id", claims["id"])
		c.Locals("email", email)
		c.Locals("username", username)
		c.Locals("role", role)

		// 5. Check Permission
		obj := c.Path()
		act := c.Method()

		permit, err := enforcer.Enforce(sub, obj, act)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Permission check failed"})
		}

		if permit {
			return c.Next()
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":  "Permission denied",
			"detail": fmt.Sprintf("Role %s is not allowed to %s %s", sub, act, obj),
		})
	}
}
