package serverutils

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// JwtMiddleware accepts HS256 bearer tokens signed with secret and exposes
// the subject and role claims as locals.
func JwtMiddleware(secret string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}
		if secret == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "token authentication is not configured")
		}

		token, err := jwt.Parse(strings.TrimPrefix(authHeader, "Bearer "), func(t *jwt.Token) (interface{}, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid claims")
		}

		sub, _ := claims.GetSubject()
		role, _ := claims["role"].(string)
		ctx.Locals("subject", sub)
		ctx.Locals("role", role)
		return ctx.Next()
	}
}

// RequireRole must run after JwtMiddleware
func RequireRole(role string) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		if got, _ := ctx.Locals("role").(string); got != role {
			return fiber.NewError(fiber.StatusForbidden, "access denied")
		}
		return ctx.Next()
	}
}
