package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/mmondo-adventures/tours_be/internal/utils"
)

func JWTFromCookie(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenStr := c.Cookies("ma_token")
		if tokenStr == "" {
			return fiber.ErrUnauthorized
		}

		token, err := utils.ParseJWT(secret, tokenStr)
		if err != nil || !token.Valid {
			return fiber.ErrUnauthorized
		}

		c.Locals("user", token)
		return c.Next()
	}
}
