package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	decision := handler.auth.Resolve(c)
	if !decision.Authorized {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserIDKey, decision.UserID)
	return c.Next()
}
