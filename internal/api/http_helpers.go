package api

import "github.com/gofiber/fiber/v2"

func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func apiErrorWithDetails(c *fiber.Ctx, status int, message string, details string) error {
	if details == "" {
		return apiError(c, status, message)
	}
	return c.Status(status).JSON(fiber.Map{"error": message, "details": details})
}
