package api

import "github.com/gofiber/fiber/v2"

const (
	authCookieName   = "mindfultrack_auth"
	contextUserIDKey = "current_user_id"
)

func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals(contextUserIDKey).(string)
	return userID, ok && userID != ""
}
