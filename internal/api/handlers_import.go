package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/quietpath/mindfultrack/internal/services"
)

type importRequest struct {
	Format  string `json:"format"`
	Content string `json:"content"`
}

func (handler *Handler) Import(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	request := importRequest{}
	if err := c.BodyParser(&request); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid request body")
	}

	summary, err := handler.imports.Run(userID, request.Format, request.Content)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrUnsupportedFormat):
			return apiError(c, fiber.StatusBadRequest, "unsupported format: "+request.Format)
		case errors.Is(err, services.ErrInvalidJSONContent):
			return apiErrorWithDetails(c, fiber.StatusBadRequest, "invalid JSON format", err.Error())
		case errors.Is(err, services.ErrEmptyImportBatch):
			return apiError(c, fiber.StatusBadRequest, "no valid data found to import")
		default:
			return apiError(c, fiber.StatusInternalServerError, "import failed")
		}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": summary.Message(),
	})
}
