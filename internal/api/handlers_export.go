package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/quietpath/mindfultrack/internal/services"
)

func (handler *Handler) Export(c *fiber.Ctx) error {
	userID, ok := currentUserID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	start, end, rangeError := parseExportRange(c.Query("start"), c.Query("end"))
	if rangeError != "" {
		return apiError(c, fiber.StatusBadRequest, rangeError)
	}

	format := c.Query("format", services.FormatJSON)
	now := time.Now().In(handler.location)

	document, err := handler.exports.BuildDocument(userID, format, start, end, now)
	if err != nil {
		if errors.Is(err, services.ErrUnsupportedFormat) {
			return apiError(c, fiber.StatusBadRequest, fmt.Sprintf("unsupported format: %s", format))
		}
		return apiError(c, fiber.StatusInternalServerError, "export failed")
	}

	setExportAttachmentHeaders(c, document.ContentType, document.Filename)
	return c.SendString(document.Body)
}

// parseExportRange reads the optional epoch-millisecond bounds. Each bound
// applies independently; with both absent every record is exported.
func parseExportRange(rawStart string, rawEnd string) (*int64, *int64, string) {
	start, errorMessage := parseExportBound(rawStart, "start")
	if errorMessage != "" {
		return nil, nil, errorMessage
	}
	end, errorMessage := parseExportBound(rawEnd, "end")
	if errorMessage != "" {
		return nil, nil, errorMessage
	}
	if start != nil && end != nil && *end < *start {
		return nil, nil, "invalid range"
	}
	return start, end, ""
}

func parseExportBound(raw string, name string) (*int64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ""
	}
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return nil, fmt.Sprintf("invalid %s timestamp", name)
	}
	return &parsed, ""
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
}
