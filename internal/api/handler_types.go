package api

import (
	"time"

	"github.com/quietpath/mindfultrack/internal/services"
)

type Handler struct {
	auth     AuthContext
	exports  *services.ExportService
	imports  *services.ImportService
	location *time.Location
}

func NewHandler(auth AuthContext, exports *services.ExportService, imports *services.ImportService, location *time.Location) *Handler {
	return &Handler{
		auth:     auth,
		exports:  exports,
		imports:  imports,
		location: location,
	}
}
