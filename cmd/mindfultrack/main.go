package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/quietpath/mindfultrack/internal/api"
	"github.com/quietpath/mindfultrack/internal/config"
	"github.com/quietpath/mindfultrack/internal/db"
	"github.com/quietpath/mindfultrack/internal/security"
	"github.com/quietpath/mindfultrack/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}

	location := mustLoadLocation(cfg.Timezone)
	time.Local = location

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	store := db.NewRecordStore(database)
	codecs := services.NewCodecSet(location)
	exports := services.NewExportService(store, codecs)
	imports := services.NewImportService(store, codecs)

	handler := api.NewHandler(buildAuthContext(cfg), exports, imports, location)

	app := fiber.New(fiber.Config{
		AppName:               "MindfulTrack",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("MindfulTrack listening on http://0.0.0.0:%s (db: %s, auth: %s, tz: %s)", cfg.Port, cfg.DBPath, cfg.AuthMode, location.String())
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func buildAuthContext(cfg config.Config) api.AuthContext {
	if cfg.AccessControlDisabled() {
		log.Printf("access control disabled, acting as user %s", cfg.DefaultUserID)
		return api.NewStaticAuthContext(cfg.DefaultUserID)
	}

	secretKey := cfg.SecretKey
	if secretKey == "" {
		generated, err := security.GenerateSecretKey()
		if err != nil {
			log.Fatalf("generate secret key: %v", err)
		}
		secretKey = generated
		log.Printf("SECRET_KEY is not set, using an ephemeral key; sessions will not survive restarts")
	}
	return api.NewTokenAuthContext([]byte(secretKey))
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("invalid TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return location
}
