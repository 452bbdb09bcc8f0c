package config

import (
	"os"
	"path/filepath"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/joho/godotenv"
)

// Access-control modes.
const (
	AuthModeToken    = "token"
	AuthModeDisabled = "disabled"
)

// Config carries everything the process reads from the environment. A .env
// file in the working directory is honored when present.
type Config struct {
	Port          string
	DBPath        string
	SecretKey     string
	AuthMode      string
	DefaultUserID string
	Timezone      string
}

func Load() (Config, error) {
	// Missing .env is fine; real env vars win either way.
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("PORT", "8080"),
		DBPath:        getEnv("DB_PATH", filepath.Join("data", "mindfultrack.db")),
		SecretKey:     os.Getenv("SECRET_KEY"),
		AuthMode:      getEnv("AUTH_MODE", AuthModeToken),
		DefaultUserID: getEnv("DEFAULT_USER_ID", "1"),
		Timezone:      getEnv("TZ", "UTC"),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (cfg Config) Validate() error {
	return validation.ValidateStruct(&cfg,
		validation.Field(&cfg.Port, validation.Required),
		validation.Field(&cfg.DBPath, validation.Required),
		validation.Field(&cfg.AuthMode, validation.Required, validation.In(AuthModeToken, AuthModeDisabled)),
		validation.Field(&cfg.DefaultUserID, validation.Required.When(cfg.AuthMode == AuthModeDisabled)),
	)
}

func (cfg Config) AccessControlDisabled() bool {
	return cfg.AuthMode == AuthModeDisabled
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
