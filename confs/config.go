package confs

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting. It is built once at startup and passed
// by reference to the components that need it.
type Config struct {
	AppHost string
	AppPort int
	HostURL string

	DBURL      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	SecretKey          string
	GoogleClientID     string
	GoogleClientSecret string

	SMTPHost    string
	SMTPPort    int
	SMTPUser    string
	SMTPPass    string
	EmailSender string

	HotkeysAPIURL string
	HotkeysAPIKey string
	SyncInterval  time.Duration
}

// Load reads .env if present, binds environment variables and returns the
// populated Config. SECRET_KEY is the only hard requirement.
func Load() (*Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_HOST", "0.0.0.0")
	v.SetDefault("APP_PORT", 8000)
	v.SetDefault("HOST_URL", "http://localhost:8000")
	v.SetDefault("SMTP_PORT", 587)
	// The reference loop slept 60 seconds between iterations even though its
	// log line claimed 10 minutes; keep 60s as the default and let
	// deployments override it.
	v.SetDefault("SYNC_INTERVAL", "60s")

	cfg := &Config{
		AppHost:            v.GetString("APP_HOST"),
		AppPort:            v.GetInt("APP_PORT"),
		HostURL:            v.GetString("HOST_URL"),
		DBURL:              v.GetString("DB_URL"),
		DBHost:             v.GetString("POSTGRES_HOST"),
		DBPort:             v.GetString("POSTGRES_PORT"),
		DBUser:             v.GetString("POSTGRES_USER"),
		DBPassword:         v.GetString("POSTGRES_PASSWORD"),
		DBName:             v.GetString("POSTGRES_DB"),
		SecretKey:          v.GetString("SECRET_KEY"),
		GoogleClientID:     v.GetString("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: v.GetString("GOOGLE_CLIENT_SECRET"),
		SMTPHost:           v.GetString("SMTP_HOST"),
		SMTPPort:           v.GetInt("SMTP_PORT"),
		SMTPUser:           v.GetString("SMTP_USER"),
		SMTPPass:           v.GetString("SMTP_PASSWORD"),
		EmailSender:        v.GetString("EMAIL_SENDER"),
		HotkeysAPIURL:      v.GetString("HOTKEYS_API_URL"),
		HotkeysAPIKey:      v.GetString("HOTKEYS_API_KEY"),
		SyncInterval:       v.GetDuration("SYNC_INTERVAL"),
	}

	if cfg.SecretKey == "" {
		return nil, fmt.Errorf("missing required configuration: SECRET_KEY")
	}
	if cfg.SyncInterval <= 0 {
		cfg.SyncInterval = 60 * time.Second
	}
	return cfg, nil
}
