package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/i474232898/traveller-conductor/internal/logging"
)

// DefaultPath is the preferences file read when no --config flag is given.
const DefaultPath = "preferences.yml"

var validate = validator.New()

type AppConfig struct {
	TelegramBotToken string `yaml:"telegram_bot_token" validate:"required"`
	TelegramProxy    string `yaml:"telegram_proxy" validate:"omitempty,url"`
	WeatherAPIKey    string `yaml:"weather_api_key" validate:"required"`

	CataloguePath  string `yaml:"catalogue_path" validate:"required"`
	ConditionsPath string `yaml:"conditions_path" validate:"required"`

	// RefreshDelay is the pause between two single-location refreshes.
	RefreshDelay time.Duration `yaml:"-" validate:"gt=0"`
	HTTPTimeout  time.Duration `yaml:"-" validate:"gt=0"`

	// Raw duration strings as they appear in YAML or the environment.
	RefreshDelayRaw string `yaml:"refresh_delay"`
	HTTPTimeoutRaw  string `yaml:"http_timeout"`

	// Port of the status API. Empty disables it.
	Port string `yaml:"port" validate:"omitempty,numeric"`

	LogLevel  string `yaml:"log_level" validate:"oneof=trace debug info warn error"`
	LogFormat string `yaml:"log_format" validate:"oneof=json console"`
}

func defaults() *AppConfig {
	return &AppConfig{
		CataloguePath:   "data/cities.json",
		ConditionsPath:  "data/conditions.json",
		RefreshDelayRaw: "10s",
		HTTPTimeoutRaw:  "30s",
		Port:            "8080",
		LogLevel:        "info",
		LogFormat:       "json",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path, a .env file and the environment, in that order of precedence.
func Load(path string) (*AppConfig, error) {
	log := logging.Component("config")
	cfg := defaults()

	if path != "" {
		if err := loadFile(path, cfg); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, err
			}
			log.Debug().Str("path", path).Msg("no preferences file")
		}
	}

	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file found or error loading it")
	}

	cfg.TelegramBotToken = getenvDefault("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	cfg.TelegramProxy = getenvDefault("TELEGRAM_PROXY", cfg.TelegramProxy)
	cfg.WeatherAPIKey = getenvDefault("WEATHERAPI_API_KEY", cfg.WeatherAPIKey)
	cfg.CataloguePath = getenvDefault("CATALOGUE_PATH", cfg.CataloguePath)
	cfg.ConditionsPath = getenvDefault("CONDITIONS_PATH", cfg.ConditionsPath)
	cfg.RefreshDelayRaw = getenvDefault("REFRESH_DELAY", cfg.RefreshDelayRaw)
	cfg.HTTPTimeoutRaw = getenvDefault("HTTP_TIMEOUT", cfg.HTTPTimeoutRaw)
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", cfg.LogLevel))
	cfg.LogFormat = strings.ToLower(getenvDefault("LOG_FORMAT", cfg.LogFormat))

	// An explicitly empty PORT disables the status API.
	if v, ok := os.LookupEnv("PORT"); ok {
		cfg.Port = v
	}

	var err error
	if cfg.RefreshDelay, err = time.ParseDuration(cfg.RefreshDelayRaw); err != nil {
		return nil, fmt.Errorf("invalid REFRESH_DELAY: %w", err)
	}
	if cfg.HTTPTimeout, err = time.ParseDuration(cfg.HTTPTimeoutRaw); err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
