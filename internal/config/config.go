package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vladimiradmaev/diabetes-tracker/internal/insulin"
	"github.com/vladimiradmaev/diabetes-tracker/internal/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken string
	HTTP          HTTPConfig
	DB            DBConfig
	Redis         RedisConfig
	Logger        LoggerConfig
	Tracing       TracingConfig
	Calculator    insulin.Settings
}

type HTTPConfig struct {
	Addr           string
	RateLimitRPS   float64
	RateLimitBurst int
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// RedisConfig enables Redis backed bot state when Host is set
type RedisConfig struct {
	Host string
	Port string
}

type LoggerConfig struct {
	Level      logger.LogLevel
	OutputPath string
	Format     string
}

type TracingConfig struct {
	Endpoint string
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return n, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return logger.LevelDebug
	case "info":
		return logger.LevelInfo
	case "warn", "warning":
		return logger.LevelWarn
	case "error":
		return logger.LevelError
	default:
		return logger.LevelInfo
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		HTTP: HTTPConfig{
			Addr: getEnvOrDefault("HTTP_ADDR", ":8080"),
		},
		DB: DBConfig{
			Host:     getEnvOrDefault("DB_HOST", "localhost"),
			Port:     getEnvOrDefault("DB_PORT", "5432"),
			User:     getEnvOrDefault("DB_USER", "postgres"),
			Password: getEnvOrDefault("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrDefault("DB_NAME", "diabetes_tracker"),
		},
		Redis: RedisConfig{
			Host: os.Getenv("REDIS_HOST"),
			Port: getEnvOrDefault("REDIS_PORT", "6379"),
		},
		Logger: LoggerConfig{
			Level:      parseLogLevel(getEnvOrDefault("LOG_LEVEL", "info")),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "logs/app.log"),
			Format:     getEnvOrDefault("LOG_FORMAT", "json"),
		},
		Tracing: TracingConfig{
			Endpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		},
	}

	var err error
	if cfg.HTTP.RateLimitRPS, err = getFloatEnv("RATE_LIMIT_RPS", 10); err != nil {
		return nil, err
	}
	if cfg.HTTP.RateLimitBurst, err = getIntEnv("RATE_LIMIT_BURST", 20); err != nil {
		return nil, err
	}

	if cfg.Calculator, err = loadCalculatorSettings(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadCalculatorSettings starts from the built-in settings, applies the YAML
// file named by CALCULATOR_CONFIG and then the ratio environment variables.
func loadCalculatorSettings() (insulin.Settings, error) {
	settings := insulin.DefaultSettings()

	if path := os.Getenv("CALCULATOR_CONFIG"); path != "" {
		var err error
		settings, err = LoadCalculatorFile(path, settings)
		if err != nil {
			return insulin.Settings{}, err
		}
	}

	var err error
	if settings.FirstMealRatio, err = getFloatEnv("FIRST_MEAL_RATIO", settings.FirstMealRatio); err != nil {
		return insulin.Settings{}, err
	}
	if settings.OtherMealRatio, err = getFloatEnv("OTHER_MEAL_RATIO", settings.OtherMealRatio); err != nil {
		return insulin.Settings{}, err
	}

	if err := settings.Validate(); err != nil {
		return insulin.Settings{}, fmt.Errorf("invalid calculator settings: %w", err)
	}
	return settings, nil
}

// LoadCalculatorFile reads calculator settings from a YAML file. Keys missing
// from the file keep the values from base.
func LoadCalculatorFile(path string, base insulin.Settings) (insulin.Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return insulin.Settings{}, fmt.Errorf("failed to read calculator config: %w", err)
	}

	settings := base
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return insulin.Settings{}, fmt.Errorf("failed to parse calculator config %s: %w", path, err)
	}
	return settings, nil
}
