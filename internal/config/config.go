package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	DBDriver    string `yaml:"db_driver"`
	DBPath      string `yaml:"db_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`

	CatalogPath string `yaml:"catalog_path"`
	OutputDir   string `yaml:"output_dir"`

	OpenAIAPIKey        string  `yaml:"-"`
	OpenAIBaseURL       string  `yaml:"openai_base_url"`
	MatcherModel        string  `yaml:"matcher_model"`
	MatcherRateLimitRPS float64 `yaml:"matcher_rate_limit_rps"`
	MatcherMaxRetries   int     `yaml:"matcher_max_retries"`
	MatcherTimeoutMs    int     `yaml:"matcher_timeout_ms"`

	HTTPAddr     string `yaml:"http_addr"`
	WatchCatalog bool   `yaml:"watch_catalog"`
	LogLevel     string `yaml:"log_level"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DBDriver:    "sqlite",
		DBPath:      filepath.Join(cwd, "data", "orcafacil.db"),
		RedisAddr:   "localhost:6379",
		RedisPrefix: "orcafacil:",
		OutputDir:   filepath.Join(cwd, "out"),

		MatcherModel:        "gpt-4o-mini",
		MatcherRateLimitRPS: 1,
		MatcherMaxRetries:   2,
		MatcherTimeoutMs:    120000,

		HTTPAddr:     ":8080",
		WatchCatalog: true,
		LogLevel:     "info",
	}

	if path := getEnv("CONFIG_FILE", ""); path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg.DBDriver = strings.ToLower(getEnv("DB_DRIVER", cfg.DBDriver))
	cfg.DBPath = getEnv("DB_PATH", cfg.DBPath)
	cfg.PostgresDSN = getEnv("POSTGRES_DSN", cfg.PostgresDSN)
	cfg.RedisAddr = getEnv("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisPrefix = getEnv("REDIS_PREFIX", cfg.RedisPrefix)
	cfg.CatalogPath = getEnv("CATALOG_PATH", cfg.CatalogPath)
	cfg.OutputDir = getEnv("OUTPUT_DIR", cfg.OutputDir)

	cfg.OpenAIAPIKey = getEnv("OPENAI_API_KEY", "")
	cfg.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", cfg.OpenAIBaseURL)
	cfg.MatcherModel = getEnv("MATCHER_MODEL", cfg.MatcherModel)
	cfg.MatcherRateLimitRPS = getEnvFloat("MATCHER_RATE_LIMIT_RPS", cfg.MatcherRateLimitRPS)
	cfg.MatcherMaxRetries = getEnvInt("MATCHER_MAX_RETRIES", cfg.MatcherMaxRetries)
	cfg.MatcherTimeoutMs = getEnvInt("MATCHER_TIMEOUT_MS", cfg.MatcherTimeoutMs)

	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.WatchCatalog = getEnvBool("WATCH_CATALOG", cfg.WatchCatalog)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(blob, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case "sqlite", "postgres", "redis", "memory":
	default:
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}
	if c.DBDriver == "postgres" && strings.TrimSpace(c.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required when DB_DRIVER=postgres")
	}
	if c.MatcherRateLimitRPS <= 0 {
		return fmt.Errorf("MATCHER_RATE_LIMIT_RPS must be positive, got %v", c.MatcherRateLimitRPS)
	}
	return nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required env var: %s", name)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
