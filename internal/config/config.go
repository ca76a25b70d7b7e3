package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// MissingKeyMarker is what an unset build-time variable renders as.
const MissingKeyMarker = "undefined"

type Config struct {
	Server    ServerConfig
	Redis     RedisConfig
	API       APIConfig
	RateLimit RateLimitConfig
	Logging   LoggingConfig
	Widget    WidgetConfig
}
type ServerConfig struct {
	Port         string
	Host         string
	Mode         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	StaticDir    string
}
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}
type APIConfig struct {
	AccessKey string
	BaseURL   string
	Timeout   time.Duration
}
type RateLimitConfig struct {
	Requests int
	Period   time.Duration
}
type LoggingConfig struct {
	Level  string // "debug", "info", "warn", "error"
	Format string // "json" или "text"
}
type WidgetConfig struct {
	DefaultFrom string
	DefaultTo   string
}

// Addr returns host:port for the HTTP listener.
func (s *ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// HasCredential reports whether an access key is configured.
func (a APIConfig) HasCredential() bool {
	return a.AccessKey != "" && a.AccessKey != MissingKeyMarker
}

// MaskedKey returns the access key safe for logs.
func (a APIConfig) MaskedKey() string {
	if !a.HasCredential() {
		return ""
	}
	if len(a.AccessKey) <= 8 {
		return "***"
	}
	return a.AccessKey[:3] + "..." + a.AccessKey[len(a.AccessKey)-3:]
}

// Enabled reports whether requests should be limited at all.
func (r RateLimitConfig) Enabled() bool {
	return r.Requests > 0 && r.Period > 0
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// accessKey prefers FX_API_KEY and falls back to the front-end variable name.
func accessKey() string {
	if key := os.Getenv("FX_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("VITE_FX_API_KEY")
}

// LoadDotEnv loads .env from the working directory if present.
// A missing file is not an error.
func LoadDotEnv() error {
	if err := godotenv.Load(); err == nil {
		return nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}
	envPath := filepath.Join(cwd, ".env")
	if _, err := os.Stat(envPath); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(envPath); err != nil {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	return nil
}

// Load reads .env (if any) and the environment.
func Load() (*Config, error) {
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	return FromEnv(), nil
}

// FromEnv builds the config from process environment only.
func FromEnv() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			Mode:         getEnv("GIN_MODE", "debug"),
			ReadTimeout:  getEnvAsDuration("READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getEnvAsDuration("WRITE_TIMEOUT", 10*time.Second),
			StaticDir:    getEnv("STATIC_DIR", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		API: APIConfig{
			AccessKey: accessKey(),
			BaseURL:   getEnv("FX_API_URL", "https://api.fxratesapi.com"),
			Timeout:   getEnvAsDuration("API_TIMEOUT", 10*time.Second),
		},
		RateLimit: RateLimitConfig{
			Requests: getEnvAsInt("RATE_LIMIT_REQUESTS", 60),
			Period:   getEnvAsDuration("RATE_LIMIT_PERIOD", time.Minute),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Widget: WidgetConfig{
			DefaultFrom: getEnv("DEFAULT_FROM", "USD"),
			DefaultTo:   getEnv("DEFAULT_TO", "INR"),
		},
	}
}
