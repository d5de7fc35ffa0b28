package app

import (
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"

	"github.com/yungbote/force-backend/internal/data/db"
)

//go:embed defaults.yaml
var defaultConfig []byte

const maxConfigFileSize = 1 << 20

type Config struct {
	HTTP       HTTPConfig       `koanf:"http"`
	DB         DBConfig         `koanf:"db"`
	OpenAI     OpenAIConfig     `koanf:"openai"`
	Auth       AuthConfig       `koanf:"auth"`
	Google     GoogleConfig     `koanf:"google"`
	Redis      RedisConfig      `koanf:"redis"`
	Log        LogConfig        `koanf:"log"`
	Otel       OtelConfig       `koanf:"otel"`
	Generation GenerationConfig `koanf:"generation"`
}

type HTTPConfig struct {
	Port                   int      `koanf:"port"`
	CORSOrigins            []string `koanf:"cors_origins"`
	RateLimitRPS           float64  `koanf:"rate_limit_rps"`
	RateLimitBurst         int      `koanf:"rate_limit_burst"`
	ShutdownTimeoutSeconds int      `koanf:"shutdown_timeout_seconds"`
}

type DBConfig struct {
	Driver     string `koanf:"driver"`
	Host       string `koanf:"host"`
	Port       string `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	Name       string `koanf:"name"`
	SSLMode    string `koanf:"sslmode"`
	SQLitePath string `koanf:"sqlite_path"`
}

type OpenAIConfig struct {
	APIKey         string  `koanf:"api_key"`
	BaseURL        string  `koanf:"base_url"`
	Model          string  `koanf:"model"`
	TimeoutSeconds int     `koanf:"timeout_seconds"`
	MaxRetries     int     `koanf:"max_retries"`
	RPS            float64 `koanf:"rps"`
}

type AuthConfig struct {
	JWTSecret       string `koanf:"jwt_secret"`
	SessionTTLHours int    `koanf:"session_ttl_hours"`
	CookieSecure    bool   `koanf:"cookie_secure"`
}

type GoogleConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
}

type RedisConfig struct {
	Addr string `koanf:"addr"`
}

type LogConfig struct {
	Mode string `koanf:"mode"`
}

type OtelConfig struct {
	Enabled     bool    `koanf:"enabled"`
	Endpoint    string  `koanf:"endpoint"`
	ServiceName string  `koanf:"service_name"`
	Environment string  `koanf:"environment"`
	Insecure    bool    `koanf:"insecure"`
	SampleRatio float64 `koanf:"sample_ratio"`
	Headers     string  `koanf:"headers"`
}

type GenerationConfig struct {
	LanguageCacheSize int `koanf:"language_cache_size"`
}

// envKeys maps the deployment's environment variable names onto config keys.
var envKeys = map[string]string{
	"PORT":                        "http.port",
	"CORS_ORIGINS":                "http.cors_origins",
	"RATE_LIMIT_RPS":              "http.rate_limit_rps",
	"RATE_LIMIT_BURST":            "http.rate_limit_burst",
	"DB_DRIVER":                   "db.driver",
	"POSTGRES_HOST":               "db.host",
	"POSTGRES_PORT":               "db.port",
	"POSTGRES_USER":               "db.user",
	"POSTGRES_PASSWORD":           "db.password",
	"POSTGRES_NAME":               "db.name",
	"POSTGRES_SSLMODE":            "db.sslmode",
	"SQLITE_PATH":                 "db.sqlite_path",
	"OPENAI_API_KEY":              "openai.api_key",
	"OPENAI_BASE_URL":             "openai.base_url",
	"OPENAI_MODEL":                "openai.model",
	"OPENAI_TIMEOUT_SECONDS":      "openai.timeout_seconds",
	"OPENAI_MAX_RETRIES":          "openai.max_retries",
	"OPENAI_RPS":                  "openai.rps",
	"JWT_SECRET_KEY":              "auth.jwt_secret",
	"SESSION_TTL_HOURS":           "auth.session_ttl_hours",
	"SESSION_COOKIE_SECURE":       "auth.cookie_secure",
	"GOOGLE_CLIENT_ID":            "google.client_id",
	"GOOGLE_CLIENT_SECRET":        "google.client_secret",
	"REDIS_ADDR":                  "redis.addr",
	"LOG_MODE":                    "log.mode",
	"OTEL_ENABLED":                "otel.enabled",
	"OTEL_EXPORTER_OTLP_ENDPOINT": "otel.endpoint",
	"OTEL_EXPORTER_OTLP_HEADERS":  "otel.headers",
	"OTEL_EXPORTER_OTLP_INSECURE": "otel.insecure",
	"OTEL_SERVICE_NAME":           "otel.service_name",
	"OTEL_SAMPLE_RATIO":           "otel.sample_ratio",
	"APP_ENV":                     "otel.environment",
}

// LoadConfig layers built-in defaults, then the YAML file at path (or
// $FORCE_CONFIG), then environment variables.
func LoadConfig(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(defaultConfig), yaml.Parser()); err != nil {
		return Config{}, fmt.Errorf("load default config: %w", err)
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("FORCE_CONFIG"))
	}
	if path != "" {
		content, err := readConfigFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.ProviderWithValue("", ".", func(name, value string) (string, interface{}) {
		key, ok := envKeys[name]
		if !ok || strings.TrimSpace(value) == "" {
			return "", nil
		}
		if key == "http.cors_origins" {
			return key, splitList(value)
		}
		return key, value
	}), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config file: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file %s is larger than %d bytes", path, maxConfigFileSize)
	}
	content, err := io.ReadAll(io.LimitReader(f, maxConfigFileSize))
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	return content, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		errs = append(errs, errors.New("auth.jwt_secret (JWT_SECRET_KEY) is required"))
	}
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("db.driver %q is not supported", c.DB.Driver))
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		errs = append(errs, fmt.Errorf("http.port %d is out of range", c.HTTP.Port))
	}
	if c.Auth.SessionTTLHours <= 0 {
		errs = append(errs, errors.New("auth.session_ttl_hours must be positive"))
	}
	return errors.Join(errs...)
}

func (c Config) SessionTTL() time.Duration {
	return time.Duration(c.Auth.SessionTTLHours) * time.Hour
}

func (c Config) ShutdownTimeout() time.Duration {
	if c.HTTP.ShutdownTimeoutSeconds <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.HTTP.ShutdownTimeoutSeconds) * time.Second
}

func (c Config) DBConfig() db.Config {
	return db.Config{
		Driver:     c.DB.Driver,
		Host:       c.DB.Host,
		Port:       c.DB.Port,
		User:       c.DB.User,
		Password:   c.DB.Password,
		Name:       c.DB.Name,
		SSLMode:    c.DB.SSLMode,
		SQLitePath: c.DB.SQLitePath,
	}
}
