package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"resq-relief/resq/internal/constants"
)

const devJWTSecret = "resq-development-secret-change-me"

// AidLimits holds the per-category ceiling on a requested aid amount.
// It is passed by value so a service keeps its own immutable copy.
type AidLimits struct {
	Food    int `yaml:"food" validate:"min=0"`
	Clothes int `yaml:"clothes" validate:"min=0"`
	Shelter int `yaml:"shelter" validate:"min=0"`
	Medical int `yaml:"medical" validate:"min=0"`
}

// DefaultAidLimits returns the stock 50/30/10/20 caps.
func DefaultAidLimits() AidLimits {
	return AidLimits{Food: 50, Clothes: 30, Shelter: 10, Medical: 20}
}

// For returns the cap configured for t.
func (l AidLimits) For(t constants.AidType) int {
	switch t {
	case constants.AidTypeFood:
		return l.Food
	case constants.AidTypeClothes:
		return l.Clothes
	case constants.AidTypeShelter:
		return l.Shelter
	case constants.AidTypeMedical:
		return l.Medical
	}
	return 0
}

type DatabaseConfig struct {
	Driver     string `yaml:"driver" validate:"oneof=postgres sqlite"`
	Host       string `yaml:"host" validate:"required_if=Driver postgres"`
	Port       string `yaml:"port" validate:"required_if=Driver postgres"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Name       string `yaml:"name" validate:"required_if=Driver postgres"`
	SSLMode    string `yaml:"sslMode"`
	SQLitePath string `yaml:"sqlitePath" validate:"required_if=Driver sqlite"`
}

// DSN builds the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	sslMode := d.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, sslMode)
}

type JWTConfig struct {
	Secret string        `yaml:"secret" validate:"required,min=16"`
	Expiry time.Duration `yaml:"expiry" validate:"min=1m"`
}

type CacheConfig struct {
	Backend       string        `yaml:"backend" validate:"oneof=memory redis"`
	RedisHost     string        `yaml:"redisHost" validate:"required_if=Backend redis"`
	RedisPort     string        `yaml:"redisPort" validate:"required_if=Backend redis"`
	RedisPassword string        `yaml:"redisPassword"`
	StatsTTL      time.Duration `yaml:"statsTTL"`
}

type RateLimitConfig struct {
	Requests int           `yaml:"requests" validate:"min=1"`
	Window   time.Duration `yaml:"window" validate:"min=1s"`
}

// Config is the full runtime configuration of the API server and the CLI.
type Config struct {
	AppEnv      string          `yaml:"appEnv" validate:"oneof=development production test"`
	Port        int             `yaml:"port" validate:"min=1,max=65535"`
	AutoMigrate bool            `yaml:"autoMigrate"`
	CORSOrigins []string        `yaml:"corsOrigins" validate:"min=1"`
	Database    DatabaseConfig  `yaml:"database"`
	JWT         JWTConfig       `yaml:"jwt"`
	Cache       CacheConfig     `yaml:"cache"`
	RateLimit   RateLimitConfig `yaml:"rateLimit"`
	AidLimits   AidLimits       `yaml:"aidLimits"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the development configuration.
func Default() *Config {
	return &Config{
		AppEnv:      "development",
		Port:        5000,
		AutoMigrate: true,
		CORSOrigins: []string{"http://localhost:3000"},
		Database: DatabaseConfig{
			Driver:     "postgres",
			Host:       "localhost",
			Port:       "5432",
			User:       "resq",
			Name:       "resq",
			SQLitePath: "resq.db",
		},
		JWT: JWTConfig{
			Secret: devJWTSecret,
			Expiry: 7 * 24 * time.Hour,
		},
		Cache: CacheConfig{
			Backend:   "memory",
			RedisHost: "localhost",
			RedisPort: "6379",
			StatsTTL:  time.Minute,
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   15 * time.Minute,
		},
		AidLimits: DefaultAidLimits(),
	}
}

// Load builds the configuration: defaults, then .env, then the optional
// YAML file named by RESQ_CONFIG, then environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := Default()
	if path := os.Getenv("RESQ_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	envString("APP_ENV", &c.AppEnv)
	envString("DB_DRIVER", &c.Database.Driver)
	envString("PG_HOST", &c.Database.Host)
	envString("PG_PORT", &c.Database.Port)
	envString("PG_USER", &c.Database.User)
	envString("PG_PASSWORD", &c.Database.Password)
	envString("PG_DB", &c.Database.Name)
	envString("PG_SSLMODE", &c.Database.SSLMode)
	envString("SQLITE_PATH", &c.Database.SQLitePath)
	envString("JWT_SECRET", &c.JWT.Secret)
	envString("CACHE_BACKEND", &c.Cache.Backend)
	envString("REDIS_HOST", &c.Cache.RedisHost)
	envString("REDIS_PORT", &c.Cache.RedisPort)
	envString("REDIS_PASSWORD", &c.Cache.RedisPassword)

	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		c.CORSOrigins = splitList(v)
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"PORT", &c.Port},
		{"RATE_LIMIT_REQUESTS", &c.RateLimit.Requests},
		{"FOOD_LIMIT", &c.AidLimits.Food},
		{"CLOTHES_LIMIT", &c.AidLimits.Clothes},
		{"SHELTER_LIMIT", &c.AidLimits.Shelter},
		{"MEDICAL_LIMIT", &c.AidLimits.Medical},
	}
	for _, e := range ints {
		if err := envInt(e.key, e.dst); err != nil {
			return err
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"JWT_EXPIRY", &c.JWT.Expiry},
		{"STATS_CACHE_TTL", &c.Cache.StatsTTL},
		{"RATE_LIMIT_WINDOW", &c.RateLimit.Window},
	}
	for _, e := range durations {
		if err := envDuration(e.key, e.dst); err != nil {
			return err
		}
	}

	return envBool("AUTO_MIGRATE", &c.AutoMigrate)
}

// Validate runs struct validation plus the cross-field production rules.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.AppEnv == "production" && cfg.JWT.Secret == devJWTSecret {
		return fmt.Errorf("config validation failed: JWT_SECRET must be set in production")
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	c.JWT.Secret = "********"
	if c.Database.Password != "" {
		c.Database.Password = "********"
	}
	if c.Cache.RedisPassword != "" {
		c.Cache.RedisPassword = "********"
	}
	return c
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func envDuration(key string, dst *time.Duration) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

func envBool(key string, dst *bool) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = b
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
