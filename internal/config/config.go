package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultJWTSecret is only accepted when Env is "development".
const DefaultJWTSecret = "supersecretkey"

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Addr           string          `yaml:"addr"`
	Env            string          `yaml:"env"`
	JWTSecret      string          `yaml:"jwt_secret"`
	APITimeout     time.Duration   `yaml:"timeout"`
	TokenDuration  time.Duration   `yaml:"token_duration"`
	Store          string          `yaml:"store"`
	DatabasePath   string          `yaml:"database_path"`
	PostgresDSN    string          `yaml:"postgres_dsn"`
	RedisURL       string          `yaml:"redis_url"`
	MigrateOnStart bool            `yaml:"migrate_on_start"`
	CORSOrigin     string          `yaml:"cors_origin"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
	Uploads        UploadConfig    `yaml:"uploads"`
}

// RateLimitConfig bounds write requests per client within Window. TrustProxy
// keys clients by X-Forwarded-For and must only be set behind a proxy that
// overwrites the header.
type RateLimitConfig struct {
	Requests   int           `yaml:"requests"`
	Window     time.Duration `yaml:"window"`
	TrustProxy bool          `yaml:"trust_proxy"`
}

type UploadConfig struct {
	Dir      string `yaml:"dir"`
	BaseURL  string `yaml:"base_url"`
	MaxBytes int64  `yaml:"max_bytes"`
}

// LoadConfig builds a Config from TECHSTAFF_* environment variables and then
// overlays the YAML file at path when one is given.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		Addr:           getEnv("TECHSTAFF_ADDR", ":8080"),
		Env:            getEnv("TECHSTAFF_ENV", "production"),
		JWTSecret:      getEnv("TECHSTAFF_JWT_SECRET", DefaultJWTSecret),
		APITimeout:     15 * time.Second,
		TokenDuration:  24 * time.Hour,
		Store:          getEnv("TECHSTAFF_STORE", StoreSQLite),
		DatabasePath:   getEnv("TECHSTAFF_DATABASE_PATH", "techstaff.db"),
		PostgresDSN:    getEnv("TECHSTAFF_POSTGRES_DSN", ""),
		RedisURL:       getEnv("TECHSTAFF_REDIS_URL", ""),
		MigrateOnStart: getEnvBool("TECHSTAFF_MIGRATE_ON_START", true),
		CORSOrigin:     getEnv("TECHSTAFF_CORS_ORIGIN", "*"),
		RateLimit: RateLimitConfig{
			Requests:   30,
			Window:     time.Minute,
			TrustProxy: getEnvBool("TECHSTAFF_TRUST_PROXY", false),
		},
		Uploads: UploadConfig{
			Dir:      getEnv("TECHSTAFF_UPLOAD_DIR", "uploads"),
			BaseURL:  "/files",
			MaxBytes: 5 << 20,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Validate rejects unusable settings and fills zero values that have a
// sensible default.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	} else if c.JWTSecret == DefaultJWTSecret && !c.IsDevelopment() {
		errs = append(errs, errors.New("jwt_secret uses the insecure default outside development"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}

	switch c.Store {
	case StoreSQLite:
		if c.DatabasePath == "" {
			errs = append(errs, errors.New("database_path is required for the sqlite store"))
		}
	case StorePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("postgres_dsn is required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store %q", c.Store))
	}

	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 30
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.Uploads.Dir == "" {
		c.Uploads.Dir = "uploads"
	}
	if c.Uploads.BaseURL == "" {
		c.Uploads.BaseURL = "/files"
	}
	if c.Uploads.MaxBytes <= 0 {
		c.Uploads.MaxBytes = 5 << 20
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
