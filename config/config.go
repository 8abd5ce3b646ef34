package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	StorageMongo  = "mongo"
	StorageMemory = "memory"
)

// Config holds process-wide settings. It is loaded once in main and
// handed to every component that needs it.
type Config struct {
	Port           string        `yaml:"port"`
	GinMode        string        `yaml:"gin_mode"`
	Storage        string        `yaml:"storage"`
	MongoURI       string        `yaml:"mongodb_uri"`
	MongoDatabase  string        `yaml:"mongodb_database"`
	JWTSecret      string        `yaml:"jwt_secret"`
	SessionTTL     time.Duration `yaml:"session_ttl"`
	CookieName     string        `yaml:"cookie_name"`
	CookieSecure   bool          `yaml:"cookie_secure"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	LogLevel       string        `yaml:"log_level"`
	CloudinaryURL  string        `yaml:"cloudinary_url"`
}

// Default returns the settings used when neither the file nor the
// environment say otherwise.
func Default() Config {
	return Config{
		Port:           "5000",
		GinMode:        "debug",
		Storage:        StorageMongo,
		MongoURI:       "mongodb://127.0.0.1:27017",
		MongoDatabase:  "quill",
		SessionTTL:     24 * time.Hour,
		CookieName:     "token",
		AllowedOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		RequestTimeout: 10 * time.Second,
		LogLevel:       "info",
	}
}

// Load builds the configuration: defaults, then the optional YAML file at
// path, then .env, then environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.GinMode = getEnv("GIN_MODE", c.GinMode)
	c.Storage = getEnv("STORAGE", c.Storage)
	c.MongoURI = getEnv("MONGODB_URI", c.MongoURI)
	c.MongoDatabase = getEnv("MONGODB_DATABASE", c.MongoDatabase)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.CookieName = getEnv("COOKIE_NAME", c.CookieName)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.CloudinaryURL = getEnv("CLOUDINARY_URL", c.CloudinaryURL)

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		c.AllowedOrigins = splitList(v)
	}

	var err error
	if c.CookieSecure, err = getEnvAsBool("COOKIE_SECURE", c.CookieSecure); err != nil {
		return err
	}
	if c.SessionTTL, err = getEnvAsDuration("SESSION_TTL", c.SessionTTL); err != nil {
		return err
	}
	if c.RequestTimeout, err = getEnvAsDuration("REQUEST_TIMEOUT", c.RequestTimeout); err != nil {
		return err
	}
	return nil
}

// Validate reports the first setting that would keep the server from
// running correctly.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("unknown gin mode %q", c.GinMode)
	}
	if c.Storage != StorageMongo && c.Storage != StorageMemory {
		return fmt.Errorf("unknown storage %q: want %q or %q", c.Storage, StorageMongo, StorageMemory)
	}
	if c.Storage == StorageMongo && c.MongoURI == "" {
		return errors.New("MONGODB_URI must be set for mongo storage")
	}
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.CookieName == "" {
		return errors.New("COOKIE_NAME must not be empty")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return val, nil
}

func getEnvAsDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	valStr := os.Getenv(key)
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := time.ParseDuration(valStr)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return val, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
