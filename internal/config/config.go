// Package config loads the GOODLIFE_* environment into a typed Config.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for unset keys.
const (
	DefaultAddr                 = ":8080"
	DefaultEnv                  = "development"
	DefaultDriver               = "sqlite"
	DefaultBroadcastConcurrency = 2
	DefaultPollInterval         = 2 * time.Minute
	DefaultGeminiModel          = "gemini-2.0-flash"
	DefaultPublicURL            = "http://localhost:8080"
	DefaultMomoNumber           = "0551336976"
	DefaultEmailFrom            = "Goodlife Fitness <noreply@goodlifefitness.com>"
)

// Config is the process configuration.
type Config struct {
	Addr     string
	Env      string
	LogLevel slog.Level

	DBDriver    string
	DBDSN       string
	AutoMigrate bool

	TreatEmptyAsMissing   bool
	CreateMemberOnConfirm bool
	BroadcastConcurrency  int
	PollInterval          time.Duration

	SessionSecret []byte
	CSRFKey       []byte

	ResendKey    string
	EmailFrom    string
	EmailReplyTo string

	GeminiKey   string
	GeminiModel string

	S3Bucket string
	S3Region string

	PublicURL  string
	MomoNumber string

	AdminEmail    string
	AdminPassword string
}

// ErrMissingSecret is returned in production when a required secret is unset.
var ErrMissingSecret = errors.New("required secret is not set")

// Load reads an optional .env file then the environment.
// PRE: none
// POST: returns a Config with defaults applied; production requires both secrets
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from an arbitrary key lookup. Tests pass a map-backed lookup.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup("GOODLIFE_" + key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	c := Config{
		Addr:          get("ADDR", DefaultAddr),
		Env:           get("ENV", DefaultEnv),
		DBDriver:      get("DB_DRIVER", DefaultDriver),
		DBDSN:         get("DB_DSN", ""),
		ResendKey:     get("RESEND_KEY", ""),
		EmailFrom:     get("EMAIL_FROM", DefaultEmailFrom),
		EmailReplyTo:  get("EMAIL_REPLY_TO", ""),
		GeminiKey:     get("GEMINI_KEY", ""),
		GeminiModel:   get("GEMINI_MODEL", DefaultGeminiModel),
		S3Bucket:      get("S3_BUCKET", ""),
		S3Region:      get("S3_REGION", ""),
		PublicURL:     strings.TrimRight(get("PUBLIC_URL", DefaultPublicURL), "/"),
		MomoNumber:    get("MOMO_NUMBER", DefaultMomoNumber),
		AdminEmail:    get("ADMIN_EMAIL", ""),
		AdminPassword: get("ADMIN_PASSWORD", ""),
	}

	var err error
	if c.LogLevel, err = parseLevel(get("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}
	if c.AutoMigrate, err = parseBool("AUTO_MIGRATE", get("AUTO_MIGRATE", "true")); err != nil {
		return Config{}, err
	}
	if c.TreatEmptyAsMissing, err = parseBool("TREAT_EMPTY_AS_MISSING", get("TREAT_EMPTY_AS_MISSING", "false")); err != nil {
		return Config{}, err
	}
	if c.CreateMemberOnConfirm, err = parseBool("CREATE_MEMBER_ON_CONFIRM", get("CREATE_MEMBER_ON_CONFIRM", "false")); err != nil {
		return Config{}, err
	}
	if c.BroadcastConcurrency, err = strconv.Atoi(get("BROADCAST_CONCURRENCY", strconv.Itoa(DefaultBroadcastConcurrency))); err != nil || c.BroadcastConcurrency < 1 {
		return Config{}, fmt.Errorf("GOODLIFE_BROADCAST_CONCURRENCY must be a positive integer")
	}
	if c.PollInterval, err = time.ParseDuration(get("POLL_INTERVAL", DefaultPollInterval.String())); err != nil || c.PollInterval <= 0 {
		return Config{}, fmt.Errorf("GOODLIFE_POLL_INTERVAL must be a positive duration")
	}

	if c.SessionSecret, err = secret("SESSION_SECRET", get("SESSION_SECRET", ""), c.IsProduction()); err != nil {
		return Config{}, err
	}
	if c.CSRFKey, err = secret("CSRF_KEY", get("CSRF_KEY", ""), c.IsProduction()); err != nil {
		return Config{}, err
	}
	return c, nil
}

// BackendConfigured reports whether a backend connection string is set.
// When false the server runs on in-memory seed data only.
func (c Config) BackendConfigured() bool {
	return strings.TrimSpace(c.DBDSN) != ""
}

// IsProduction reports whether production hardening applies.
func (c Config) IsProduction() bool {
	return c.Env == "production"
}

// EmailConfigured reports whether real mail delivery is available.
func (c Config) EmailConfigured() bool {
	return c.ResendKey != ""
}

// AIConfigured reports whether the drafting service has credentials.
func (c Config) AIConfigured() bool {
	return c.GeminiKey != ""
}

// PhotoStoreConfigured reports whether member photos are uploaded to S3.
func (c Config) PhotoStoreConfigured() bool {
	return c.S3Bucket != ""
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("GOODLIFE_LOG_LEVEL: %w", err)
	}
	return l, nil
}

func parseBool(key, s string) (bool, error) {
	b, err := strconv.ParseBool(s)
	if err != nil {
		return false, fmt.Errorf("GOODLIFE_%s must be true or false", key)
	}
	return b, nil
}

// secret decodes a 32-byte hex key. Development falls back to a random key per start.
func secret(key, hexValue string, production bool) ([]byte, error) {
	if hexValue != "" {
		b, err := hex.DecodeString(hexValue)
		if err != nil || len(b) != 32 {
			return nil, fmt.Errorf("GOODLIFE_%s must be 64 hex characters (32 bytes)", key)
		}
		return b, nil
	}
	if production {
		return nil, fmt.Errorf("GOODLIFE_%s: %w", key, ErrMissingSecret)
	}
	b, err := randomKey()
	if err != nil {
		return nil, err
	}
	slog.Warn("config_random_secret", "key", "GOODLIFE_"+key, "note", "sessions won't survive restart")
	return b, nil
}
