package config

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	defaultEnvFile            = ".env"
	defaultHTTPAddr           = ":8080"
	defaultAdminBasePath      = "/admin"
	defaultAPITimeout         = 10 * time.Second
	defaultSessionIdleTimeout = 30 * time.Minute
	defaultLogLevel           = "info"
	defaultEnvironment        = "local"
	defaultContentDir         = "content/pages"
	defaultContactRatePerMin  = 5
	defaultContactRateBurst   = 3
	defaultReadTimeout        = 15 * time.Second
	defaultWriteTimeout       = 30 * time.Second
	defaultIdleTimeout        = 120 * time.Second

	envPrefix = "CONSOLE_"
)

var defaultPreviewHosts = []string{"vercel.app", "localhost"}

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Session SessionConfig
	Logging LoggingConfig
	Content ContentConfig
	Contact ContactConfig
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr          string
	AdminBasePath string
	SiteOrigin    string
	Environment   string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	IdleTimeout   time.Duration
	// TrustProxy honours X-Forwarded-For and X-Real-IP. Enable only behind a
	// reverse proxy that overwrites those headers.
	TrustProxy bool
}

// APIConfig points the console at the upstream catalog API.
type APIConfig struct {
	Origin       string
	PreviewHosts []string
	Timeout      time.Duration
}

// SessionConfig holds cookie signing material and lifetimes.
type SessionConfig struct {
	HashKey      []byte
	BlockKey     []byte
	IdleTimeout  time.Duration
	CookieSecure bool
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level string
}

// ContentConfig locates fallback markdown pages.
type ContentConfig struct {
	Dir string
}

// ContactConfig throttles public contact submissions.
type ContactConfig struct {
	RatePerMinute int
	Burst         int
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile      string
	envMap       map[string]string
	useSystemEnv bool
}

// WithEnvFile overrides the dotenv file consulted before the process environment.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// WithEnvMap supplies explicit values that win over every other source.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) {
		o.envMap = values
	}
}

// WithoutSystemEnv ignores the process environment.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) {
		o.useSystemEnv = false
	}
}

// Load resolves configuration from defaults, the dotenv file, the process
// environment and explicit overrides, in that order of precedence.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	dotEnvValues, err := loadDotEnv(options.envFile)
	if err != nil {
		return Config{}, err
	}

	lookup := func(key string) (string, bool) {
		key = envPrefix + key
		if options.envMap != nil {
			if value, ok := options.envMap[key]; ok {
				return value, true
			}
		}
		if options.useSystemEnv {
			if value, ok := os.LookupEnv(key); ok {
				return value, true
			}
		}
		if dotEnvValues != nil {
			if value, ok := dotEnvValues[key]; ok {
				return value, true
			}
		}
		return "", false
	}

	var invalid []string

	cfg := Config{
		Server: ServerConfig{
			Addr:          stringWithDefault(lookup, "HTTP_ADDR", defaultHTTPAddr),
			AdminBasePath: stringWithDefault(lookup, "ADMIN_BASE_PATH", defaultAdminBasePath),
			SiteOrigin:    strings.TrimRight(stringWithDefault(lookup, "SITE_ORIGIN", ""), "/"),
			Environment:   strings.ToLower(stringWithDefault(lookup, "ENVIRONMENT", defaultEnvironment)),
			ReadTimeout:   durationWithDefault(lookup, "READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout:  durationWithDefault(lookup, "WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:   durationWithDefault(lookup, "IDLE_TIMEOUT", defaultIdleTimeout),
			TrustProxy:    boolWithDefault(lookup, "TRUST_PROXY", false),
		},
		API: APIConfig{
			Origin:       strings.TrimRight(stringWithDefault(lookup, "API_ORIGIN", ""), "/"),
			PreviewHosts: csvWithDefault(lookup, "API_PREVIEW_HOSTS", defaultPreviewHosts),
			Timeout:      durationWithDefault(lookup, "API_TIMEOUT", defaultAPITimeout),
		},
		Session: SessionConfig{
			IdleTimeout:  durationWithDefault(lookup, "SESSION_IDLE_TIMEOUT", defaultSessionIdleTimeout),
			CookieSecure: boolWithDefault(lookup, "COOKIE_SECURE", false),
		},
		Logging: LoggingConfig{
			Level: strings.ToLower(stringWithDefault(lookup, "LOG_LEVEL", defaultLogLevel)),
		},
		Content: ContentConfig{
			Dir: stringWithDefault(lookup, "CONTENT_DIR", defaultContentDir),
		},
		Contact: ContactConfig{
			RatePerMinute: intWithDefault(lookup, "CONTACT_RATE_PER_MIN", defaultContactRatePerMin),
			Burst:         intWithDefault(lookup, "CONTACT_RATE_BURST", defaultContactRateBurst),
		},
	}

	if cfg.Session.HashKey, err = keyWithDefault(lookup, "SESSION_HASH_KEY"); err != nil {
		invalid = append(invalid, "Session.HashKey")
	}
	if cfg.Session.BlockKey, err = keyWithDefault(lookup, "SESSION_BLOCK_KEY"); err != nil {
		invalid = append(invalid, "Session.BlockKey")
	} else if n := len(cfg.Session.BlockKey); n != 0 && n != 16 && n != 24 && n != 32 {
		invalid = append(invalid, "Session.BlockKey")
	}

	invalid = append(invalid, validateConfig(cfg)...)
	if len(invalid) > 0 {
		return Config{}, &ValidationError{fields: invalid}
	}
	return cfg, nil
}

// IsProduction reports whether the configured environment is production.
func (c Config) IsProduction() bool {
	switch c.Server.Environment {
	case "prod", "production":
		return true
	default:
		return false
	}
}

func validateConfig(cfg Config) []string {
	var invalid []string

	if strings.TrimSpace(cfg.Server.Addr) == "" {
		invalid = append(invalid, "Server.Addr")
	}
	if !strings.HasPrefix(cfg.Server.AdminBasePath, "/") {
		invalid = append(invalid, "Server.AdminBasePath")
	}
	if cfg.Server.SiteOrigin != "" && !isAbsoluteURL(cfg.Server.SiteOrigin) {
		invalid = append(invalid, "Server.SiteOrigin")
	}
	if cfg.API.Origin != "" && !isAbsoluteURL(cfg.API.Origin) {
		invalid = append(invalid, "API.Origin")
	}
	if cfg.API.Origin == "" && cfg.Server.SiteOrigin == "" {
		invalid = append(invalid, "API.Origin")
	}
	if cfg.API.Timeout <= 0 {
		invalid = append(invalid, "API.Timeout")
	}
	if cfg.Session.IdleTimeout <= 0 {
		invalid = append(invalid, "Session.IdleTimeout")
	}
	if cfg.Contact.RatePerMinute <= 0 {
		invalid = append(invalid, "Contact.RatePerMinute")
	}
	if cfg.Contact.Burst <= 0 {
		invalid = append(invalid, "Contact.Burst")
	}
	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		invalid = append(invalid, "Logging.Level")
	}
	return invalid
}

func isAbsoluteURL(raw string) bool {
	parsed, err := url.Parse(raw)
	return err == nil && parsed.Scheme != "" && parsed.Host != ""
}

func loadDotEnv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}

	file, err := os.Open(absPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: unable to read %s: %w", absPath, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	values := make(map[string]string)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		values[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("config: failed parsing %s: %w", absPath, err)
	}
	return values, nil
}

func stringWithDefault(lookup func(string) (string, bool), key, fallback string) string {
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}

func durationWithDefault(lookup func(string) (string, bool), key string, fallback time.Duration) time.Duration {
	if value, ok := lookup(key); ok && value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func intWithDefault(lookup func(string) (string, bool), key string, fallback int) int {
	if value, ok := lookup(key); ok && value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func boolWithDefault(lookup func(string) (string, bool), key string, fallback bool) bool {
	if value, ok := lookup(key); ok && value != "" {
		switch strings.ToLower(value) {
		case "true", "1", "yes", "on":
			return true
		case "false", "0", "no", "off":
			return false
		}
	}
	return fallback
}

func csvWithDefault(lookup func(string) (string, bool), key string, fallback []string) []string {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		out := make([]string, len(fallback))
		copy(out, fallback)
		return out
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// keyWithDefault decodes base64 key material. Empty values yield nil so the
// session manager can derive an ephemeral key.
func keyWithDefault(lookup func(string) (string, bool), key string) ([]byte, error) {
	raw, ok := lookup(key)
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("config: decode %s: %w", key, err)
	}
	return decoded, nil
}
