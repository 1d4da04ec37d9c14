package config

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"CONSOLE_API_ORIGIN": "https://api.asatec.example",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Server.Addr)
	require.Equal(t, "/admin", cfg.Server.AdminBasePath)
	require.Equal(t, "local", cfg.Server.Environment)
	require.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "https://api.asatec.example", cfg.API.Origin)
	require.Equal(t, []string{"vercel.app", "localhost"}, cfg.API.PreviewHosts)
	require.Equal(t, 10*time.Second, cfg.API.Timeout)
	require.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	require.Nil(t, cfg.Session.HashKey)
	require.False(t, cfg.Session.CookieSecure)
	require.False(t, cfg.Server.TrustProxy)
	require.Equal(t, "info", cfg.Logging.Level)
	require.Equal(t, "content/pages", cfg.Content.Dir)
	require.Equal(t, 5, cfg.Contact.RatePerMinute)
	require.Equal(t, 3, cfg.Contact.Burst)
	require.False(t, cfg.IsProduction())
}

func TestLoadWithOverrides(t *testing.T) {
	hashKey := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef0123456789abcdef"))
	blockKey := base64.StdEncoding.EncodeToString([]byte("0123456789abcdef"))
	env := map[string]string{
		"CONSOLE_HTTP_ADDR":            ":9090",
		"CONSOLE_ADMIN_BASE_PATH":      "/console",
		"CONSOLE_SITE_ORIGIN":          "https://asatec.vercel.app/",
		"CONSOLE_API_PREVIEW_HOSTS":    "preview.internal, ,staging.example",
		"CONSOLE_API_TIMEOUT":          "3s",
		"CONSOLE_SESSION_HASH_KEY":     hashKey,
		"CONSOLE_SESSION_BLOCK_KEY":    blockKey,
		"CONSOLE_SESSION_IDLE_TIMEOUT": "1h",
		"CONSOLE_COOKIE_SECURE":        "yes",
		"CONSOLE_LOG_LEVEL":            "DEBUG",
		"CONSOLE_ENVIRONMENT":          "Production",
		"CONSOLE_CONTACT_RATE_PER_MIN": "10",
		"CONSOLE_CONTACT_RATE_BURST":   "4",
		"CONSOLE_WRITE_TIMEOUT":        "45s",
		"CONSOLE_TRUST_PROXY":          "true",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.NoError(t, err)

	require.Equal(t, ":9090", cfg.Server.Addr)
	require.Equal(t, "/console", cfg.Server.AdminBasePath)
	require.Equal(t, "https://asatec.vercel.app", cfg.Server.SiteOrigin)
	require.Equal(t, "", cfg.API.Origin)
	require.Equal(t, []string{"preview.internal", "staging.example"}, cfg.API.PreviewHosts)
	require.Equal(t, 3*time.Second, cfg.API.Timeout)
	require.Len(t, cfg.Session.HashKey, 32)
	require.Len(t, cfg.Session.BlockKey, 16)
	require.Equal(t, time.Hour, cfg.Session.IdleTimeout)
	require.True(t, cfg.Session.CookieSecure)
	require.Equal(t, "debug", cfg.Logging.Level)
	require.True(t, cfg.IsProduction())
	require.Equal(t, 10, cfg.Contact.RatePerMinute)
	require.Equal(t, 4, cfg.Contact.Burst)
	require.Equal(t, 45*time.Second, cfg.Server.WriteTimeout)
	require.True(t, cfg.Server.TrustProxy)
}

func TestLoadReadsDotEnvBelowExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	contents := "# local overrides\nexport CONSOLE_API_ORIGIN=\"https://dotenv.example\"\nCONSOLE_HTTP_ADDR=:7070\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := Load(
		WithEnvFile(path),
		WithoutSystemEnv(),
		WithEnvMap(map[string]string{"CONSOLE_HTTP_ADDR": ":6060"}),
	)
	require.NoError(t, err)
	require.Equal(t, "https://dotenv.example", cfg.API.Origin)
	require.Equal(t, ":6060", cfg.Server.Addr)
}

func TestLoadReportsInvalidFields(t *testing.T) {
	env := map[string]string{
		"CONSOLE_ADMIN_BASE_PATH":   "admin",
		"CONSOLE_API_ORIGIN":        "not a url",
		"CONSOLE_SESSION_BLOCK_KEY": base64.StdEncoding.EncodeToString([]byte("short")),
		"CONSOLE_LOG_LEVEL":         "verbose",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	require.Error(t, err)

	var validation *ValidationError
	require.True(t, errors.As(err, &validation))
	require.ElementsMatch(t, []string{
		"Session.BlockKey",
		"Server.AdminBasePath",
		"API.Origin",
		"Logging.Level",
	}, validation.Fields())
}

func TestLoadRequiresAnOrigin(t *testing.T) {
	_, err := Load(WithoutSystemEnv(), WithEnvFile(""))

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	require.Contains(t, validation.Fields(), "API.Origin")
}
