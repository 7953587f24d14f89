package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// writeFile — утилита записи временного файла конфигурации.
func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(data), 0o600))
	return p
}

// chdir — смена текущего рабочего каталога с авто-возвратом.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

const sampleYAML = `
env: "prod"
http:
  host: "0.0.0.0"
  port: "8080"
backend:
  base_url: "https://api.exam.local/v1"
  token: "svc-token"
  user_agent: "forum-gateway/test"
timeouts:
  service: "3s"
  backend: "2s"
session:
  ttl: "10m"
  sweep_interval: "30s"
drafts:
  redis_url: "redis://127.0.0.1:6379/1"
  prefix: "t:drafts:"
  ttl: "1h"
thread:
  indent_step: 16
  scroll_delay: "100ms"
`

// Минимальный YAML (всё остальное — через дефолты/ENV).
const minimalYAML = `
env: "stage"
backend:
  base_url: "http://backend:8080"
`

const brokenYAML = `
env: [unclosed
`

func TestHTTPConfig_Addr(t *testing.T) {
	t.Parallel()
	cfg := HTTPConfig{Host: "0.0.0.0", Port: "8080"}
	require.Equal(t, "0.0.0.0:8080", cfg.Addr())
}

func TestLoad_WithExplicitPath_OK(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "8080", cfg.HTTP.Port)
	require.Equal(t, "https://api.exam.local/v1", cfg.Backend.BaseURL)
	require.Equal(t, "svc-token", cfg.Backend.Token)
	require.Equal(t, "forum-gateway/test", cfg.Backend.UserAgent)
	require.Equal(t, 3*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 2*time.Second, cfg.Timeouts.Backend)
	require.Equal(t, 10*time.Minute, cfg.Session.TTL)
	require.Equal(t, 30*time.Second, cfg.Session.SweepInterval)
	require.Equal(t, "redis://127.0.0.1:6379/1", cfg.Drafts.RedisURL)
	require.Equal(t, "t:drafts:", cfg.Drafts.Prefix)
	require.Equal(t, time.Hour, cfg.Drafts.TTL)
	require.Equal(t, 16, cfg.Thread.IndentStep)
	require.Equal(t, 100*time.Millisecond, cfg.Thread.ScrollDelay)
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "min.yaml", minimalYAML)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "stage", cfg.Env)
	require.Equal(t, "50090", cfg.HTTP.Port)
	require.Equal(t, "forum-gateway", cfg.Backend.UserAgent)
	require.Equal(t, 15*time.Second, cfg.Timeouts.Service)
	require.Equal(t, 5*time.Second, cfg.Timeouts.Backend)
	require.Equal(t, 30*time.Minute, cfg.Session.TTL)
	require.Equal(t, "", cfg.Drafts.RedisURL)
	require.Equal(t, 24, cfg.Thread.IndentStep)
	require.Equal(t, 300*time.Millisecond, cfg.Thread.ScrollDelay)
}

func TestLoad_WithExplicitPath_BrokenYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "broken.yaml", brokenYAML)

	_, err := Load(cfgPath)
	require.Error(t, err)
	require.Contains(t, err.Error(), "failed to read config")
}

func TestLoad_Validation(t *testing.T) {
	t.Parallel()

	tcs := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"relative_base_url", `
backend: { base_url: "/api" }
`, "backend.base_url"},
		{"short_session_ttl", `
backend: { base_url: "http://b" }
session: { ttl: "10s" }
`, "session.ttl"},
		{"zero_indent", `
backend: { base_url: "http://b" }
thread: { indent_step: -1 }
`, "thread.indent_step"},
		{"negative_scroll_delay", `
backend: { base_url: "http://b" }
thread: { scroll_delay: "-1s" }
`, "thread.scroll_delay"},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			p := writeFile(t, t.TempDir(), "c.yaml", tc.yaml)
			_, err := Load(p)
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoad_WithCONFIG_PATH_OK(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "from_env_path.yaml", minimalYAML)
	t.Setenv("CONFIG_PATH", cfgPath)

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "stage", cfg.Env)
}

func TestLoad_WithLocalYAML_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, ".", "local.yaml", sampleYAML)
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load("")
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "https://api.exam.local/v1", cfg.Backend.BaseURL)
}

// Явный путь важнее CONFIG_PATH и local.yaml.
func TestLoad_Priority_ExplicitWinsOverEnvAndLocal(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)

	explicit := writeFile(t, dir, "explicit.yaml", sampleYAML)
	badFromEnv := writeFile(t, dir, "bad.yaml", brokenYAML)
	t.Setenv("CONFIG_PATH", badFromEnv)
	writeFile(t, ".", "local.yaml", `
env: "local"
backend: { base_url: "http://local" }
`)

	cfg, err := Load(explicit)
	require.NoError(t, err)
	require.Equal(t, "prod", cfg.Env)
}

func TestLoad_EnvOverlay_OverridesValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yaml", sampleYAML)

	t.Setenv("HTTP_PORT", "18080")
	t.Setenv("BACKEND_TOKEN", "from-env")
	t.Setenv("THREAD_INDENT_STEP", "32")

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	require.Equal(t, "18080", cfg.HTTP.Port)
	require.Equal(t, "from-env", cfg.Backend.Token)
	require.Equal(t, 32, cfg.Thread.IndentStep)
}

// «Только ENV» без файлов.
func TestLoad_EnvOnly_OK(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")

	t.Setenv("ENV", "dev")
	t.Setenv("BACKEND_BASE_URL", "http://backend:9000")
	t.Setenv("SESSION_TTL", "5m")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "http://backend:9000", cfg.Backend.BaseURL)
	require.Equal(t, 5*time.Minute, cfg.Session.TTL)
}

func TestLoad_EnvOnly_MissingBaseURL(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("BACKEND_BASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestMustLoad_PanicsOnError(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		_ = MustLoad(filepath.Join(t.TempDir(), "nope.yaml"))
	})
}
