// config - источник загрузки конфигурации forum-gateway.
//
// Источники (по убыванию приоритета):
//  1. явный путь --config;
//  2. CONFIG_PATH;
//  3. ./local.yaml;
//  4. только ENV (cleanenv).
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env      string        `yaml:"env" env:"ENV" env-default:"local"`
	HTTP     HTTPConfig    `yaml:"http"`
	Backend  BackendConfig `yaml:"backend"`
	Timeouts TimeoutConfig `yaml:"timeouts"`
	Session  SessionConfig `yaml:"session"`
	Drafts   DraftsConfig  `yaml:"drafts"`
	Thread   ThreadConfig  `yaml:"thread"`
}

// HTTPConfig — публичный REST-сервер шлюза.
type HTTPConfig struct {
	Host string `yaml:"host" env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port string `yaml:"port" env:"HTTP_PORT" env-default:"50090"`
}

func (h HTTPConfig) Addr() string { return net.JoinHostPort(h.Host, h.Port) }

// BackendConfig — REST-бэкенд платформы.
type BackendConfig struct {
	BaseURL   string `yaml:"base_url"   env:"BACKEND_BASE_URL"   env-required:"true"`
	Token     string `yaml:"token"      env:"BACKEND_TOKEN"`
	UserAgent string `yaml:"user_agent" env:"BACKEND_USER_AGENT" env-default:"forum-gateway"`
}

// TimeoutConfig — общий дедлайн входящего запроса и дедлайн одного вызова бэкенда.
type TimeoutConfig struct {
	Service time.Duration `yaml:"service" env:"SERVICE_TIMEOUT" env-default:"15s"`
	Backend time.Duration `yaml:"backend" env:"BACKEND_TIMEOUT" env-default:"5s"`
}

// SessionConfig — жизнь страниц в памяти шлюза.
type SessionConfig struct {
	TTL           time.Duration `yaml:"ttl"            env:"SESSION_TTL"            env-default:"30m"`
	SweepInterval time.Duration `yaml:"sweep_interval" env:"SESSION_SWEEP_INTERVAL" env-default:"1m"`
}

// DraftsConfig — автосохранение черновиков. Пустой RedisURL — хранение в памяти.
type DraftsConfig struct {
	RedisURL string        `yaml:"redis_url" env:"DRAFTS_REDIS_URL"`
	Prefix   string        `yaml:"prefix"    env:"DRAFTS_PREFIX"    env-default:"forum:drafts:"`
	TTL      time.Duration `yaml:"ttl"       env:"DRAFTS_TTL"       env-default:"72h"`
}

// ThreadConfig — параметры отрисовки ветки.
type ThreadConfig struct {
	// Отступ одного уровня вложенности (px).
	IndentStep int `yaml:"indent_step" env:"THREAD_INDENT_STEP" env-default:"24"`
	// Задержка перед прокруткой к теме из query после загрузки.
	ScrollDelay time.Duration `yaml:"scroll_delay" env:"THREAD_SCROLL_DELAY" env-default:"300ms"`
}

// MustLoad — паника при ошибке загрузки.
func MustLoad(path string) *Config {
	cfg, err := Load(path)

	if err != nil {
		panic(err)
	}

	return cfg
}

func Load(path string) (*Config, error) {
	var cfg Config

	tryRead := func(p string) (*Config, error) {
		if p == "" {
			return nil, fmt.Errorf("empty config path")
		}

		if _, err := os.Stat(p); err != nil {
			return nil, fmt.Errorf("config file %q stat failed: %w", p, err)
		}

		if err := cleanenv.ReadConfig(p, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}

		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to overlay env: %w", err)
		}

		return &cfg, nil
	}

	var (
		res *Config
		err error
	)

	switch {
	// 1) --config
	case path != "":
		res, err = tryRead(path)
	// 2) CONFIG_PATH
	case os.Getenv("CONFIG_PATH") != "":
		res, err = tryRead(os.Getenv("CONFIG_PATH"))
	// 3) ./local.yaml
	case fileExists("local.yaml"):
		res, err = tryRead("local.yaml")
		if err != nil {
			return nil, fmt.Errorf("failed to read local.yaml: %w", err)
		}
	// 4) только ENV
	default:
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config not found: provide --config, CONFIG_PATH, local.yaml or env vars: %w", err)
		}
		res = &cfg
	}

	if err != nil {
		return nil, err
	}

	if err := res.validate(); err != nil {
		return nil, err
	}

	return res, nil
}

func fileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}

// validate — базовая валидация значений.
func (c *Config) validate() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend.base_url must be an absolute URL")
	}

	if c.Timeouts.Backend <= 0 {
		return fmt.Errorf("timeouts.backend must be > 0")
	}

	if c.Session.TTL < time.Minute {
		return fmt.Errorf("session.ttl must be at least 1m")
	}

	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be > 0")
	}

	if c.Thread.IndentStep <= 0 {
		return fmt.Errorf("thread.indent_step must be > 0")
	}

	if c.Thread.ScrollDelay < 0 {
		return fmt.Errorf("thread.scroll_delay must be >= 0")
	}

	if c.Drafts.RedisURL != "" && c.Drafts.TTL <= 0 {
		return fmt.Errorf("drafts.ttl must be > 0 when redis is enabled")
	}

	return nil
}
