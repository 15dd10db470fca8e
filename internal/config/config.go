package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/shelfwatch/internal/catalog"
)

// Config captures everything a shelfwatch run needs.
type Config struct {
	BaseURL           string
	RequestTimeout    time.Duration
	Concurrency       int
	RequestsPerSecond float64
	LogLevel          string

	State   State
	Notify  Notify
	Metrics Metrics
}

// State selects the persistence backend.
type State struct {
	Driver        string
	Path          string
	DSN           string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKey      string
	S3Bucket      string
	S3Key         string
	S3Region      string
	S3Endpoint    string
	S3PathStyle   bool
	S3AccessKey   string
	S3SecretKey   string
}

// Notify configures the notifiers. The webhook is enabled when IFTTTKey is set.
type Notify struct {
	Console      bool
	IFTTTKey     string
	IFTTTEvent   string
	IFTTTBaseURL string
	LinkTemplate string
}

// Metrics configures the optional Pushgateway export.
type Metrics struct {
	PushgatewayURL string
	Job            string
}

const (
	defaultConfigPath   = "~/.config/shelfwatch/config.toml"
	defaultStatePath    = "~/.local/state/shelfwatch/state.toml"
	defaultSQLitePath   = "~/.local/state/shelfwatch/state.db"
	defaultDriver       = "file"
	defaultTimeout      = 30 * time.Second
	defaultConcurrency  = 4
	defaultRPS          = 2
	defaultLogLevel     = "info"
	defaultRedisAddr    = "127.0.0.1:6379"
	defaultRedisKey     = "shelfwatch:state"
	defaultS3Key        = "shelfwatch/state.toml"
	defaultIFTTTEvent   = "hhpl"
	defaultIFTTTBase    = "https://maker.ifttt.com"
	defaultLinkTemplate = "https://www.buecherhallen.de/suchergebnis-detail/medium/%s.html"
	defaultMetricsJob   = "shelfwatch"
)

// Environment overrides, applied after the file.
const (
	EnvIFTTTKey     = "SHELFWATCH_IFTTT_KEY"
	EnvStateDSN     = "SHELFWATCH_STATE_DSN"
	EnvRedisPass    = "SHELFWATCH_REDIS_PASSWORD"
	EnvPushgateway  = "SHELFWATCH_PUSHGATEWAY_URL"
	EnvStateDriver  = "SHELFWATCH_STATE_DRIVER"
	EnvBaseURL      = "SHELFWATCH_BASE_URL"
	EnvStatePath    = "SHELFWATCH_STATE_PATH"
	EnvConfigSource = "SHELFWATCH_CONFIG"
	EnvS3AccessKey  = "SHELFWATCH_S3_ACCESS_KEY_ID"
	EnvS3SecretKey  = "SHELFWATCH_S3_SECRET_ACCESS_KEY"
)

type rawConfig struct {
	BaseURL               string  `toml:"base_url"`
	RequestTimeoutSeconds int     `toml:"request_timeout_seconds"`
	Concurrency           int     `toml:"concurrency"`
	RequestsPerSecond     float64 `toml:"requests_per_second"`
	LogLevel              string  `toml:"log_level"`
	State                 struct {
		Driver        string `toml:"driver"`
		Path          string `toml:"path"`
		DSN           string `toml:"dsn"`
		RedisAddr     string `toml:"redis_addr"`
		RedisPassword string `toml:"redis_password"`
		RedisDB       int    `toml:"redis_db"`
		RedisKey      string `toml:"redis_key"`
		S3Bucket      string `toml:"s3_bucket"`
		S3Key         string `toml:"s3_key"`
		S3Region      string `toml:"s3_region"`
		S3Endpoint    string `toml:"s3_endpoint"`
		S3PathStyle   bool   `toml:"s3_path_style"`
		S3AccessKey   string `toml:"s3_access_key_id"`
		S3SecretKey   string `toml:"s3_secret_access_key"`
	} `toml:"state"`
	Notify struct {
		Console      *bool  `toml:"console"`
		IFTTTKey     string `toml:"ifttt_key"`
		IFTTTEvent   string `toml:"ifttt_event"`
		IFTTTBaseURL string `toml:"ifttt_base_url"`
		LinkTemplate string `toml:"link_template"`
	} `toml:"notify"`
	Metrics struct {
		PushgatewayURL string `toml:"pushgateway_url"`
		Job            string `toml:"job"`
	} `toml:"metrics"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		BaseURL:           catalog.DefaultBaseURL,
		RequestTimeout:    defaultTimeout,
		Concurrency:       defaultConcurrency,
		RequestsPerSecond: defaultRPS,
		LogLevel:          defaultLogLevel,
		State: State{
			Driver:    defaultDriver,
			Path:      mustExpand(defaultStatePath),
			RedisAddr: defaultRedisAddr,
			RedisKey:  defaultRedisKey,
			S3Key:     defaultS3Key,
		},
		Notify: Notify{
			Console:      true,
			IFTTTEvent:   defaultIFTTTEvent,
			IFTTTBaseURL: defaultIFTTTBase,
			LinkTemplate: defaultLinkTemplate,
		},
		Metrics: Metrics{Job: defaultMetricsJob},
	}
}

// Load locates and parses the config, falling back to defaults when the file
// is missing, then applies environment overrides.
func Load(path string) (Config, error) {
	if strings.TrimSpace(path) == "" {
		path = os.Getenv(EnvConfigSource)
	}
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnv(&cfg)
			return cfg, cfg.Validate()
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.BaseURL = orDefault(raw.BaseURL, catalog.DefaultBaseURL)
	if raw.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(raw.RequestTimeoutSeconds) * time.Second
	}
	if raw.Concurrency > 0 {
		cfg.Concurrency = raw.Concurrency
	}
	if raw.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = raw.RequestsPerSecond
	}
	cfg.LogLevel = strings.ToLower(orDefault(raw.LogLevel, defaultLogLevel))

	cfg.State.Driver = strings.ToLower(orDefault(raw.State.Driver, defaultDriver))
	cfg.State.Path = mustExpand(orDefault(raw.State.Path, defaultPathFor(cfg.State.Driver)))
	cfg.State.DSN = strings.TrimSpace(raw.State.DSN)
	cfg.State.RedisAddr = orDefault(raw.State.RedisAddr, defaultRedisAddr)
	cfg.State.RedisPassword = raw.State.RedisPassword
	cfg.State.RedisDB = raw.State.RedisDB
	cfg.State.RedisKey = orDefault(raw.State.RedisKey, defaultRedisKey)
	cfg.State.S3Bucket = strings.TrimSpace(raw.State.S3Bucket)
	cfg.State.S3Key = orDefault(raw.State.S3Key, defaultS3Key)
	cfg.State.S3Region = strings.TrimSpace(raw.State.S3Region)
	cfg.State.S3Endpoint = strings.TrimSpace(raw.State.S3Endpoint)
	cfg.State.S3PathStyle = raw.State.S3PathStyle
	cfg.State.S3AccessKey = strings.TrimSpace(raw.State.S3AccessKey)
	cfg.State.S3SecretKey = strings.TrimSpace(raw.State.S3SecretKey)

	if raw.Notify.Console != nil {
		cfg.Notify.Console = *raw.Notify.Console
	}
	cfg.Notify.IFTTTKey = strings.TrimSpace(raw.Notify.IFTTTKey)
	cfg.Notify.IFTTTEvent = orDefault(raw.Notify.IFTTTEvent, defaultIFTTTEvent)
	cfg.Notify.IFTTTBaseURL = orDefault(raw.Notify.IFTTTBaseURL, defaultIFTTTBase)
	cfg.Notify.LinkTemplate = orDefault(raw.Notify.LinkTemplate, defaultLinkTemplate)

	cfg.Metrics.PushgatewayURL = strings.TrimSpace(raw.Metrics.PushgatewayURL)
	cfg.Metrics.Job = orDefault(raw.Metrics.Job, defaultMetricsJob)

	applyEnv(&cfg)
	return cfg, cfg.Validate()
}

// Validate rejects settings no run could use.
func (c Config) Validate() error {
	if c.RequestTimeout > catalog.MaxRequestTimeout {
		return fmt.Errorf("request timeout %s exceeds %s", c.RequestTimeout, catalog.MaxRequestTimeout)
	}
	switch c.State.Driver {
	case "file", "sqlite":
		if c.State.Path == "" {
			return fmt.Errorf("state path is empty")
		}
	case "postgres":
		if c.State.DSN == "" {
			return fmt.Errorf("state driver postgres requires dsn or %s", EnvStateDSN)
		}
	case "redis":
	case "s3":
		if c.State.S3Bucket == "" {
			return fmt.Errorf("state driver s3 requires s3_bucket")
		}
	default:
		return fmt.Errorf("unknown state driver %q", c.State.Driver)
	}
	if strings.Count(c.Notify.LinkTemplate, "%s") != 1 {
		return fmt.Errorf("link_template must contain exactly one %%s")
	}
	return nil
}

// LoadDotEnv reads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	resolved, err := expandPath(path)
	if err != nil {
		return err
	}
	if err := godotenv.Load(resolved); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", resolved, err)
	}
	return nil
}

func defaultPathFor(driver string) string {
	if driver == "sqlite" {
		return defaultSQLitePath
	}
	return defaultStatePath
}

func applyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		cfg.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvStateDriver)); v != "" {
		previous := cfg.State.Driver
		cfg.State.Driver = strings.ToLower(v)
		// Follow the driver's default location unless a path was chosen.
		if cfg.State.Path == mustExpand(defaultPathFor(previous)) {
			cfg.State.Path = mustExpand(defaultPathFor(cfg.State.Driver))
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvStatePath)); v != "" {
		cfg.State.Path = mustExpand(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvStateDSN)); v != "" {
		cfg.State.DSN = v
	}
	if v := os.Getenv(EnvRedisPass); v != "" {
		cfg.State.RedisPassword = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3AccessKey)); v != "" {
		cfg.State.S3AccessKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvS3SecretKey)); v != "" {
		cfg.State.S3SecretKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvIFTTTKey)); v != "" {
		cfg.Notify.IFTTTKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPushgateway)); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
