package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/five82/shelfwatch/internal/catalog"
	"github.com/five82/shelfwatch/internal/config"
	"github.com/five82/shelfwatch/internal/metrics"
	"github.com/five82/shelfwatch/internal/notify"
	"github.com/five82/shelfwatch/internal/prefs"
	"github.com/five82/shelfwatch/internal/state"
	"github.com/five82/shelfwatch/internal/ui"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

// Options configure a shelfwatch run.
type Options struct {
	ConfigPath string
	EnvFile    string // empty uses ./.env when present
	PrefsPath  string // empty uses default ~/.config/shelfwatch/prefs.toml
	Verbose    bool

	Stdout io.Writer
	Stderr io.Writer
	Now    Clock
}

func (o Options) withDefaults() Options {
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// env is everything a command needs after configuration has been resolved.
type env struct {
	opts   Options
	cfg    config.Config
	prefs  prefs.Prefs
	styles ui.Styles
	logger *slog.Logger
	runID  string
}

func setup(opts Options) (*env, error) {
	opts = opts.withDefaults()

	if err := config.LoadDotEnv(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	userPrefs := prefs.Load(opts.PrefsPath)

	runID := newRunID()
	logger := newLogger(opts.Stderr, cfg.LogLevel, opts.Verbose).With(slog.String("run", runID))

	return &env{
		opts:   opts,
		cfg:    cfg,
		prefs:  userPrefs,
		styles: ui.GetTheme(userPrefs.Theme).Styles(),
		logger: logger,
		runID:  runID,
	}, nil
}

func newRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func newLogger(w io.Writer, level string, verbose bool) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn", "warning":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	if verbose {
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func (e *env) newClient() (*catalog.Client, error) {
	client, err := catalog.NewClient(e.cfg.BaseURL, e.cfg.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("init catalogue client: %w", err)
	}
	return client, nil
}

func (e *env) openBackend(ctx context.Context) (state.Backend, error) {
	s := e.cfg.State
	backend, err := state.Open(ctx, state.Options{
		Driver:        state.Driver(s.Driver),
		Path:          s.Path,
		DSN:           s.DSN,
		RedisAddr:     s.RedisAddr,
		RedisPassword: s.RedisPassword,
		RedisDB:       s.RedisDB,
		RedisKey:      s.RedisKey,
		S3: state.S3Options{
			Bucket:          s.S3Bucket,
			Key:             s.S3Key,
			Region:          s.S3Region,
			Endpoint:        s.S3Endpoint,
			PathStyle:       s.S3PathStyle,
			AccessKeyID:     s.S3AccessKey,
			SecretAccessKey: s.S3SecretKey,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("open %s state: %w", s.Driver, err)
	}
	return backend, nil
}

func (e *env) newDispatcher(rec *metrics.Recorder) (*notify.Dispatcher, error) {
	var notifiers []notify.Notifier
	if e.cfg.Notify.Console {
		notifiers = append(notifiers, &notify.Console{Out: e.opts.Stdout, Style: e.styles.SuccessText})
	}
	if e.cfg.Notify.IFTTTKey != "" {
		hook, err := notify.NewWebhook(e.cfg.Notify.IFTTTBaseURL, e.cfg.Notify.IFTTTEvent, e.cfg.Notify.IFTTTKey, e.cfg.Notify.LinkTemplate)
		if err != nil {
			return nil, fmt.Errorf("init webhook: %w", err)
		}
		notifiers = append(notifiers, hook)
	}
	return notify.NewDispatcher(e.logger, rec, notifiers...), nil
}

func (e *env) spinner(label string) func(context.Context, func(context.Context) error) error {
	return func(ctx context.Context, work func(context.Context) error) error {
		return ui.WithSpinner(ctx, e.opts.Stderr, label, e.styles, work)
	}
}

// RunTheme prints the configured theme, or stores name as the new one.
func RunTheme(opts Options, name string) error {
	opts = opts.withDefaults()
	current := prefs.Load(opts.PrefsPath)

	name = strings.TrimSpace(name)
	if name == "" {
		fmt.Fprintf(opts.Stdout, "%s (available: %s)\n", current.Theme, strings.Join(ui.ThemeNames(), ", "))
		return nil
	}
	if !ui.HasTheme(name) {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ui.ThemeNames(), ", "))
	}
	current.Theme = name
	if err := prefs.Save(opts.PrefsPath, current); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}
