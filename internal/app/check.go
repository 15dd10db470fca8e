package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/five82/shelfwatch/internal/availability"
	"github.com/five82/shelfwatch/internal/catalog"
	"github.com/five82/shelfwatch/internal/metrics"
	"github.com/five82/shelfwatch/internal/notify"
	"github.com/five82/shelfwatch/internal/state"
)

// ItemReport describes the outcome for one catalogue number.
type ItemReport struct {
	Info       catalog.Info
	Verdict    availability.Verdict
	Transition state.Transition
	Changed    bool
	Notified   bool
	Delivery   []error // non-fatal notifier failures
}

// Report is the outcome of one check run, in argument order.
type Report struct {
	Items []ItemReport
}

// Checker runs the transition check against injected dependencies.
type Checker struct {
	Fetcher     catalog.Fetcher
	Backend     state.Backend
	Dispatcher  *notify.Dispatcher
	Metrics     *metrics.Recorder
	Logger      *slog.Logger
	Now         Clock
	Concurrency int
	Limiter     *rate.Limiter
	// Spin wraps the network phase, e.g. with a terminal spinner. Optional.
	Spin func(ctx context.Context, work func(context.Context) error) error
}

// Check fetches every catalogue number, reduces each to one verdict, records
// the verdicts and notifies on transitions into available. State is saved
// exactly once, after every item has been diffed. Nothing is saved when a
// fetch, parse or reduction fails.
func (c *Checker) Check(ctx context.Context, ids []string) (Report, error) {
	logger := c.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return Report{}, fmt.Errorf("no catalogue numbers given")
	}

	st, err := c.Backend.Load(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("load state: %w", err)
	}

	var results []catalogueResult
	fetch := func(ctx context.Context) error {
		var err error
		results, err = fetchAll(ctx, c.Fetcher, ids, c.Concurrency, c.Limiter, c.Metrics, logger)
		return err
	}
	if c.Spin != nil {
		err = c.Spin(ctx, fetch)
	} else {
		err = fetch(ctx)
	}
	if err != nil {
		return Report{}, err
	}

	checkedAt := now()
	report := Report{Items: make([]ItemReport, len(ids))}
	for i, res := range results {
		verdict, err := availability.Reduce(availability.FromCopies(res.Copies, checkedAt))
		if err != nil {
			return Report{}, fmt.Errorf("reduce %s: %w", ids[i], err)
		}
		report.Items[i] = ItemReport{Info: res.Info, Verdict: verdict}
	}

	for i, id := range ids {
		item := &report.Items[i]
		if item.Info.CatalogNumber == "" {
			item.Info.CatalogNumber = id
		}
		item.Transition, item.Changed = st.RecordAndDiff(id, item.Verdict.Status, checkedAt)

		attrs := []any{
			slog.String("catalog_number", id),
			slog.String("title", item.Info.Title),
			slog.String("status", item.Verdict.Status.String()),
		}
		if !item.Verdict.DueDate.IsZero() {
			attrs = append(attrs, slog.String("due", item.Verdict.DueDate.Format(catalog.DateLayout)))
		}
		if !item.Changed {
			logger.Info("status unchanged", attrs...)
			continue
		}

		c.Metrics.Transition(item.Transition.New.String())
		logger.Info("status changed", append(attrs, slog.String("from", item.Transition.Old.String()))...)

		if item.Transition.BecameAvailable() && c.Dispatcher != nil {
			item.Delivery = c.Dispatcher.Dispatch(ctx, item.Info)
			item.Notified = true
		}
	}

	if err := c.Backend.Save(ctx, st); err != nil {
		return report, fmt.Errorf("save state: %w", err)
	}
	c.Metrics.Succeeded(checkedAt)
	return report, nil
}

// RunCheck loads configuration and runs a single check for ids.
func RunCheck(ctx context.Context, opts Options, ids []string) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	_, err = e.check(ctx, ids)
	return err
}

func (e *env) check(ctx context.Context, ids []string) (Report, error) {
	rec := metrics.New()
	defer e.pushMetrics(rec)

	client, err := e.newClient()
	if err != nil {
		return Report{}, err
	}
	backend, err := e.openBackend(ctx)
	if err != nil {
		return Report{}, err
	}
	defer backend.Close()

	dispatcher, err := e.newDispatcher(rec)
	if err != nil {
		return Report{}, err
	}

	checker := &Checker{
		Fetcher:     timedFetcher{next: client, metrics: rec},
		Backend:     backend,
		Dispatcher:  dispatcher,
		Metrics:     rec,
		Logger:      e.logger,
		Now:         e.opts.Now,
		Concurrency: e.cfg.Concurrency,
		Limiter:     newLimiter(e.cfg.RequestsPerSecond),
		Spin:        e.spinner("Checking catalogue"),
	}

	report, err := checker.Check(ctx, ids)
	if err != nil {
		if errors.Is(err, state.ErrCorrupt) {
			e.logger.Error("state is corrupted; refusing to overwrite", slog.Any("error", err))
		}
		return report, err
	}
	return report, nil
}

func (e *env) pushMetrics(rec *metrics.Recorder) {
	if e.cfg.Metrics.PushgatewayURL == "" {
		return
	}
	// Push with a fresh context so a cancelled run still reports.
	ctx, cancel := context.WithTimeout(context.Background(), e.cfg.RequestTimeout)
	defer cancel()
	if err := rec.Push(ctx, e.cfg.Metrics.PushgatewayURL, e.cfg.Metrics.Job); err != nil {
		e.logger.Warn("metrics push failed", slog.Any("error", err))
	}
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
