package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/five82/shelfwatch/internal/availability"
	"github.com/five82/shelfwatch/internal/catalog"
	"github.com/five82/shelfwatch/internal/metrics"
	"github.com/five82/shelfwatch/internal/ui"
)

// StockOptions configure the stock listing.
type StockOptions struct {
	// AvailableOnly hides shelves whose copies are on loan. Nil uses the
	// user's prefs.
	AvailableOnly *bool
}

// RunStock prints the per-branch stock of bacNo and the best verdict.
func RunStock(ctx context.Context, opts Options, bacNo string, stock StockOptions) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	bacNo = strings.TrimSpace(bacNo)
	if bacNo == "" {
		return errors.New("no BAC number given")
	}

	availableOnly := e.prefs.AvailableOnly
	if stock.AvailableOnly != nil {
		availableOnly = *stock.AvailableOnly
	}

	client, err := e.newClient()
	if err != nil {
		return err
	}
	rec := metrics.New()
	defer e.pushMetrics(rec)
	fetcher := timedFetcher{next: client, metrics: rec}

	var branches []catalog.Branch
	err = ui.WithSpinner(ctx, e.opts.Stderr, "Fetching stock", e.styles, func(ctx context.Context) error {
		var fetchErr error
		branches, fetchErr = fetcher.FetchStock(ctx, bacNo)
		return fetchErr
	})
	rec.Check(err)
	if err != nil {
		return err
	}

	today := e.opts.Now()
	rows := stockRows(branches, today, availableOnly)

	var best *availability.Verdict
	verdict, err := availability.Reduce(availability.FromBranches(branches, today))
	switch {
	case err == nil:
		best = &verdict
	case errors.Is(err, availability.ErrEmptyInput):
		e.logger.Info("no stock entries", slog.String("bac_no", bacNo))
	default:
		return err
	}

	fmt.Fprint(e.opts.Stdout, ui.RenderStock(bacNo, rows, best, e.styles))
	rec.Succeeded(today)
	return nil
}

// stockRows flattens branches into table rows with sanitized due dates.
func stockRows(branches []catalog.Branch, today time.Time, availableOnly bool) []ui.StockRow {
	var rows []ui.StockRow
	for _, b := range branches {
		for _, item := range b.Items {
			status := item.LoanStatus.Status()
			if availableOnly && status != catalog.StatusAvailable {
				continue
			}
			rows = append(rows, ui.StockRow{
				Branch:  b.Name,
				Copies:  b.Copies,
				Shelf:   item.Shelf,
				Status:  status,
				DueDate: availability.SensibleDueDate(item.DueDate, status, today),
			})
		}
	}
	return rows
}
