package app

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/five82/shelfwatch/internal/catalog"
	"github.com/five82/shelfwatch/internal/metrics"
)

const defaultConcurrency = 4

// catalogueResult is one fetched catalogue entry.
type catalogueResult struct {
	Info   catalog.Info
	Copies []catalog.Copy
}

// timedFetcher records request durations for every call.
type timedFetcher struct {
	next    catalog.Fetcher
	metrics *metrics.Recorder
}

func (f timedFetcher) FetchCatalogue(ctx context.Context, catalogNumber string) (catalog.Info, []catalog.Copy, error) {
	start := time.Now()
	info, copies, err := f.next.FetchCatalogue(ctx, catalogNumber)
	f.metrics.ObserveFetch("GetCatalogueItems", time.Since(start))
	return info, copies, err
}

func (f timedFetcher) FetchStock(ctx context.Context, bacNo string) ([]catalog.Branch, error) {
	start := time.Now()
	branches, err := f.next.FetchStock(ctx, bacNo)
	f.metrics.ObserveFetch("GetStockStatusInfo", time.Since(start))
	return branches, err
}

// fetchAll requests every catalogue number with at most limit requests in
// flight, paced by limiter when it is non-nil. Results keep the order of ids.
// The first failure cancels the remaining requests.
func fetchAll(ctx context.Context, fetcher catalog.Fetcher, ids []string, limit int, limiter *rate.Limiter, rec *metrics.Recorder, logger *slog.Logger) ([]catalogueResult, error) {
	if limit <= 0 {
		limit = defaultConcurrency
	}
	results := make([]catalogueResult, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, id := range ids {
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return err
				}
			}
			info, copies, err := fetcher.FetchCatalogue(gctx, id)
			rec.Check(err)
			if err != nil {
				logger.Warn("catalogue fetch failed",
					slog.String("catalog_number", id),
					slog.Any("error", err))
				return err
			}
			logger.Debug("catalogue fetched",
				slog.String("catalog_number", id),
				slog.Int("copies", len(copies)))
			results[i] = catalogueResult{Info: info, Copies: copies}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}
