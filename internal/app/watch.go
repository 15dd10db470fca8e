package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/five82/shelfwatch/internal/state"
)

const minWatchInterval = time.Minute

// RunWatch repeats the check for ids every interval until ctx is cancelled.
// Failed rounds are logged and retried on the next tick, except corrupted
// state, which stops the loop.
func RunWatch(ctx context.Context, opts Options, ids []string, every time.Duration) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	if every < minWatchInterval {
		every = minWatchInterval
	}
	return e.watch(ctx, ids, every)
}

func (e *env) watch(ctx context.Context, ids []string, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	e.logger.Info("watching", slog.Int("items", len(ids)), slog.Duration("every", every))
	for {
		if _, err := e.check(ctx, ids); err != nil {
			if errors.Is(err, state.ErrCorrupt) {
				return err
			}
			if ctx.Err() != nil {
				return nil
			}
			e.logger.Warn("check failed; retrying next round", slog.Any("error", err))
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
