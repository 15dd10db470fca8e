package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/five82/shelfwatch/internal/catalog"
)

// ErrDelivery matches every *DeliveryError.
var ErrDelivery = errors.New("notification delivery failed")

// Notifier announces that a catalogue item became available.
type Notifier interface {
	Name() string
	NotifyAvailable(ctx context.Context, info catalog.Info) error
}

// DeliveryError reports a single failed notification. It is never fatal.
type DeliveryError struct {
	Notifier      string
	CatalogNumber string
	Err           error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("notify %s via %s: %v", e.CatalogNumber, e.Notifier, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

func (e *DeliveryError) Is(target error) bool { return target == ErrDelivery }

// FailureRecorder receives the name of each notifier that failed.
type FailureRecorder interface {
	NotifierFailed(notifier string)
}

// Dispatcher fans a notification out to every registered notifier.
type Dispatcher struct {
	notifiers []Notifier
	logger    *slog.Logger
	failures  FailureRecorder
}

// NewDispatcher returns a dispatcher over notifiers in registration order.
// A nil logger uses slog.Default; failures may be nil.
func NewDispatcher(logger *slog.Logger, failures FailureRecorder, notifiers ...Notifier) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{notifiers: notifiers, logger: logger, failures: failures}
}

// Len reports the number of registered notifiers.
func (d *Dispatcher) Len() int { return len(d.notifiers) }

// Dispatch invokes every notifier. A failing notifier does not stop the
// others; its error is logged, counted and returned as a *DeliveryError.
func (d *Dispatcher) Dispatch(ctx context.Context, info catalog.Info) []error {
	var errs []error
	for _, n := range d.notifiers {
		if err := n.NotifyAvailable(ctx, info); err != nil {
			derr := &DeliveryError{Notifier: n.Name(), CatalogNumber: info.CatalogNumber, Err: err}
			d.logger.Warn("notification failed",
				slog.String("notifier", n.Name()),
				slog.String("catalog_number", info.CatalogNumber),
				slog.Any("error", err))
			if d.failures != nil {
				d.failures.NotifierFailed(n.Name())
			}
			errs = append(errs, derr)
			continue
		}
		d.logger.Info("notification sent",
			slog.String("notifier", n.Name()),
			slog.String("catalog_number", info.CatalogNumber))
	}
	return errs
}
