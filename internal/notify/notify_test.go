package notify

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	jsoniter "github.com/json-iterator/go"

	"github.com/five82/shelfwatch/internal/catalog"
)

type stubNotifier struct {
	name  string
	err   error
	calls []string
}

func (s *stubNotifier) Name() string { return s.name }

func (s *stubNotifier) NotifyAvailable(_ context.Context, info catalog.Info) error {
	s.calls = append(s.calls, info.CatalogNumber)
	return s.err
}

type countingRecorder struct{ failed []string }

func (c *countingRecorder) NotifierFailed(name string) { c.failed = append(c.failed, name) }

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDispatcher_FailureDoesNotStopLaterNotifiers(t *testing.T) {
	first := &stubNotifier{name: "first", err: errors.New("offline")}
	second := &stubNotifier{name: "second"}
	rec := &countingRecorder{}
	d := NewDispatcher(quietLogger(), rec, first, second)

	errs := d.Dispatch(context.Background(), catalog.Info{CatalogNumber: "T1", Title: "Dune"})
	if len(errs) != 1 {
		t.Fatalf("Dispatch errors = %v, want 1", errs)
	}
	if len(second.calls) != 1 {
		t.Fatalf("second notifier calls = %d, want 1", len(second.calls))
	}

	var derr *DeliveryError
	if !errors.As(errs[0], &derr) {
		t.Fatalf("error %T is not *DeliveryError", errs[0])
	}
	if derr.Notifier != "first" || derr.CatalogNumber != "T1" {
		t.Fatalf("DeliveryError = %#v", derr)
	}
	if !errors.Is(errs[0], ErrDelivery) {
		t.Fatalf("errors.Is(err, ErrDelivery) = false")
	}
	if len(rec.failed) != 1 || rec.failed[0] != "first" {
		t.Fatalf("recorded failures = %v, want [first]", rec.failed)
	}
}

func TestDispatcher_NoNotifiers(t *testing.T) {
	d := NewDispatcher(nil, nil)
	if errs := d.Dispatch(context.Background(), catalog.Info{}); len(errs) != 0 {
		t.Fatalf("Dispatch errors = %v, want none", errs)
	}
	if d.Len() != 0 {
		t.Fatalf("Len = %d, want 0", d.Len())
	}
}

func TestConsole_WritesMessage(t *testing.T) {
	var buf bytes.Buffer
	c := &Console{Out: &buf, Style: lipgloss.NewStyle()}
	if err := c.NotifyAvailable(context.Background(), catalog.Info{CatalogNumber: "T1", Title: "Der Schwarm"}); err != nil {
		t.Fatalf("NotifyAvailable returned error: %v", err)
	}
	want := "Book 'Der Schwarm' is available. Go get it now!"
	if !strings.Contains(buf.String(), want) {
		t.Fatalf("output = %q, want it to contain %q", buf.String(), want)
	}
}

func TestMessage_FallsBackToCatalogNumber(t *testing.T) {
	if got := Message(catalog.Info{CatalogNumber: "T9"}); got != "Book 'T9' is available. Go get it now!" {
		t.Fatalf("Message = %q", got)
	}
}

func TestWebhook_PostsIFTTTPayload(t *testing.T) {
	var (
		gotPath string
		gotType string
		got     Payload
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		if err := jsoniter.Unmarshal(body, &got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w, err := NewWebhook(srv.URL, "hhpl", "secret", "")
	if err != nil {
		t.Fatalf("NewWebhook returned error: %v", err)
	}
	info := catalog.Info{CatalogNumber: "T012345678", Title: "Der Schwarm"}
	if err := w.NotifyAvailable(context.Background(), info); err != nil {
		t.Fatalf("NotifyAvailable returned error: %v", err)
	}

	if gotPath != "/trigger/hhpl/with/key/secret" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotType != "application/json" {
		t.Fatalf("Content-Type = %q", gotType)
	}
	want := Payload{
		Value1: "Book available",
		Value2: "Book 'Der Schwarm' is available!",
		Value3: "https://www.buecherhallen.de/suchergebnis-detail/medium/T012345678.html",
	}
	if got != want {
		t.Fatalf("payload = %#v, want %#v", got, want)
	}
}

func TestWebhook_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad key", http.StatusUnauthorized)
	}))
	defer srv.Close()

	w, err := NewWebhook(srv.URL, "hhpl", "secret", "https://example.org/%s")
	if err != nil {
		t.Fatalf("NewWebhook returned error: %v", err)
	}
	err = w.NotifyAvailable(context.Background(), catalog.Info{CatalogNumber: "T1"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("NotifyAvailable error = %v, want 401", err)
	}
	if w.Link("T1") != "https://example.org/T1" {
		t.Fatalf("Link = %q", w.Link("T1"))
	}
}

func TestWebhook_TransportErrorHidesKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	w, err := NewWebhook(base, "hhpl", "topsecret", "")
	if err != nil {
		t.Fatalf("NewWebhook returned error: %v", err)
	}
	err = w.NotifyAvailable(context.Background(), catalog.Info{CatalogNumber: "T1"})
	if err == nil {
		t.Fatalf("NotifyAvailable returned nil error for closed server")
	}
	if strings.Contains(err.Error(), "topsecret") {
		t.Fatalf("error leaks key: %v", err)
	}
}

func TestNewWebhook_RequiresKeyAndEvent(t *testing.T) {
	if _, err := NewWebhook("", "hhpl", " ", ""); err == nil {
		t.Fatalf("NewWebhook without key returned nil error")
	}
	if _, err := NewWebhook("", "", "k", ""); err == nil {
		t.Fatalf("NewWebhook without event returned nil error")
	}
}
