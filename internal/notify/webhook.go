package notify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/five82/shelfwatch/internal/catalog"
)

const (
	// DefaultWebhookBase is the IFTTT Maker trigger endpoint.
	DefaultWebhookBase = "https://maker.ifttt.com"
	// DefaultLinkTemplate points at the public catalogue page of an item.
	DefaultLinkTemplate = "https://www.buecherhallen.de/suchergebnis-detail/medium/%s.html"

	webhookTimeout = 10 * time.Second
)

// Payload is the IFTTT Maker body.
type Payload struct {
	Value1 string `json:"value1"`
	Value2 string `json:"value2"`
	Value3 string `json:"value3"`
}

// Webhook posts availability events to an IFTTT Maker applet.
type Webhook struct {
	base         string
	event        string
	key          string
	linkTemplate string
	http         *http.Client
}

// NewWebhook builds the IFTTT notifier. base may be empty.
func NewWebhook(base, event, key, linkTemplate string) (*Webhook, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("webhook key required")
	}
	if strings.TrimSpace(event) == "" {
		return nil, fmt.Errorf("webhook event required")
	}
	if strings.TrimSpace(base) == "" {
		base = DefaultWebhookBase
	}
	if strings.TrimSpace(linkTemplate) == "" {
		linkTemplate = DefaultLinkTemplate
	}
	return &Webhook{
		base:         strings.TrimRight(base, "/"),
		event:        event,
		key:          key,
		linkTemplate: linkTemplate,
		http:         &http.Client{Timeout: webhookTimeout},
	}, nil
}

func (w *Webhook) Name() string { return "ifttt" }

// Link returns the catalogue page for a catalogue number.
func (w *Webhook) Link(catalogNumber string) string {
	return fmt.Sprintf(w.linkTemplate, catalogNumber)
}

// PayloadFor builds the body sent for info.
func (w *Webhook) PayloadFor(info catalog.Info) Payload {
	return Payload{
		Value1: "Book available",
		Value2: fmt.Sprintf("Book '%s' is available!", titleOf(info)),
		Value3: w.Link(info.CatalogNumber),
	}
}

func (w *Webhook) NotifyAvailable(ctx context.Context, info catalog.Info) error {
	body, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(w.PayloadFor(info))
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	endpoint := w.base + "/trigger/" + url.PathEscape(w.event) + "/with/key/" + url.PathEscape(w.key)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		// The key is part of the URL; keep it out of the error text.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("webhook returned %s", resp.Status)
	}
	return nil
}
