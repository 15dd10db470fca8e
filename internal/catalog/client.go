package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Fetcher defines the remote catalogue operations used by the app layer.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchCatalogue(ctx context.Context, catalogNumber string) (Info, []Copy, error)
	FetchStock(ctx context.Context, bacNo string) ([]Branch, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the library's WebUserSvc endpoints.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	// DefaultBaseURL is the Hamburg public library web user service.
	DefaultBaseURL   = "https://zones.buecherhallen.de/app_webuser/WebUserSvc.asmx"
	defaultUserAgent = "shelfwatch/0.1"
	// MaxRequestTimeout bounds every request.
	MaxRequestTimeout = 30 * time.Second
	maxBodyBytes      = 8 << 20
)

// NewClient builds a Client for baseURL. A non-positive or oversized timeout
// is clamped to MaxRequestTimeout.
func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 || timeout > MaxRequestTimeout {
		timeout = MaxRequestTimeout
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: timeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchCatalogue queries GetCatalogueItems for one catalogue number.
func (c *Client) FetchCatalogue(ctx context.Context, catalogNumber string) (Info, []Copy, error) {
	if c == nil {
		return Info{}, nil, fmt.Errorf("client is nil")
	}
	catalogNumber = strings.TrimSpace(catalogNumber)
	if catalogNumber == "" {
		return Info{}, nil, fmt.Errorf("catalog number required")
	}
	values := url.Values{}
	values.Set("CatalogueNumber", catalogNumber)

	var (
		info   Info
		copies []Copy
	)
	err := c.get(ctx, "GetCatalogueItems", values, func(body io.Reader) error {
		var perr error
		info, copies, perr = ParseCatalogue(body, catalogNumber)
		return perr
	})
	if err != nil {
		return Info{}, nil, err
	}
	return info, copies, nil
}

// FetchStock queries GetStockStatusInfo with expanded branch info.
func (c *Client) FetchStock(ctx context.Context, bacNo string) ([]Branch, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	bacNo = strings.TrimSpace(bacNo)
	if bacNo == "" {
		return nil, fmt.Errorf("bac number required")
	}
	values := url.Values{}
	values.Set("BacNo", bacNo)
	values.Set("ExpandBranchInfo", "1")

	var branches []Branch
	err := c.get(ctx, "GetStockStatusInfo", values, func(body io.Reader) error {
		var perr error
		branches, perr = ParseStock(body, bacNo)
		return perr
	})
	if err != nil {
		return nil, err
	}
	return branches, nil
}

func (c *Client) get(ctx context.Context, operation string, values url.Values, parse func(io.Reader) error) error {
	reqURL := *c.baseURL
	reqURL.Path = strings.TrimSuffix(reqURL.Path, "/") + "/" + operation
	reqURL.RawQuery = values.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/xml, application/xml")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Endpoint: operation, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return &TransportError{Endpoint: operation, Err: fmt.Errorf("returned status %d", resp.StatusCode)}
	}

	// Read errors, timeouts included, are transport failures, not bad XML.
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return &TransportError{Endpoint: operation, Err: fmt.Errorf("read body: %w", err)}
	}
	if len(data) > maxBodyBytes {
		return &MalformedResponseError{Reason: fmt.Sprintf("body exceeds %d bytes", maxBodyBytes)}
	}
	return parse(bytes.NewReader(data))
}

func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
