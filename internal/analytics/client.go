// Package analytics reads page and visit statistics from a Matomo instance.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/mmynk/billcal/internal/metrics"
)

// Matomo API methods used by the client.
const (
	MethodVisitsSummary = "VisitsSummary.get"
	MethodCountries     = "UserCountry.getCountry"
	MethodPageURLs      = "Actions.getPageUrls"
)

// maxResponseBytes caps how much of a Matomo response is read.
const maxResponseBytes = 10 << 20

var (
	// ErrDisabled is returned when no Matomo URL is configured.
	ErrDisabled = errors.New("analytics is not configured")

	// ErrUnavailable is returned while the circuit breaker is open.
	ErrUnavailable = errors.New("analytics backend unavailable")
)

// APIError is a {"result":"error"} response from Matomo.
type APIError struct {
	Method  string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("matomo %s: %s", e.Method, e.Message)
}

// Config configures a Client.
type Config struct {
	URL    string
	Token  string
	SiteID string

	Timeout         time.Duration
	RatePerSecond   float64
	Burst           int
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// Query selects the reporting window, e.g. period "day" with date "last30".
type Query struct {
	Period string
	Date   string
}

// Client calls the Matomo reporting API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	siteID     string
	timeout    time.Duration
	httpClient *http.Client
	limiter    *rate.Limiter
	cb         *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates a client. A nil httpClient uses http.DefaultClient.
func NewClient(cfg Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	failures := cfg.BreakerFailures
	metrics.AnalyticsBreakerState.Set(0)
	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "matomo",
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			metrics.AnalyticsBreakerState.Set(float64(to))
		},
		// Matomo answering with an error message is not an outage.
		IsSuccessful: func(err error) bool {
			var apiErr *APIError
			return err == nil || errors.As(err, &apiErr) || errors.Is(err, context.Canceled)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		token:      cfg.Token,
		siteID:     cfg.SiteID,
		timeout:    cfg.Timeout,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		cb:         cb,
	}
}

// Enabled reports whether a Matomo URL is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.baseURL != ""
}

// call runs one API method and returns the raw JSON body.
func (c *Client) call(ctx context.Context, method string, q Query) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for rate limiter: %w", err)
	}

	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.post(ctx, method, q)
	})
	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.AnalyticsRequests.WithLabelValues(method, "rejected").Inc()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case err != nil:
		metrics.AnalyticsRequests.WithLabelValues(method, "error").Inc()
		return nil, err
	}
	metrics.AnalyticsRequests.WithLabelValues(method, "ok").Inc()
	return body, nil
}

func (c *Client) post(ctx context.Context, method string, q Query) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	form := url.Values{
		"module":     {"API"},
		"method":     {method},
		"idSite":     {c.siteID},
		"period":     {q.Period},
		"date":       {q.Date},
		"format":     {"JSON"},
		"token_auth": {c.token},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/index.php", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", method, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s response: %w", method, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d", method, resp.StatusCode)
	}

	var status struct {
		Result  string `json:"result"`
		Message string `json:"message"`
	}
	if len(body) > 0 && body[0] == '{' && json.Unmarshal(body, &status) == nil && status.Result == "error" {
		return nil, &APIError{Method: method, Message: status.Message}
	}
	return body, nil
}
