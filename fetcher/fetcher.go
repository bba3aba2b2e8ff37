// Package fetcher retrieves graph resources by IRI with content negotiation.
//
// Every fetch advertises the full list of decodable media types (codec
// registry order, most preferred first), follows redirects up to a
// configurable cap, and decodes the response into a graph.Resource using the
// decoder registered for the response content type. There is no caching:
// every call is a fresh retrieval.
package fetcher

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/c360/semvalid/codec"
	"github.com/c360/semvalid/errors"
	"github.com/c360/semvalid/graph"
	"github.com/c360/semvalid/metric"
	"github.com/c360/semvalid/pkg/retry"
)

// Config holds fetcher settings.
type Config struct {
	// Timeout bounds a single retrieval including redirects and body read.
	Timeout time.Duration `json:"timeout"`

	// MaxRedirects caps redirect following per retrieval.
	MaxRedirects int `json:"max_redirects"`

	// UserAgent identifies the service on outbound requests.
	UserAgent string `json:"user_agent"`

	// RateLimit throttles outbound requests per second across all
	// concurrent validations. Zero disables throttling.
	RateLimit float64 `json:"rate_limit"`

	// RateBurst is the limiter burst size when RateLimit is set.
	RateBurst int `json:"rate_burst"`

	// Retry controls re-attempts for transient transport failures.
	Retry errors.RetryConfig `json:"-"`
}

// DefaultConfig returns production defaults: bounded redirects and a
// per-fetch timeout, since unbounded following and unbounded waits are
// liveness risks.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		MaxRedirects: 10,
		UserAgent:    "semvalid/" + Version,
		Retry:        errors.DefaultRetryConfig(),
	}
}

// Version is stamped into the User-Agent default.
const Version = "0.1.0"

// Fetcher performs content-negotiated retrievals. It holds no per-call
// state; the embedded http.Client pools connections and is safe for
// concurrent use, so one Fetcher serves all concurrent validations.
type Fetcher struct {
	client   *http.Client
	limiter  *rate.Limiter
	retryCfg retry.Config
	accept   string
	agent    string
	metrics  *metric.Metrics
	logger   *slog.Logger
}

// New creates a Fetcher from configuration. A nil metrics disables
// instrumentation.
func New(cfg Config, metrics *metric.Metrics, logger *slog.Logger) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultConfig().MaxRedirects
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if logger == nil {
		logger = slog.Default()
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Timeout: cfg.Timeout,
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errors.ErrTooManyRedirects
			}
			return nil
		},
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Fetcher{
		client:   client,
		limiter:  limiter,
		retryCfg: cfg.Retry.ToRetryConfig(),
		accept:   codec.AcceptHeader(),
		agent:    cfg.UserAgent,
		metrics:  metrics,
		logger:   logger.With("component", "fetcher"),
	}
}

// Fetch retrieves and decodes the resource identified by the given IRI.
// Transient transport failures are retried with backoff; format problems
// (unknown content type, undecodable body) fail immediately.
func (f *Fetcher) Fetch(ctx context.Context, identifier string) (*graph.Resource, error) {
	if identifier == "" {
		return nil, errors.WrapInvalid(errors.ErrMissingConfig, "Fetcher", "Fetch", "empty identifier")
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, errors.WrapTransient(err, "Fetcher", "Fetch", "rate limit wait")
		}
	}

	start := time.Now()
	resource, err := retry.DoWithResult(ctx, f.retryCfg, func() (*graph.Resource, error) {
		return f.fetchOnce(ctx, identifier)
	})
	if f.metrics != nil {
		status := "ok"
		if err != nil {
			status = "error"
		}
		f.metrics.ObserveFetch(status, time.Since(start))
	}
	if err != nil {
		f.logger.Warn("fetch failed",
			"identifier", identifier,
			"duration", time.Since(start),
			"error", err)
		return nil, err
	}

	f.logger.Debug("fetched resource",
		"identifier", identifier,
		"content_type", resource.ContentType,
		"triples", resource.Graph.Len(),
		"duration", time.Since(start))
	return resource, nil
}

// fetchOnce performs one retrieval attempt. Errors it marks non-retryable
// abort the retry loop: format problems and redirect loops do not get better
// on a second try.
func (f *Fetcher) fetchOnce(ctx context.Context, identifier string) (*graph.Resource, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, identifier, nil)
	if err != nil {
		return nil, retry.NonRetryable(
			errors.WrapInvalid(err, "Fetcher", "Fetch", "request build"))
	}
	req.Header.Set("Accept", f.accept)
	req.Header.Set("User-Agent", f.agent)

	resp, err := f.client.Do(req)
	if err != nil {
		if stderrors.Is(err, errors.ErrTooManyRedirects) {
			return nil, retry.NonRetryable(
				errors.WrapInvalid(errors.ErrTooManyRedirects, "Fetcher", "Fetch", identifier))
		}
		wrapped := errors.Wrap(err, "Fetcher", "Fetch", "request")
		return nil, errors.WrapTransient(errors.ErrFetchFailed, "Fetcher", "Fetch", wrapped.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("%s returned status %d", identifier, resp.StatusCode)
		if resp.StatusCode >= 500 {
			return nil, errors.WrapTransient(errors.ErrFetchFailed, "Fetcher", "Fetch", msg)
		}
		return nil, retry.NonRetryable(
			errors.WrapTransient(errors.ErrFetchFailed, "Fetcher", "Fetch", msg))
	}

	contentType := resp.Header.Get("Content-Type")
	format, ok := codec.Match(contentType)
	if !ok {
		return nil, retry.NonRetryable(errors.WrapInvalid(errors.ErrUnsupportedFormat,
			"Fetcher", "Fetch", fmt.Sprintf("%s served as %q", identifier, contentType)))
	}

	// A 2xx with no body is indistinguishable from a truncated response,
	// so it is treated as transient and retried.
	body := bufio.NewReader(resp.Body)
	if _, err := body.Peek(1); err != nil {
		return nil, errors.WrapTransient(errors.ErrEmptyResponse, "Fetcher", "Fetch", identifier)
	}

	g, err := codec.Decode(body, format)
	if err != nil {
		return nil, retry.NonRetryable(err)
	}

	return &graph.Resource{
		ID:          identifier,
		ContentType: format.MediaType(),
		Graph:       g,
	}, nil
}
