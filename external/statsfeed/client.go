package statsfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/futpeak/futpeak-engine/internal/domain/athlete"
	"github.com/futpeak/futpeak-engine/internal/domain/matchlog"
	"github.com/futpeak/futpeak-engine/internal/platform/logging"
	"github.com/futpeak/futpeak-engine/internal/platform/resilience"
	"github.com/futpeak/futpeak-engine/internal/usecase"
)

const (
	defaultBaseURL     = "https://feed.futpeak.io/v1"
	maxResponseBytes   = 6 << 20
	defaultHTTPTimeout = 20 * time.Second
)

var errStatsFeedTransient = crerr.New("stats feed transient failure")

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	APIKey         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.BreakerConfig
}

// Client fetches athlete profiles and match logs from the hosted stats feed.
// It satisfies both athlete.Repository and matchlog.Repository.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.Breaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultHTTPTimeout
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		apiKey:         strings.TrimSpace(cfg.APIKey),
		maxRetries:     maxRetries,
		logger:         logger,
		breaker:        resilience.NewBreaker(cfg.CircuitBreaker),
		circuitEnabled: cfg.CircuitBreaker.Enabled,
	}
}

func (c *Client) GetByID(ctx context.Context, athleteID string) (athlete.Profile, error) {
	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return athlete.Profile{}, fmt.Errorf("%w: athlete id is required", usecase.ErrInvalidInput)
	}

	var envelope profileEnvelope
	if err := c.doJSON(ctx, "/athletes/"+url.PathEscape(athleteID), &envelope); err != nil {
		if isStatusNotFound(err) {
			return athlete.Profile{}, fmt.Errorf("athlete %s: %w", athleteID, athlete.ErrNotFound)
		}
		return athlete.Profile{}, fmt.Errorf("fetch athlete profile: %w", err)
	}

	return envelope.Data.toDomain(), nil
}

func (c *Client) ListByAthlete(ctx context.Context, athleteID string) ([]matchlog.Record, error) {
	athleteID = strings.TrimSpace(athleteID)
	if athleteID == "" {
		return nil, fmt.Errorf("%w: athlete id is required", usecase.ErrInvalidInput)
	}

	var envelope matchlogEnvelope
	path := "/athletes/" + url.PathEscape(athleteID) + "/matchlogs"
	if err := c.doJSON(ctx, path, &envelope); err != nil {
		if isStatusNotFound(err) {
			return []matchlog.Record{}, nil
		}
		return nil, fmt.Errorf("fetch athlete matchlogs: %w", err)
	}

	out := make([]matchlog.Record, 0, len(envelope.Data))
	for _, row := range envelope.Data {
		rec, ok := row.toDomain(athleteID)
		if !ok {
			c.logger.WarnContext(ctx, "skip matchlog row without played_at", "athlete_id", athleteID)
			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

func (c *Client) doJSON(ctx context.Context, path string, target any) error {
	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			c.logger.WarnContext(ctx, "stats feed circuit breaker rejected request", "state", c.breaker.State())
			return fmt.Errorf("%w: stats feed is temporarily unavailable", usecase.ErrDependencyUnavailable)
		}
	}

	fullURL := c.baseURL + path

	out, err, _ := c.flight.Do(path, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errStatsFeedTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode stats feed payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("authorization", "Bearer "+c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errStatsFeedTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errStatsFeedTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: feed status=%d body=%s", errStatsFeedTransient, resp.StatusCode, abbreviateBody(raw))
			default:
				return nil, &statusError{status: resp.StatusCode, body: abbreviateBody(raw)}
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("stats feed request failed")
	}
	c.logger.WarnContext(ctx, "stats feed request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody drains the response through a pooled buffer so repeated polling
// does not churn large one-off allocations.
func readBody(r io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := buf.ReadFrom(io.LimitReader(r, maxResponseBytes)); err != nil {
		return nil, err
	}
	out := make([]byte, len(buf.B))
	copy(out, buf.B)
	return out, nil
}

type statusError struct {
	status int
	body   string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("feed status=%d body=%s", e.status, e.body)
}

func isStatusNotFound(err error) bool {
	var se *statusError
	return crerr.As(err, &se) && se.status == http.StatusNotFound
}

func isRetryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func abbreviateBody(raw []byte) string {
	const maxLen = 256
	body := strings.TrimSpace(string(raw))
	if len(body) > maxLen {
		return body[:maxLen] + "..."
	}
	return body
}
