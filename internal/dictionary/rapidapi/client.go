package rapidapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/at-ishikawa/dictionary-api/internal/apperr"
	"github.com/at-ishikawa/dictionary-api/internal/config"
)

// SourceType names this provider in archived documents.
const SourceType = "rapidapi"

const defaultBreakerFailures = 5

// Observer receives one sample per FetchWord call.
type Observer interface {
	ObserveUpstream(outcome string, d time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveUpstream(string, time.Duration) {}

// StatusError is returned for a non-200 provider response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status code: %d, body: %s", e.StatusCode, e.Body)
}

// Temporary reports whether a later attempt may succeed.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

var errMalformedDocument = errors.New("malformed document")

// Client fetches word documents from WordsAPI on RapidAPI.
type Client struct {
	cfg      config.RapidAPIConfig
	http     *resty.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
	observer Observer
	logger   *slog.Logger
}

type Option func(*Client)

func WithObserver(observer Observer) Option {
	return func(c *Client) {
		if observer != nil {
			c.observer = observer
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

func NewClient(cfg config.RapidAPIConfig, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		observer: noopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.http = resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("X-RapidAPI-Key", cfg.Key).
		SetHeader("X-RapidAPI-Host", cfg.Host)

	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	c.limiter = rate.NewLimiter(limit, max(cfg.Burst, 1))

	failures := cfg.BreakerFailures
	if failures == 0 {
		failures = defaultBreakerFailures
	}
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    SourceType,
		Timeout: cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		IsSuccessful: func(err error) bool {
			// an unknown word is the caller's problem, not the provider's
			var statusErr *StatusError
			return err == nil || (errors.As(err, &statusErr) && !statusErr.Temporary())
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			c.logger.Warn("circuit breaker state changed",
				slog.String("name", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})
	return c
}

func (c *Client) Name() string {
	return SourceType
}

func (c *Client) WordURL(word string) string {
	return strings.TrimSuffix(c.cfg.BaseURL, "/") + "/words/" + url.PathEscape(word)
}

// FetchWord returns the raw document for word. Every failure is an
// apperr.ErrUpstreamUnavailable.
func (c *Client) FetchWord(ctx context.Context, word string) (json.RawMessage, error) {
	startedAt := time.Now()
	body, err := c.fetch(ctx, word)
	if err != nil {
		c.observer.ObserveUpstream(outcome(err), time.Since(startedAt))
		return nil, apperr.Upstream("Word data provider unavailable", err)
	}
	c.observer.ObserveUpstream("ok", time.Since(startedAt))
	return body, nil
}

func (c *Client) fetch(ctx context.Context, word string) (json.RawMessage, error) {
	var body json.RawMessage
	err := retry.Do(
		func() error {
			if err := c.limiter.Wait(ctx); err != nil {
				return retry.Unrecoverable(fmt.Errorf("limiter.Wait > %w", err))
			}
			result, err := c.breaker.Execute(func() (interface{}, error) {
				return c.request(ctx, word)
			})
			if err != nil {
				if !isRetryable(err) {
					return retry.Unrecoverable(err)
				}
				c.logger.DebugContext(ctx, "retrying word lookup", slog.String("word", word), slog.Any("error", err))
				return err
			}
			body = result.(json.RawMessage)
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetries+1),
		retry.Delay(c.cfg.RetryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

func (c *Client) request(ctx context.Context, word string) (json.RawMessage, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetPathParam("word", word).
		Get("/words/{word}")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get > %w", err)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, &StatusError{StatusCode: res.StatusCode(), Body: string(res.Body())}
	}
	if !json.Valid(res.Body()) {
		return nil, errMalformedDocument
	}
	return json.RawMessage(res.Body()), nil
}

func isRetryable(err error) bool {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return statusErr.Temporary()
	case errors.Is(err, gobreaker.ErrOpenState),
		errors.Is(err, gobreaker.ErrTooManyRequests),
		errors.Is(err, errMalformedDocument),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return false
	default:
		return true
	}
}

func outcome(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return "status_error"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "circuit_open"
	default:
		return "error"
	}
}
