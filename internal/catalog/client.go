package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"storefront/internal/domain"
	"storefront/internal/logging"
	"storefront/internal/metrics"
)

const (
	// DefaultBaseURL is the public demo API the catalog is fetched from.
	DefaultBaseURL = "https://dummyjson.com"

	productsPath   = "/products?limit=200"
	categoriesPath = "/products/categories"

	maxBodyBytes = 8 << 20
)

// ClientConfig configures the remote catalog client.
type ClientConfig struct {
	BaseURL string
	// Timeout bounds a whole request. Zero leaves the caller's context as
	// the only bound.
	Timeout time.Duration
	// BreakerFailures is the number of consecutive failures that opens the
	// breaker; BreakerTimeout is how long it stays open.
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// DefaultClientConfig returns the settings used by the api command.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:         DefaultBaseURL,
		BreakerFailures: 5,
		BreakerTimeout:  30 * time.Second,
	}
}

// Client fetches the remote product and category lists. Requests go through
// a circuit breaker so a dead upstream is not hammered on every load.
type Client struct {
	baseURL string
	http    *http.Client
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *zap.Logger
}

// NewClient builds a client. A nil httpClient gets one with cfg.Timeout.
func NewClient(cfg ClientConfig, httpClient *http.Client, logger *zap.Logger) *Client {
	logger = logging.OrNop(logger)
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	const name = "catalog"
	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		IsSuccessful: func(err error) bool {
			// caller cancellation is not an upstream failure
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			metrics.BreakerState.WithLabelValues(name).Set(breakerGauge(to))
		},
	})
	metrics.BreakerState.WithLabelValues(name).Set(0)

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    httpClient,
		breaker: breaker,
		logger:  logger,
	}
}

func breakerGauge(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// Products fetches and normalizes the remote product list.
func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	body, err := c.get(ctx, productsPath)
	if err != nil {
		return nil, err
	}
	products, skipped, err := DecodeProducts(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed remote products", zap.Int("count", skipped))
	}
	return products, nil
}

// Categories fetches and normalizes the remote category list.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	body, err := c.get(ctx, categoriesPath)
	if err != nil {
		return nil, err
	}
	categories, skipped, err := DecodeCategories(body)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		c.logger.Warn("skipped malformed remote categories", zap.Int("count", skipped))
	}
	return categories, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", path, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
			return nil, fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
		}
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return body, nil
	})
}
