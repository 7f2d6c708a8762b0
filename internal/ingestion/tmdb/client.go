package tmdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

const (
	// TMDB tolerates around 40 requests per second per key.
	rateLimit = 40
	rateBurst = 40

	maxRetries   = 5
	initialDelay = 1 * time.Second
	maxDelay     = 32 * time.Second
)

// Client wraps the TMDB API with rate limiting and retry on 429 and server
// errors. Requests go through the configured proxy when one is set.
type Client struct {
	baseURL     string
	apiKey      string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	logger      *slog.Logger
}

func NewClient(baseURL, apiKey, proxyURL string, logger *slog.Logger) (*Client, error) {
	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url: %w", err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		rateLimiter: rate.NewLimiter(rate.Limit(rateLimit), rateBurst),
		logger:      logger,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}, nil
}

// DiscoverByYear fetches one page of movies released in the given year,
// sorted by vote average descending.
func (c *Client) DiscoverByYear(ctx context.Context, year, page int) (*DiscoverResponse, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("page", strconv.Itoa(page))
	params.Set("language", "ru-RU")
	params.Set("sort_by", "vote_average.desc")
	params.Set("primary_release_year", strconv.Itoa(year))

	var response DiscoverResponse
	if err := c.doRequest(ctx, "/discover/movie", params, &response); err != nil {
		return nil, fmt.Errorf("discover year %d page %d: %w", year, page, err)
	}
	return &response, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	fullURL := c.baseURL + endpoint + "?" + params.Encode()

	var lastErr error
	delay := initialDelay

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return fmt.Errorf("create request: %w", err)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < maxRetries {
				c.logger.Warn("tmdb request failed, retrying",
					"attempt", attempt+1, "delay", delay, "error", err)
				if !sleepCtx(ctx, delay) {
					return ctx.Err()
				}
				delay = nextDelay(delay)
				continue
			}
			return fmt.Errorf("request failed after %d attempts: %w", maxRetries, err)
		}

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()

			if shouldRetry(resp.StatusCode) && attempt < maxRetries {
				lastErr = fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
				if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
					if seconds, err := strconv.Atoi(retryAfter); err == nil {
						delay = time.Duration(seconds) * time.Second
					}
				}
				c.logger.Warn("tmdb returned retryable status",
					"status", resp.StatusCode, "attempt", attempt+1, "delay", delay)
				if !sleepCtx(ctx, delay) {
					return ctx.Err()
				}
				delay = nextDelay(delay)
				continue
			}
			return fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
		}

		err = json.NewDecoder(resp.Body).Decode(result)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("parse response: %w", err)
		}
		return nil
	}

	return fmt.Errorf("request failed after %d attempts: %w", maxRetries, lastErr)
}

func shouldRetry(statusCode int) bool {
	return statusCode == http.StatusTooManyRequests || statusCode >= 500
}

// nextDelay doubles the backoff with a little jitter, capped at maxDelay.
func nextDelay(current time.Duration) time.Duration {
	next := current*2 + time.Duration(rand.Int63n(int64(time.Second)))
	if next > maxDelay {
		return maxDelay
	}
	return next
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
