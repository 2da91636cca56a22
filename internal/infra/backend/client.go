// Package backend provides the HTTP client for the catalog backend API.
//
// The backend authenticates through a session cookie set at login; every
// request carries the cookie jar. Non-2xx responses map onto *APIError,
// network failures are wrapped and retried with exponential backoff.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	zlog "github.com/rs/zerolog/log"
	"golang.org/x/net/publicsuffix"
)

const baseRetryWait = 500 * time.Millisecond

// Config represents backend client configuration.
type Config struct {
	BaseURL    string        // API base URL, e.g. http://localhost:8080
	Timeout    time.Duration // Per-request timeout (0 means 30s)
	MaxRetries int           // Retries on network errors and 5xx responses
}

// Client is a cookie-authenticated catalog API client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	maxRetries int
	instanceID string // Per-process client ID, sent as X-Client-Id

	// onUnauthorized is invoked whenever any request returns 401.
	// The UI shell installs its login redirect here.
	onUnauthorized func()
}

// New creates a new backend client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, errors.Wrap(err, "invalid backend base URL")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cookie jar")
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		httpClient: &http.Client{Jar: jar, Timeout: timeout},
		baseURL:    cfg.BaseURL,
		maxRetries: cfg.MaxRetries,
		instanceID: uuid.New().String(),
	}, nil
}

// SetUnauthorizedHook installs the callback invoked on any 401 response.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, path string, result any) error {
	return c.request(ctx, http.MethodGet, path, nil, result)
}

// post performs a POST request with an optional JSON body.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	return c.request(ctx, http.MethodPost, path, body, result)
}

// del performs a DELETE request.
func (c *Client) del(ctx context.Context, path string) error {
	return c.request(ctx, http.MethodDelete, path, nil, nil)
}

// errorBody is the backend's error payload shape.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) request(ctx context.Context, method, path string, body, result any) error {
	var jsonBody []byte
	if body != nil {
		var err error
		jsonBody, err = json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "failed to marshal request body")
		}
	}

	fullURL := c.baseURL + path
	zlog.Debug().Msgf("backend: %s %s", method, fullURL)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := baseRetryWait * time.Duration(1<<(attempt-1))
			zlog.Debug().Msgf("backend: retry %d/%d after %v: %v", attempt, c.maxRetries, wait, lastErr)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}

		var bodyReader io.Reader
		if jsonBody != nil {
			bodyReader = bytes.NewReader(jsonBody)
		}

		req, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
		if err != nil {
			return errors.Wrap(err, "failed to create request")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Client-Id", c.instanceID)
		if jsonBody != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network failure: request never completed. Retryable.
			lastErr = errors.Wrap(err, "request failed")
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			lastErr = errors.Wrap(err, "failed to read response")
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = apiErrorFrom(resp.StatusCode, respBody)
			zlog.Debug().Msgf("backend: server error, will retry: %v", lastErr)
			continue
		}

		if resp.StatusCode >= 400 {
			apiErr := apiErrorFrom(resp.StatusCode, respBody)
			if resp.StatusCode == http.StatusUnauthorized && c.onUnauthorized != nil {
				c.onUnauthorized()
			}
			return apiErr
		}

		if result != nil && len(respBody) > 0 {
			if err := json.Unmarshal(respBody, result); err != nil {
				return errors.Wrap(err, "failed to parse response")
			}
		}
		return nil
	}

	return errors.Wrapf(lastErr, "request failed after %d retries", c.maxRetries)
}

// apiErrorFrom builds an *APIError from a response, picking up the server
// message when the body carries one.
func apiErrorFrom(status int, body []byte) *APIError {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err == nil {
		if eb.Message != "" {
			return &APIError{Status: status, Message: eb.Message}
		}
		if eb.Error != "" {
			return &APIError{Status: status, Message: eb.Error}
		}
	}
	return &APIError{Status: status}
}

// queryPath builds path?q=... with proper escaping.
func queryPath(path, query string) string {
	v := url.Values{}
	v.Set("q", query)
	return path + "?" + v.Encode()
}
