package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Config holds the settings for an outbound API client.
type Config struct {
	BaseURL          string
	Timeout          time.Duration
	Headers          map[string]string
	RetryCount       int
	RetryWaitTime    time.Duration
	MaxRetryWaitTime time.Duration
}

func DefaultConfig() *Config {
	return &Config{
		Timeout:          30 * time.Second,
		Headers:          map[string]string{},
		RetryCount:       3,
		RetryWaitTime:    1 * time.Second,
		MaxRetryWaitTime: 30 * time.Second,
	}
}

// Client wraps http.Client with a middleware chain and bounded retries
// on transient failures (network errors, 5xx, 429).
type Client struct {
	httpClient  *http.Client
	config      *Config
	middlewares []Middleware
}

func NewClient(config *Config) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// WithMiddleware appends a middleware to the chain.
func (c *Client) WithMiddleware(middleware Middleware) *Client {
	c.middlewares = append(c.middlewares, middleware)
	return c
}

// Do executes a request through the middleware chain.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	for key, value := range c.config.Headers {
		req.Header.Set(key, value)
	}

	handler := c.executeRequest
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		handler = c.middlewares[i](handler)
	}
	return handler(ctx, req.Clone(ctx))
}

func (c *Client) executeRequest(ctx context.Context, req *http.Request) (*http.Response, error) {
	var resp *http.Response
	var err error
	var retryCount int

	for {
		resp, err = c.httpClient.Do(req)
		if err != nil && ctx.Err() != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}

		if !c.shouldRetry(resp, err) || retryCount >= c.config.RetryCount {
			break
		}
		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retryWaitTime(retryCount)):
		}

		req = req.Clone(ctx)
		retryCount++
	}

	return resp, err
}

func (c *Client) shouldRetry(resp *http.Response, err error) bool {
	if err != nil {
		return true
	}
	return resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
}

// retryWaitTime backs off exponentially, capped by MaxRetryWaitTime.
func (c *Client) retryWaitTime(retryCount int) time.Duration {
	waitTime := c.config.RetryWaitTime * time.Duration(1<<uint(retryCount))
	if waitTime > c.config.MaxRetryWaitTime {
		waitTime = c.config.MaxRetryWaitTime
	}
	return waitTime
}

// NewRequest builds a request against the configured base URL. The body,
// when present, is JSON-encoded.
func (c *Client) NewRequest(ctx context.Context, method, path string, query url.Values, body interface{}) (*http.Request, error) {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("error marshaling body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	fullURL := path
	if c.config.BaseURL != "" && !strings.HasPrefix(path, "http") {
		fullURL = strings.TrimSuffix(c.config.BaseURL, "/") + "/" + strings.TrimPrefix(path, "/")
	}
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// Get performs a GET request, decoding the JSON response into result.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result interface{}) error {
	req, err := c.NewRequest(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return err
	}
	return c.DoRequest(ctx, req, result)
}

// Post performs a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, query url.Values, body, result interface{}) error {
	req, err := c.NewRequest(ctx, http.MethodPost, path, query, body)
	if err != nil {
		return err
	}
	return c.DoRequest(ctx, req, result)
}

// Put performs a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, query url.Values, body, result interface{}) error {
	req, err := c.NewRequest(ctx, http.MethodPut, path, query, body)
	if err != nil {
		return err
	}
	return c.DoRequest(ctx, req, result)
}

// DoRequest executes the request and decodes the JSON response.
func (c *Client) DoRequest(ctx context.Context, req *http.Request, result interface{}) error {
	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return NewAPIError(resp)
	}
	if result == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("error decoding response: %w", err)
	}
	return nil
}
