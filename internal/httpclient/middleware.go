package httpclient

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Handler executes an HTTP request.
type Handler func(ctx context.Context, req *http.Request) (*http.Response, error)

// Middleware wraps a Handler.
type Middleware func(Handler) Handler

// LoggingMiddleware logs request and response lines.
func LoggingMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			start := time.Now()
			log.Printf("[HTTP] --> %s %s", req.Method, req.URL.Path)

			resp, err := next(ctx, req)

			duration := time.Since(start)
			if err != nil {
				log.Printf("[HTTP] <-- %s %s (ERROR: %v) [%s]", req.Method, req.URL.Path, err, duration)
			} else {
				log.Printf("[HTTP] <-- %s %s %d [%s]", req.Method, req.URL.Path, resp.StatusCode, duration)
			}
			return resp, err
		}
	}
}

// HeaderMiddleware sets additional headers on every request.
func HeaderMiddleware(headers map[string]string) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *http.Request) (*http.Response, error) {
			for key, value := range headers {
				req.Header.Set(key, value)
			}
			return next(ctx, req)
		}
	}
}
