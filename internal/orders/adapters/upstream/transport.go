package upstream

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// Middleware decorates a RoundTripper.
type Middleware func(http.RoundTripper) http.RoundTripper

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }

// Chain wraps base so that the first middleware sees the request first.
func Chain(base http.RoundTripper, mws ...Middleware) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	for i := len(mws) - 1; i >= 0; i-- {
		base = mws[i](base)
	}
	return base
}

// Traced propagates trace context and records a client span per request.
func Traced() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return otelhttp.NewTransport(next)
	}
}

// RequestID forwards the inbound chi request id.
func RequestID() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			id := middleware.GetReqID(req.Context())
			if id == "" || req.Header.Get(middleware.RequestIDHeader) != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set(middleware.RequestIDHeader, id)
			return next.RoundTrip(req)
		})
	}
}

// BearerToken injects the session token carried by the request context.
func BearerToken() Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			token := session.Token(req.Context())
			if token == "" || req.Header.Get("Authorization") != "" {
				return next.RoundTrip(req)
			}
			req = req.Clone(req.Context())
			req.Header.Set("Authorization", "Bearer "+token)
			return next.RoundTrip(req)
		})
	}
}

// SessionGuard turns a 401 into ErrSessionInvalidated and calls onInvalidated, if set.
func SessionGuard(onInvalidated func(ctx context.Context)) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.RoundTrip(req)
			if err != nil || resp.StatusCode != http.StatusUnauthorized {
				return resp, err
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
			_ = resp.Body.Close()
			if onInvalidated != nil {
				onInvalidated(req.Context())
			}
			return nil, ErrSessionInvalidated
		})
	}
}

// Instrumented records request latency by method and status code.
func Instrumented(metrics *Metrics) Middleware {
	return func(next http.RoundTripper) http.RoundTripper {
		return roundTripFunc(func(req *http.Request) (*http.Response, error) {
			start := time.Now()
			resp, err := next.RoundTrip(req)
			status := "error"
			if resp != nil {
				status = strconv.Itoa(resp.StatusCode)
			}
			metrics.RecordRequest(req.Context(), req.Method, status, time.Since(start).Seconds())
			return resp, err
		})
	}
}

// TransportConfig configures NewHTTPClient.
type TransportConfig struct {
	Timeout       time.Duration
	Metrics       *Metrics
	OnInvalidated func(ctx context.Context)
	Base          http.RoundTripper
}

// NewHTTPClient builds the client owned by one gateway instance. Nothing is installed globally.
func NewHTTPClient(cfg TransportConfig) *http.Client {
	mws := []Middleware{Traced(), RequestID(), BearerToken(), SessionGuard(cfg.OnInvalidated)}
	if cfg.Metrics != nil {
		mws = append(mws, Instrumented(cfg.Metrics))
	}
	return &http.Client{
		Timeout:   cfg.Timeout,
		Transport: Chain(cfg.Base, mws...),
	}
}
