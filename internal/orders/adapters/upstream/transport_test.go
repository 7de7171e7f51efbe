package upstream_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/require"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/upstream"
	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

func TestSessionGuardInvalidatesOn401(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(ts.Close)

	var calls atomic.Int32
	httpClient := upstream.NewHTTPClient(upstream.TransportConfig{
		OnInvalidated: func(context.Context) { calls.Add(1) },
	})
	client, err := upstream.NewClient(ts.URL, httpClient)
	require.NoError(t, err)

	_, err = client.Complete(session.WithToken(context.Background(), "expired"), "order-1")
	require.ErrorIs(t, err, upstream.ErrSessionInvalidated)
	require.EqualValues(t, 1, calls.Load())
}

func TestRequestIDIsForwarded(t *testing.T) {
	t.Parallel()

	var got string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(middleware.RequestIDHeader)
		_, _ = w.Write([]byte(`{"booking":` + bookingJSON + `}`))
	}))
	t.Cleanup(ts.Close)

	client, err := upstream.NewClient(ts.URL, upstream.NewHTTPClient(upstream.TransportConfig{}))
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	_, err = client.GetOrder(ctx, "order-1")
	require.NoError(t, err)
	require.Equal(t, "req-42", got)
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) upstream.Middleware {
		return func(next http.RoundTripper) http.RoundTripper {
			return roundTripper(func(req *http.Request) (*http.Response, error) {
				order = append(order, name)
				return next.RoundTrip(req)
			})
		}
	}
	base := roundTripper(func(req *http.Request) (*http.Response, error) {
		order = append(order, "base")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})

	rt := upstream.Chain(base, mark("first"), mark("second"))
	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Equal(t, []string{"first", "second", "base"}, order)
}

func TestBearerTokenSkippedWithoutSession(t *testing.T) {
	t.Parallel()

	var auth string
	base := roundTripper(func(req *http.Request) (*http.Response, error) {
		auth = req.Header.Get("Authorization")
		return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody}, nil
	})
	rt := upstream.Chain(base, upstream.BearerToken())

	req := httptest.NewRequest(http.MethodGet, "http://example.test/", nil)
	_, err := rt.RoundTrip(req)
	require.NoError(t, err)
	require.Empty(t, auth)
}

type roundTripper func(*http.Request) (*http.Response, error)

func (f roundTripper) RoundTrip(req *http.Request) (*http.Response, error) { return f(req) }
