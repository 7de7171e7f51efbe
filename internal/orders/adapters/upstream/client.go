// Package upstream implements ports.OrderGateway against the e-commerce order service.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// IdempotencyHeader carries the refund idempotency key.
const IdempotencyHeader = "Idempotency-Key"

// HTTPClient matches the subset of http.Client used by Client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// Client talks to the order service REST endpoints. Credentials are injected by the transport.
type Client struct {
	base   *url.URL
	client HTTPClient
}

var _ ports.OrderGateway = (*Client)(nil)

// NewClient constructs a gateway rooted at baseURL.
func NewClient(baseURL string, client HTTPClient) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("upstream: base URL is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("upstream: parse base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{base: parsed, client: client}, nil
}

type orderEnvelope struct {
	Booking *domain.Order  `json:"booking"`
	Refund  *domain.Refund `json:"refund"`
}

type orderListEnvelope struct {
	Bookings   *[]domain.Order   `json:"bookings"`
	Pagination *ports.Pagination `json:"pagination"`
	Stats      *domain.Stats     `json:"stats"`
}

type refundListEnvelope struct {
	Refunds    *[]domain.Refund        `json:"refunds"`
	Pagination *ports.Pagination       `json:"pagination"`
	Analytics  *domain.RefundAnalytics `json:"analytics"`
}

func (c *Client) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	req, err := c.newRequest(ctx, http.MethodGet, orderPath("booking", id), nil)
	if err != nil {
		return nil, err
	}
	var env orderEnvelope
	if err := c.send(req, &env); err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, malformed("booking")
	}
	return env.Booking, nil
}

func (c *Client) ListOrders(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	return c.listOrders(ctx, "bookings?"+query.Values().Encode())
}

func (c *Client) ListCancelled(ctx context.Context, query ports.ListQuery) (*ports.OrderPage, error) {
	return c.listOrders(ctx, "getCancelledOrders?"+query.CancelledValues().Encode())
}

func (c *Client) listOrders(ctx context.Context, path string) (*ports.OrderPage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var env orderListEnvelope
	if err := c.send(req, &env); err != nil {
		return nil, err
	}
	if env.Bookings == nil {
		return nil, malformed("bookings")
	}
	if env.Pagination == nil {
		return nil, malformed("pagination")
	}
	return &ports.OrderPage{Orders: *env.Bookings, Pagination: *env.Pagination, Stats: env.Stats}, nil
}

func (c *Client) ListRefunds(ctx context.Context, query ports.ListQuery) (*ports.RefundPage, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "getAllRefunds?"+query.Values().Encode(), nil)
	if err != nil {
		return nil, err
	}
	var env refundListEnvelope
	if err := c.send(req, &env); err != nil {
		return nil, err
	}
	if env.Refunds == nil {
		return nil, malformed("refunds")
	}
	if env.Pagination == nil {
		return nil, malformed("pagination")
	}
	return &ports.RefundPage{Refunds: *env.Refunds, Pagination: *env.Pagination, Analytics: env.Analytics}, nil
}

func (c *Client) UpdateStatus(ctx context.Context, id string, body ports.UpdateStatusRequest) (*domain.Order, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPut, orderPath("booking/status", id), body)
	if err != nil {
		return nil, err
	}
	return c.mutate(req)
}

func (c *Client) Complete(ctx context.Context, id string) (*domain.Order, error) {
	req, err := c.newRequest(ctx, http.MethodPost, orderPath("booking/complete", id), nil)
	if err != nil {
		return nil, err
	}
	return c.mutate(req)
}

func (c *Client) Cancel(ctx context.Context, id string, reason string) (*domain.Order, error) {
	body := map[string]string{"cancellationReason": strings.TrimSpace(reason)}
	req, err := c.newJSONRequest(ctx, http.MethodPost, orderPath("cancel/booking", id), body)
	if err != nil {
		return nil, err
	}
	return c.mutate(req)
}

func (c *Client) Refund(ctx context.Context, id string, body ports.RefundRequest) (*ports.RefundResult, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, orderPath("booking/refund", id), body)
	if err != nil {
		return nil, err
	}
	if body.IdempotencyKey != "" {
		req.Header.Set(IdempotencyHeader, body.IdempotencyKey)
	}
	var env orderEnvelope
	if err := c.send(req, &env); err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, malformed("booking")
	}
	if env.Refund == nil {
		return nil, malformed("refund")
	}
	return &ports.RefundResult{Order: *env.Booking, Refund: *env.Refund}, nil
}

func (c *Client) mutate(req *http.Request) (*domain.Order, error) {
	var env orderEnvelope
	if err := c.send(req, &env); err != nil {
		return nil, err
	}
	if env.Booking == nil {
		return nil, malformed("booking")
	}
	return env.Booking, nil
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, ErrSessionInvalidated) {
			return ErrSessionInvalidated
		}
		return fmt.Errorf("upstream: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errorFromResponse(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %v", ErrMalformedResponse, req.Method, req.URL.Path, err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, endpoint string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.resolve(endpoint), body)
	if err != nil {
		return nil, fmt.Errorf("upstream: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) newJSONRequest(ctx context.Context, method, endpoint string, payload any) (*http.Request, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("upstream: encode payload: %w", err)
	}
	req, err := c.newRequest(ctx, method, endpoint, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) resolve(endpoint string) string {
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return c.base.String()
	}
	return c.base.ResolveReference(ref).String()
}

func orderPath(prefix, id string) string {
	return path.Join(prefix, url.PathEscape(strings.TrimSpace(id)))
}

func errorFromResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	upstreamErr := &Error{StatusCode: resp.StatusCode, Message: ResolveMessage(body)}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %w", ports.ErrNotFound, upstreamErr)
	}
	return upstreamErr
}
