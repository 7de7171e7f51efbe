package http

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app/queries"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
)

// IdempotencyHeader lets the console resubmit a refund without refunding twice.
const IdempotencyHeader = "Idempotency-Key"

// Handler exposes HTTP endpoints for order operations.
type Handler struct {
	service *app.Service
	logger  *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(service *app.Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register binds the order handlers under /v1.
func (h *Handler) Register(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		r.Get("/orders", h.listOrders)
		r.Get("/orders/cancelled", h.listCancelled)
		r.Get("/refunds", h.listRefunds)

		r.Route("/orders/{id}", func(r chi.Router) {
			r.Get("/", h.getOrder)
			r.Put("/status", h.updateStatus)
			r.Post("/complete", h.completeOrder)
			r.Post("/cancel", h.cancelOrder)
			r.Post("/refund", h.processRefund)
			r.Get("/audit", h.auditTrail)
		})
	})
}

type mutationResponse struct {
	Order         domain.Order   `json:"order"`
	Refund        *domain.Refund `json:"refund,omitempty"`
	RefundPending bool           `json:"refundPending"`
}

func newMutationResponse(outcome *app.Outcome) mutationResponse {
	return mutationResponse{Order: outcome.Order, Refund: outcome.Refund, RefundPending: outcome.RefundPending}
}

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, page, err := h.window(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	filter := queries.NewOrderFilter(limit)
	if err := filter.SetStatus(q.Get("status")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if err := filter.SetPaymentStatus(q.Get("paymentStatus")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	filter.SetSearch(q.Get("search"))
	filter.SetPage(page)

	result, err := h.service.ListOrders(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listCancelled(w http.ResponseWriter, r *http.Request) {
	limit, page, err := h.window(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	filter := queries.NewCancelledFilter(limit)
	filter.SetSearch(r.URL.Query().Get("search"))
	filter.SetPage(page)

	result, err := h.service.ListCancelled(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) listRefunds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, page, err := h.window(r)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	filter := queries.NewRefundFilter(limit)
	if err := filter.SetStatus(q.Get("status")); err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	filter.SetSearch(q.Get("search"))
	filter.SetPage(page)

	result, err := h.service.ListRefunds(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) updateStatus(w http.ResponseWriter, r *http.Request) {
	var payload app.UpdateStatusInput
	if !h.decode(w, r, &payload) {
		return
	}
	payload.OrderID = chi.URLParam(r, "id")

	outcome, err := h.service.UpdateStatus(r.Context(), payload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMutationResponse(outcome))
}

func (h *Handler) completeOrder(w http.ResponseWriter, r *http.Request) {
	outcome, err := h.service.CompleteOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMutationResponse(outcome))
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	var payload app.CancelOrderInput
	if !h.decode(w, r, &payload) {
		return
	}
	payload.OrderID = chi.URLParam(r, "id")

	outcome, err := h.service.CancelOrder(r.Context(), payload)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newMutationResponse(outcome))
}

func (h *Handler) processRefund(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload app.RefundInput
	if !h.decode(w, r, &payload) {
		return
	}
	payload.OrderID = chi.URLParam(r, "id")
	payload.IdempotencyKey = strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	fingerprint := refundFingerprint(payload)
	key := payload.IdempotencyKey

	if key != "" {
		existing, claimed, err := h.service.ReserveIdempotencyKey(ctx, key, ports.StoredResponse{
			OrderID:     payload.OrderID,
			Fingerprint: fingerprint,
		})
		if err != nil {
			h.writeServiceError(w, r, err)
			return
		}
		if !claimed {
			h.replayRefund(w, r, key, fingerprint, existing)
			return
		}
	}

	outcome, err := h.service.ProcessRefund(ctx, payload)
	if err != nil {
		if key != "" {
			// Only successes are kept; a failed attempt may be retried with the same key.
			if releaseErr := h.service.ReleaseIdempotencyKey(context.WithoutCancel(ctx), key); releaseErr != nil {
				h.logger.ErrorContext(ctx, "failed to release idempotency key",
					"order_id", payload.OrderID,
					"idempotency_key", key,
					"error", releaseErr,
				)
			}
		}
		h.writeServiceError(w, r, err)
		return
	}

	body, err := json.Marshal(newMutationResponse(outcome))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	if key != "" {
		stored := ports.StoredResponse{
			StatusCode:  http.StatusOK,
			Body:        body,
			OrderID:     payload.OrderID,
			Fingerprint: fingerprint,
		}
		if err := h.service.CompleteIdempotencyKey(context.WithoutCancel(ctx), key, stored); err != nil {
			h.logger.ErrorContext(ctx, "failed to store refund response",
				"order_id", payload.OrderID,
				"idempotency_key", key,
				"error", err,
			)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// replayRefund answers a submission whose key is already held by an earlier one.
func (h *Handler) replayRefund(w http.ResponseWriter, r *http.Request, key, fingerprint string, stored *ports.StoredResponse) {
	if stored.Fingerprint != fingerprint {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error": "Idempotency-Key was already used for a different refund request",
		})
		return
	}
	if stored.Pending() {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      "A refund with this Idempotency-Key is still being processed",
			"inProgress": true,
		})
		return
	}

	h.logger.InfoContext(r.Context(), "replaying refund response",
		"order_id", stored.OrderID,
		"idempotency_key", key,
	)
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(stored.StatusCode)
	_, _ = w.Write(stored.Body)
}

func (h *Handler) auditTrail(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			h.writeServiceError(w, r, queryError("limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.AuditTrail(r.Context(), chi.URLParam(r, "id"), limit)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	if entries == nil {
		entries = []ports.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}

// window reads limit and page, defaulting to the configured page size and the first page.
func (h *Handler) window(r *http.Request) (limit, page int, err error) {
	q := r.URL.Query()
	limit, page = h.service.PageSize(), 1
	if raw := q.Get("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil || limit < 1 {
			return 0, 0, queryError("limit", "limit must be a positive integer")
		}
	}
	if raw := q.Get("page"); raw != "" {
		if page, err = strconv.Atoi(raw); err != nil {
			return 0, 0, queryError("page", "page must be an integer")
		}
	}
	return limit, page, nil
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if r.Body == nil || r.ContentLength == 0 {
		return true
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON payload")
		return false
	}
	return true
}

func refundFingerprint(in app.RefundInput) string {
	sum := sha256.Sum256([]byte(in.OrderID + "\x00" + in.Amount.String() + "\x00" + strings.TrimSpace(in.Reason)))
	return hex.EncodeToString(sum[:])
}

func queryError(field, message string) error {
	return &domain.ValidationError{Message: "invalid query", FieldErrors: map[string]string{field: message}}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}
