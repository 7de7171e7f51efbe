package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/adapters/upstream"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/app"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/domain"
	"github.com/samadhanbodkhe/gudworld-admin/internal/orders/ports"
	"github.com/samadhanbodkhe/gudworld-admin/internal/session"
)

// errorBody maps an application error onto a status code and JSON payload.
func errorBody(err error) (int, map[string]any) {
	var (
		validation  *domain.ValidationError
		transition  *domain.TransitionError
		busy        *app.BusyError
		upstreamErr *upstream.Error
	)

	switch {
	case errors.As(err, &validation):
		body := map[string]any{"error": validation.Error()}
		if len(validation.FieldErrors) > 0 {
			body["fieldErrors"] = validation.FieldErrors
		}
		return http.StatusUnprocessableEntity, body
	case errors.As(err, &busy):
		return http.StatusConflict, map[string]any{"error": err.Error(), "busy": true, "pending": busy.Pending}
	case errors.As(err, &transition), errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrTerminalStatus):
		return http.StatusConflict, map[string]any{"error": err.Error()}
	case errors.Is(err, upstream.ErrSessionInvalidated):
		return http.StatusUnauthorized, map[string]any{"error": "session expired, sign in again"}
	case errors.Is(err, ports.ErrNotFound):
		return http.StatusNotFound, map[string]any{"error": "order not found"}
	case errors.As(err, &upstreamErr):
		return http.StatusBadGateway, map[string]any{"error": upstreamErr.Message}
	case errors.Is(err, upstream.ErrMalformedResponse):
		return http.StatusBadGateway, map[string]any{"error": "unexpected response from order service"}
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, map[string]any{"error": "order service timed out"}
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable, map[string]any{"error": "request cancelled"}
	default:
		return http.StatusInternalServerError, map[string]any{"error": upstream.GenericMessage}
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := errorBody(err)
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"error", err,
		)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set(session.InvalidatedHeader, "true")
	}
	writeJSON(w, status, body)
}
