package session

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

// Require rejects requests without a bearer token and stores the token and actor in the context.
func Require(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ParseBearer(r.Header.Get("Authorization"))
			if token == "" {
				logger.WarnContext(r.Context(), "rejecting request without bearer token",
					"path", r.URL.Path,
				)
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set(InvalidatedHeader, "true")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "missing bearer token"})
				return
			}

			ctx := WithToken(r.Context(), token)
			if actor := strings.TrimSpace(r.Header.Get(ActorHeader)); actor != "" {
				ctx = WithActor(ctx, actor)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
