// Package session carries the caller's upstream credential and identity through request contexts.
package session

import (
	"context"
	"strings"
)

type contextKey int

const (
	tokenKey contextKey = iota
	actorKey
)

// ActorHeader names the header the console uses to identify the staff member acting.
const ActorHeader = "X-Admin-Actor"

// InvalidatedHeader is set on responses when the upstream rejected the session.
const InvalidatedHeader = "X-Session-Invalidated"

// WithToken attaches the bearer token forwarded to the upstream service.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// Token returns the bearer token or an empty string.
func Token(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

// WithActor attaches the acting staff member.
func WithActor(ctx context.Context, actor string) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// Actor returns the acting staff member, or "admin" when the console did not say.
func Actor(ctx context.Context) string {
	if actor, _ := ctx.Value(actorKey).(string); actor != "" {
		return actor
	}
	return "admin"
}

// ParseBearer extracts the token from an Authorization header value.
func ParseBearer(header string) string {
	header = strings.TrimSpace(header)
	if len(header) < 7 || !strings.EqualFold(header[:7], "bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}
