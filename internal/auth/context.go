package auth

import (
	"context"
	"strings"
)

type requesterKey struct{}

// WithRequester returns a context carrying the requesting account id
func WithRequester(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, requesterKey{}, accountID)
}

// RequesterID returns the account id stored by WithRequester, or "" when
// the request is anonymous
func RequesterID(ctx context.Context) string {
	id, _ := ctx.Value(requesterKey{}).(string)
	return id
}

// BearerToken extracts the token from an Authorization header value
func BearerToken(header string) string {
	const prefix = "bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// ContextWithToken validates token and, when valid, returns ctx carrying
// the token's account. Invalid or missing tokens leave ctx anonymous; the
// search core rejects anonymous requests itself.
func (m *JWTManager) ContextWithToken(ctx context.Context, token string) context.Context {
	claims, err := m.Validate(token)
	if err != nil {
		return ctx
	}
	return WithRequester(ctx, claims.AccountID)
}
