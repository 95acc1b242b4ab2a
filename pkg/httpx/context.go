package httpx

import "context"

type sessionKey struct{}

// WithSessionEmail stamps the authenticated account email onto the context.
func WithSessionEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, sessionKey{}, email)
}

// SessionEmail returns the authenticated account email, if any.
func SessionEmail(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(sessionKey{}).(string)
	return email, ok && email != ""
}
