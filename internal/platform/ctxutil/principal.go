package ctxutil

import (
	"context"

	"github.com/yungbote/force-backend/internal/domain/auth"
)

type principalKey struct{}

// WithPrincipal is used only by the auth middleware. Handlers read the
// principal back once and pass it explicitly to services.
func WithPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFrom(ctx context.Context) (auth.Principal, bool) {
	if ctx == nil {
		return auth.Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(auth.Principal)
	if !ok || p.IsZero() {
		return auth.Principal{}, false
	}
	return p, true
}
