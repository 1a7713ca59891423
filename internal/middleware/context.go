package middleware

import (
	"context"

	"github.com/rize-social/rize/internal/model"
)

type ctxKey int

const principalKey ctxKey = iota

func InjectPrincipal(ctx context.Context, p model.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// Principal returns the caller attached by Auth, or the anonymous principal.
func Principal(ctx context.Context) model.Principal {
	p, _ := ctx.Value(principalKey).(model.Principal)
	return p
}
