package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"github.com/rize-social/rize/internal/model"
	"github.com/rize-social/rize/internal/observability"
	"github.com/rize-social/rize/internal/transport"
)

var errNoToken = errors.New("missing token")

// PrincipalResolver attaches a profile to an authenticated user id.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context, userID string) (model.Principal, error)
}

// Auth verifies HS256 bearer tokens issued by the auth service and stores
// the resolved principal in the request context.
type Auth struct {
	Secret   []byte
	Issuer   string
	Audience string
	Resolver PrincipalResolver
}

// Required rejects requests without a valid token.
func (a *Auth) Required(next http.Handler) http.Handler {
	return a.handler(next, true)
}

// Optional lets anonymous requests through. A token that is present but
// invalid is still rejected.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return a.handler(next, false)
}

func (a *Auth) handler(next http.Handler, required bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok, err := extractToken(r)
		if errors.Is(err, errNoToken) && !required {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", err.Error())
			return
		}

		sub, err := a.verify(tok)
		if err != nil {
			observability.GetLogger(r.Context()).Debug("jwt_rejected", zap.Error(err))
			transport.WriteError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
			return
		}

		p, err := a.Resolver.ResolvePrincipal(r.Context(), sub)
		if err != nil {
			transport.Error(r.Context(), w, fmt.Errorf("resolve principal: %w", err))
			return
		}
		next.ServeHTTP(w, r.WithContext(InjectPrincipal(r.Context(), p)))
	})
}

func extractToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", errNoToken
	}
	tok, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || tok == "" {
		return "", errors.New("invalid token format")
	}
	return tok, nil
}

func (a *Auth) verify(tok string) (string, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if a.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(a.Issuer))
	}
	if a.Audience != "" {
		opts = append(opts, jwt.WithAudience(a.Audience))
	}

	var claims jwt.RegisteredClaims
	parsed, err := jwt.ParseWithClaims(tok, &claims, func(*jwt.Token) (any, error) {
		return a.Secret, nil
	}, opts...)
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if claims.Subject == "" {
		return "", errors.New("token has no subject")
	}
	return claims.Subject, nil
}
