package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rize-social/rize/internal/model"
)

var secret = []byte("test-secret")

type stubResolver struct {
	err error
}

func (s stubResolver) ResolvePrincipal(_ context.Context, userID string) (model.Principal, error) {
	if s.err != nil {
		return model.Principal{}, s.err
	}
	return model.Principal{UserID: userID, ProfileID: "profile-of-" + userID}, nil
}

func newAuth(r PrincipalResolver) *Auth {
	return &Auth{Secret: secret, Issuer: "rize-auth", Audience: "rize-clients", Resolver: r}
}

func sign(t *testing.T, method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims() jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "rize-auth",
		Audience:  jwt.ClaimStrings{"rize-clients"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

// echoPrincipal writes the principal's profile id, or "anonymous".
var echoPrincipal = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	p := Principal(r.Context())
	if p.Anonymous() {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(p.ProfileID))
})

func do(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRequired(t *testing.T) {
	h := newAuth(stubResolver{}).Required(echoPrincipal)

	expired := validClaims()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongAud := validClaims()
	wrongAud.Audience = jwt.ClaimStrings{"someone-else"}
	wrongIss := validClaims()
	wrongIss.Issuer = "evil"
	noSub := validClaims()
	noSub.Subject = ""

	tests := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"valid", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, validClaims()), http.StatusOK, "profile-of-user-1"},
		{"missing", "", http.StatusUnauthorized, ""},
		{"not bearer", "Basic abc", http.StatusUnauthorized, ""},
		{"bad signature", "Bearer " + sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims()), http.StatusUnauthorized, ""},
		{"wrong alg", "Bearer " + sign(t, jwt.SigningMethodHS512, secret, validClaims()), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, expired), http.StatusUnauthorized, ""},
		{"wrong audience", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, wrongAud), http.StatusUnauthorized, ""},
		{"wrong issuer", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, wrongIss), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + sign(t, jwt.SigningMethodHS256, secret, noSub), http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, tt.header)
			assert.Equal(t, tt.status, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestOptional(t *testing.T) {
	h := newAuth(stubResolver{}).Optional(echoPrincipal)

	rec := do(h, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = do(h, "Bearer "+sign(t, jwt.SigningMethodHS256, secret, validClaims()))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "profile-of-user-1", rec.Body.String())

	rec = do(h, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestResolverFailure(t *testing.T) {
	h := newAuth(stubResolver{err: errors.New("db down")}).Required(echoPrincipal)

	rec := do(h, "Bearer "+sign(t, jwt.SigningMethodHS256, secret, validClaims()))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPrincipal_DefaultsToAnonymous(t *testing.T) {
	assert.True(t, Principal(context.Background()).Anonymous())
}
