package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runMiddleware(t *testing.T, issuer *TokenIssuer, header string) (*httptest.ResponseRecorder, int, bool) {
	t.Helper()

	var gotID int
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = GetUserIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()

	JWTMiddleware(issuer)(next).ServeHTTP(rec, req)
	return rec, gotID, gotOK
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	issuer := newTestIssuer(time.Hour)

	rec, _, ok := runMiddleware(t, issuer, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestJWTMiddlewareMalformedHeader(t *testing.T) {
	issuer := newTestIssuer(time.Hour)

	for _, header := range []string{"Bearer", "Token abc", "abc"} {
		rec, _, ok := runMiddleware(t, issuer, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.False(t, ok)
	}
}

func TestJWTMiddlewareInvalidToken(t *testing.T) {
	issuer := newTestIssuer(time.Hour)

	rec, _, ok := runMiddleware(t, issuer, "Bearer not-a-real-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, ok)
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	token, err := issuer.Issue(42)
	require.NoError(t, err)

	rec, userID, ok := runMiddleware(t, issuer, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, 42, userID)
}

func TestJWTMiddlewareLowercaseBearer(t *testing.T) {
	issuer := newTestIssuer(time.Hour)
	token, err := issuer.Issue(42)
	require.NoError(t, err)

	rec, userID, ok := runMiddleware(t, issuer, "bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, ok)
	assert.Equal(t, 42, userID)
}
