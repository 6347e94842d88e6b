package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/transport/httpapi/middleware"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func protected(t *testing.T, svc *middleware.JWTService) http.Handler {
	t.Helper()
	return middleware.JWTMiddleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		walletID, ok := middleware.GetWalletIDFromContext(r.Context())
		require.True(t, ok)
		address, ok := middleware.GetAddressFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Wallet", walletID.String())
		w.Header().Set("X-Address", address)
		w.WriteHeader(http.StatusOK)
	}))
}

func TestJWT_RoundTrip(t *testing.T) {
	svc := middleware.NewJWTService(testSecret)
	walletID := uuid.New()

	token, err := svc.GenerateToken(walletID, "rSomeAddress")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, walletID, claims.WalletID)
	assert.Equal(t, "rSomeAddress", claims.Address)
	assert.Equal(t, "walletd", claims.Issuer)
}

func TestJWT_WrongSecret(t *testing.T) {
	token, err := middleware.NewJWTService(testSecret).GenerateToken(uuid.New(), "rA")
	require.NoError(t, err)

	_, err = middleware.NewJWTService("another-secret-another-secret-xx").ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTMiddleware_PropagatesClaims(t *testing.T) {
	svc := middleware.NewJWTService(testSecret)
	walletID := uuid.New()
	token, err := svc.GenerateToken(walletID, "rSomeAddress")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	protected(t, svc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, walletID.String(), rec.Header().Get("X-Wallet"))
	assert.Equal(t, "rSomeAddress", rec.Header().Get("X-Address"))
}

func TestJWTMiddleware_Rejects(t *testing.T) {
	svc := middleware.NewJWTService(testSecret)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not bearer", "Token abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			protected(t, svc).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
