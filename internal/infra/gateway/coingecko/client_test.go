package coingecko_test

import (
	"context"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xrpzip/walletd/internal/infra/gateway/coingecko"
)

func TestClient_SpotPrice(t *testing.T) {
	var gotPath, gotQuery, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ripple":{"usd":2.41}}`))
	}))
	defer srv.Close()

	client := coingecko.NewClient("test-key").WithBaseURL(srv.URL)
	price, err := client.SpotPrice(context.Background())
	require.NoError(t, err)

	assert.Equal(t, big.NewInt(241000000), price)
	assert.Equal(t, "/simple/price", gotPath)
	assert.Contains(t, gotQuery, "ids=ripple")
	assert.Contains(t, gotQuery, "vs_currencies=usd")
	assert.Equal(t, "test-key", gotKey)
}

func TestClient_SpotPrice_RateLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := coingecko.NewClient("test-key").WithBaseURL(srv.URL)
	_, err := client.SpotPrice(context.Background())
	require.Error(t, err)
	assert.True(t, coingecko.IsRateLimitError(err))
}

func TestClient_SpotPrice_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := coingecko.NewClient("test-key").WithBaseURL(srv.URL)
	_, err := client.SpotPrice(context.Background())
	require.Error(t, err)
	assert.False(t, coingecko.IsRateLimitError(err))
	assert.Contains(t, err.Error(), "500")
}

func TestClient_SpotPrice_MissingCoin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := coingecko.NewClient("test-key").WithBaseURL(srv.URL)
	_, err := client.SpotPrice(context.Background())
	assert.Error(t, err)
}
