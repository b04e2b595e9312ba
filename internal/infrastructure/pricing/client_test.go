package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tradewiser/backend/internal/infrastructure/config"
)

func testClient(baseURL string) *Client {
	return NewClient(config.PricingConfig{
		BaseURL:       baseURL,
		MaxAttempts:   3,
		BaseDelay:     time.Millisecond,
		MaxDelay:      10 * time.Millisecond,
		BackoffFactor: 2,
	})
}

func TestClient_FetchQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "cereal", r.URL.Query().Get("category"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"category":"cereal","price_per_mt":"21500.50","as_of":"2026-08-30T10:00:00Z"}`))
	}))
	defer srv.Close()

	quote, err := testClient(srv.URL).FetchQuote(context.Background(), "cereal")

	require.NoError(t, err)
	assert.Equal(t, "cereal", quote.Category)
	assert.Equal(t, "21500.5", quote.PricePerMT.String())
}

func TestClient_FetchQuote_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"category":"pulse","price_per_mt":"80000"}`))
	}))
	defer srv.Close()

	quote, err := testClient(srv.URL).FetchQuote(context.Background(), "pulse")

	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.True(t, quote.PricePerMT.Equal(decimal.NewFromInt(80000)))
}

func TestClient_FetchQuote_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchQuote(context.Background(), "unknown")

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchQuote_ExhaustsAttempts(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchQuote(context.Background(), "cereal")

	require.Error(t, err)
	assert.Equal(t, int32(3), calls.Load())
	assert.Contains(t, err.Error(), "after 3 attempts")
}

func TestClient_FetchQuote_RejectsNonPositivePrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"category":"cereal","price_per_mt":"0"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).FetchQuote(context.Background(), "cereal")

	assert.Error(t, err)
}
