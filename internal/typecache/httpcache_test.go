package typecache

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryGetHit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cache-product-type", r.URL.Path)
		assert.Equal(t, "product-type:beer", r.URL.Query().Get("key"))
		w.Write([]byte(`{"value":"UHJvZHVjdFR5cGU6MQ=="}`))
	}))
	defer srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)

	value, ok := cache.TryGet(context.Background(), Key("beer"))
	assert.True(t, ok)
	assert.Equal(t, "UHJvZHVjdFR5cGU6MQ==", value)
}

func TestTryGetNullValueIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"value":null}`))
	}))
	defer srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)

	_, ok := cache.TryGet(context.Background(), Key("beer"))
	assert.False(t, ok)
}

func TestTryGetServerErrorIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)

	_, ok := cache.TryGet(context.Background(), Key("beer"))
	assert.False(t, ok)
}

func TestTryGetUnreachableBackendIsMiss(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)

	_, ok := cache.TryGet(context.Background(), Key("beer"))
	assert.False(t, ok, "a dead cache degrades to a miss, never an error")
}

func TestTryPutSendsKeyValueTTL(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)
	cache.TryPut(context.Background(), Key("beer"), "PT1", 24*time.Hour)

	require.NotNil(t, captured)
	assert.Equal(t, "product-type:beer", captured["key"])
	assert.Equal(t, "PT1", captured["value"])
	assert.Equal(t, float64(86400), captured["ttl"])
}

func TestTryPutUnreachableBackendIsSwallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	cache := NewHTTPCache(srv.URL, time.Second)

	// Must not panic or propagate anything.
	cache.TryPut(context.Background(), Key("beer"), "PT1", time.Hour)
}
