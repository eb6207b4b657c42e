package typecache

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Qodestackr/Verity-sub004/internal/util"

	"go.uber.org/zap"
)

// HTTPCache talks to the internal cache service over REST.
type HTTPCache struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// NewHTTPCache creates a cache client for the given service base URL.
func NewHTTPCache(baseURL string, timeout time.Duration) *HTTPCache {
	return &HTTPCache{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http: &http.Client{
			Timeout: timeout,
		},
		logger: util.GetLogger(),
	}
}

// TryGet fetches a cached value; any failure or non-OK response is a miss.
func (c *HTTPCache) TryGet(ctx context.Context, key string) (string, bool) {
	endpoint := c.baseURL + "/cache-product-type?key=" + url.QueryEscape(key)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.miss("get", key, err)
		return "", false
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.miss("get", key, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.miss("get", key, nil)
		return "", false
	}

	var payload struct {
		Value *string `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.miss("get", key, err)
		return "", false
	}

	if payload.Value == nil || *payload.Value == "" {
		util.TypeCacheMissesTotal.Inc()
		return "", false
	}

	util.TypeCacheHitsTotal.Inc()
	return *payload.Value, true
}

// TryPut stores a value best-effort; failures are logged and swallowed.
func (c *HTTPCache) TryPut(ctx context.Context, key, value string, ttl time.Duration) {
	body, err := json.Marshal(map[string]interface{}{
		"key":   key,
		"value": value,
		"ttl":   int(ttl.Seconds()),
	})
	if err != nil {
		c.putFailed(key, err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cache-product-type", bytes.NewReader(body))
	if err != nil {
		c.putFailed(key, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.putFailed(key, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		c.putFailed(key, nil)
	}
}

func (c *HTTPCache) miss(op, key string, err error) {
	util.TypeCacheMissesTotal.Inc()
	if err != nil {
		util.TypeCacheErrorsTotal.WithLabelValues(op).Inc()
		c.logger.Warn("Type cache read failed, treating as miss",
			zap.String("key", key),
			zap.Error(err))
	}
}

func (c *HTTPCache) putFailed(key string, err error) {
	util.TypeCacheErrorsTotal.WithLabelValues("put").Inc()
	c.logger.Warn("Type cache write failed, ignoring",
		zap.String("key", key),
		zap.Error(err))
}
