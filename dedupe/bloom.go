// Package dedupe keeps a cross-run RedisBloom filter of evidence URLs so the
// collector can skip material it has already gathered in earlier runs. The
// filter is optional: a nil *Filter is a no-op and collection behaves as if
// every URL were new.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// FilterConfig configures the RedisBloom connection and key.
type FilterConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	TTL      time.Duration
	// Capacity sets the initial BF.RESERVE capacity (number of items).
	Capacity int
	// ErrorRate sets the desired false positive probability.
	ErrorRate float64
}

// Filter is a minimal Redis-backed Bloom wrapper over RedisBloom commands.
type Filter struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewFilter creates the filter and verifies connectivity.
func NewFilter(cfg FilterConfig) (*Filter, error) {
	if cfg.Key == "" {
		cfg.Key = "evidence:seen"
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 7 * 24 * time.Hour
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 100000
	}
	if cfg.ErrorRate <= 0 {
		cfg.ErrorRate = 0.001
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	f := &Filter{client: client, key: cfg.Key, ttl: cfg.TTL}

	// Reserve the filter up front when the key is new. BF.RESERVE failing is
	// non-fatal: BF.ADD may auto-create depending on RedisBloom settings.
	exists, err := client.Exists(ctx, cfg.Key).Result()
	if err == nil && exists == 0 {
		_ = client.Do(ctx, "BF.RESERVE", cfg.Key,
			fmt.Sprintf("%f", cfg.ErrorRate), cfg.Capacity).Err()
	}

	return f, nil
}

// Close closes the underlying Redis client.
func (f *Filter) Close() error {
	if f == nil {
		return nil
	}
	return f.client.Close()
}

// Seen reports whether the URL was recorded before. A nil filter always
// answers false.
func (f *Filter) Seen(ctx context.Context, rawURL string) (bool, error) {
	if f == nil {
		return false, nil
	}
	res, err := f.client.Do(ctx, "BF.EXISTS", f.key, HashURL(rawURL)).Result()
	if err != nil {
		return false, err
	}
	switch v := res.(type) {
	case int64:
		return v == 1, nil
	case string:
		return v == "1", nil
	default:
		return false, fmt.Errorf("unexpected BF.EXISTS response type %T: %v", res, res)
	}
}

// Record inserts the URL and refreshes the key's TTL, so the filter stays
// alive for the configured window after the most recent insertion.
func (f *Filter) Record(ctx context.Context, rawURL string) error {
	if f == nil {
		return nil
	}
	if err := f.client.Do(ctx, "BF.ADD", f.key, HashURL(rawURL)).Err(); err != nil {
		return err
	}
	return f.client.Expire(ctx, f.key, f.ttl).Err()
}

// HashURL returns the SHA-256 hex hash of the normalized URL.
func HashURL(rawURL string) string {
	h := sha256.Sum256([]byte(NormalizeURL(rawURL)))
	return hex.EncodeToString(h[:])
}

// NormalizeURL canonicalizes a URL for dedupe purposes: lowercase scheme and
// host, drop the fragment, drop common tracking query parameters, and trim a
// trailing slash from the path.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	q := u.Query()
	for k := range q {
		lk := strings.ToLower(k)
		if strings.HasPrefix(lk, "utm_") || lk == "fbclid" || lk == "gclid" {
			q.Del(k)
		}
	}
	u.RawQuery = q.Encode()
	u.Path = strings.TrimSuffix(u.Path, "/")

	return u.String()
}
