package cache

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

// Client is a thin wrapper around Redis used for caching rendered boundary
// payloads. A nil *Client is valid and means caching is disabled.
var Client *redis.Client

// Connect opens Redis from REDIS_URL. Caching is optional: when the variable
// is unset the server runs without a cache and every request hits Postgres.
func Connect() {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		log.Println("[cache] REDIS_URL not set, caching disabled")
		return
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[cache] invalid REDIS_URL, caching disabled: %v", err)
		return
	}

	Client = redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := Client.Ping(ctx).Err(); err != nil {
		log.Printf("[cache] redis unreachable, caching disabled: %v", err)
		Client = nil
		return
	}
	log.Println("[cache] connected to redis")
}

// Get returns the cached value for key, or "" on miss/any error.
func Get(ctx context.Context, key string) string {
	if Client == nil {
		return ""
	}
	val, err := Client.Get(ctx, key).Result()
	if err != nil {
		return ""
	}
	return val
}

// Set stores val under key with a TTL. Errors are logged and swallowed;
// a broken cache must never fail a request.
func Set(ctx context.Context, key, val string, ttl time.Duration) {
	if Client == nil {
		return
	}
	if err := Client.Set(ctx, key, val, ttl).Err(); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
}

// DeletePrefix removes all keys matching prefix* and returns how many were
// deleted. Used by the import tooling to drop stale boundary payloads.
func DeletePrefix(ctx context.Context, prefix string) (int64, error) {
	if Client == nil {
		return 0, nil
	}

	var deleted int64
	iter := Client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := Client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, iter.Err()
}
