package iocache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/huangsam/bundlescope/internal/contract"
	"github.com/huangsam/bundlescope/schema"
	"github.com/redis/go-redis/v9"
)

// redisKeyPrefix namespaces result cache entries in a shared Redis database.
const redisKeyPrefix = "bundlescope:result:"

// redisTimeout bounds every Redis round trip.
const redisTimeout = 5 * time.Second

// RedisCacheStore keeps serialized analysis reports in Redis hashes.
// Each entry holds the value, version and timestamp fields.
type RedisCacheStore struct {
	client *redis.Client
	addr   string
}

var _ contract.CacheStore = &RedisCacheStore{} // Compile-time check

// NewRedisCacheStore connects to Redis.
// url should be in the format: redis://[password@]host:port[/db]
func NewRedisCacheStore(url string) (*RedisCacheStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis connection string: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	contract.LogDebug("Connected to Redis result cache", "addr", opts.Addr)
	return &RedisCacheStore{client: client, addr: opts.Addr}, nil
}

// Get retrieves a value by key. A missing key yields redis.Nil.
func (rs *RedisCacheStore) Get(key string) ([]byte, int, int64, error) {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	fields, err := rs.client.HMGet(ctx, redisKeyPrefix+key, "value", "version", "timestamp").Result()
	if err != nil {
		return nil, 0, 0, err
	}
	if len(fields) != 3 || fields[0] == nil {
		return nil, 0, 0, redis.Nil
	}

	value, _ := fields[0].(string)
	version, err := strconv.Atoi(fmt.Sprint(fields[1]))
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache version for %s: %w", key, err)
	}
	ts, err := strconv.ParseInt(fmt.Sprint(fields[2]), 10, 64)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("corrupt cache timestamp for %s: %w", key, err)
	}
	return []byte(value), version, ts, nil
}

// Set inserts or replaces a key/value pair.
func (rs *RedisCacheStore) Set(key string, value []byte, version int, timestamp int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), redisTimeout)
	defer cancel()

	return rs.client.HSet(ctx, redisKeyPrefix+key,
		"value", value,
		"version", version,
		"timestamp", timestamp,
	).Err()
}

// Close closes the client.
func (rs *RedisCacheStore) Close() error {
	return rs.client.Close()
}

// GetStatus scans the bundlescope keys for counts, ages and memory usage.
func (rs *RedisCacheStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.RedisBackend),
		Connected: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 4*redisTimeout)
	defer cancel()

	var lastTs, oldestTs int64
	iter := rs.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		status.TotalEntries++

		ts, err := rs.client.HGet(ctx, key, "timestamp").Int64()
		if err == nil {
			if ts > lastTs {
				lastTs = ts
			}
			if oldestTs == 0 || ts < oldestTs {
				oldestTs = ts
			}
		}
		if size, err := rs.client.MemoryUsage(ctx, key).Result(); err == nil {
			status.TableSizeBytes += size
		}
	}
	if err := iter.Err(); err != nil {
		return status, fmt.Errorf("failed to scan redis keys: %w", err)
	}

	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(lastTs, 0)
		status.OldestEntryTime = time.Unix(oldestTs, 0)
	}
	return status, nil
}

// clear deletes every bundlescope key and leaves the rest of the database alone.
func (rs *RedisCacheStore) clear(ctx context.Context) error {
	iter := rs.client.Scan(ctx, 0, redisKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan redis keys: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	return rs.client.Del(ctx, keys...).Err()
}
