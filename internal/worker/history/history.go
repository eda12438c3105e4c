// Package history keeps a bounded ledger of past compression jobs in Redis.
package history

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"github.com/amankumarsingh77/quickpress/internal/common/entities"
	"github.com/go-redis/redis/v8"
	"strings"
	"time"
)

const DefaultKey = "quickpress:jobs"

type Recorder interface {
	Record(ctx context.Context, rec entities.JobRecord) error
	Recent(ctx context.Context, n int64) ([]entities.JobRecord, error)
	Close() error
}

// listStore is the subset of *redis.Client the ledger needs.
type listStore interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	LTrim(ctx context.Context, key string, start, stop int64) *redis.StatusCmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

type RedisRecorder struct {
	store listStore
	close func() error
	key   string
	limit int64
}

// NewRedisRecorder connects to redisURL and keeps at most limit records
// under key. A limit of zero keeps everything.
func NewRedisRecorder(ctx context.Context, redisURL, key string, limit int64) (*RedisRecorder, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if strings.HasPrefix(redisURL, "rediss://") && opt.TLSConfig != nil {
		opt.TLSConfig.MinVersion = tls.VersionTLS12
	}
	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return newRecorder(rdb, rdb.Close, key, limit), nil
}

func newRecorder(store listStore, closeFn func() error, key string, limit int64) *RedisRecorder {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRecorder{store: store, close: closeFn, key: key, limit: limit}
}

func (r *RedisRecorder) Record(ctx context.Context, rec entities.JobRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal job record: %w", err)
	}
	if err := r.store.RPush(ctx, r.key, data).Err(); err != nil {
		return fmt.Errorf("failed to push job record: %w", err)
	}
	if r.limit > 0 {
		if err := r.store.LTrim(ctx, r.key, -r.limit, -1).Err(); err != nil {
			return fmt.Errorf("failed to trim job history: %w", err)
		}
	}
	return nil
}

// Recent returns up to n records, oldest first. Entries that no longer
// decode are skipped.
func (r *RedisRecorder) Recent(ctx context.Context, n int64) ([]entities.JobRecord, error) {
	if n <= 0 {
		return nil, nil
	}
	items, err := r.store.LRange(ctx, r.key, -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read job history: %w", err)
	}
	records := make([]entities.JobRecord, 0, len(items))
	for _, item := range items {
		var rec entities.JobRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (r *RedisRecorder) Close() error {
	if r.close == nil {
		return nil
	}
	return r.close()
}

// Nop is used when no Redis URL is configured.
type Nop struct{}

func (Nop) Record(context.Context, entities.JobRecord) error { return nil }

func (Nop) Recent(context.Context, int64) ([]entities.JobRecord, error) { return nil, nil }

func (Nop) Close() error { return nil }
