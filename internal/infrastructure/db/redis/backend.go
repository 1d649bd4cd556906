package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

const scanBatch = 100

var _ ports.KVBackend = (*Backend)(nil)

// Backend implements ports.KVBackend on top of a single-node go-redis client.
// Every call runs under its own timeout. Cluster clients are not accepted:
// SCAN on a cluster walks one shard only, so ScanPrefix would miss keys.
type Backend struct {
	client  *redis.Client
	timeout time.Duration
}

// NewBackend wraps client. A non-positive timeout falls back to the default.
func NewBackend(client *redis.Client, timeout time.Duration) *Backend {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Backend{client: client, timeout: timeout}
}

func (b *Backend) HSet(ctx context.Context, key string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	values := make([]any, 0, len(fields)*2)
	for f, v := range fields {
		values = append(values, f, v)
	}
	return classify("hset", b.client.HSet(ctx, key, values...).Err())
}

func (b *Backend) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	m, err := b.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, classify("hgetall", err)
	}
	return m, nil
}

func (b *Backend) HGet(ctx context.Context, key, field string) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	v, err := b.client.HGet(ctx, key, field).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, classify("hget", err)
	}
	return v, true, nil
}

func (b *Backend) HDel(ctx context.Context, key string, fields ...string) error {
	if len(fields) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("hdel", b.client.HDel(ctx, key, fields...).Err())
}

// HSwap runs HDEL and HSET inside MULTI/EXEC so readers never observe both
// or neither mapping.
func (b *Backend) HSwap(ctx context.Context, key, oldField, newField, value string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if oldField != "" {
			pipe.HDel(ctx, key, oldField)
		}
		if newField != "" {
			pipe.HSet(ctx, key, newField, value)
		}
		return nil
	})
	return classify("hswap", err)
}

func (b *Backend) SAdd(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("sadd", b.client.SAdd(ctx, key, toAny(members)...).Err())
}

func (b *Backend) SRem(ctx context.Context, key string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("srem", b.client.SRem(ctx, key, toAny(members)...).Err())
}

func (b *Backend) SMembers(ctx context.Context, key string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	members, err := b.client.SMembers(ctx, key).Result()
	if err != nil {
		return nil, classify("smembers", err)
	}
	return members, nil
}

func (b *Backend) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	n, err := b.client.Exists(ctx, key).Result()
	if err != nil {
		return false, classify("exists", err)
	}
	return n > 0, nil
}

func (b *Backend) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("del", b.client.Del(ctx, keys...).Err())
}

func (b *Backend) Expire(ctx context.Context, key string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("expire", b.client.Expire(ctx, key, ttl).Err())
}

// ScanPrefix walks the node's keyspace with SCAN MATCH rather than KEYS so
// the server is never blocked. The timeout applies to the walk as a whole.
func (b *Backend) ScanPrefix(ctx context.Context, prefix string, max int) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	var (
		keys   []string
		cursor uint64
	)
	pattern := escapeGlob(prefix) + "*"
	for {
		batch, next, err := b.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return nil, classify("scan", err)
		}
		for _, k := range batch {
			if max > 0 && len(keys) >= max {
				return keys, nil
			}
			keys = append(keys, k)
		}
		cursor = next
		if cursor == 0 || (max > 0 && len(keys) >= max) {
			return keys, nil
		}
	}
}

func (b *Backend) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	return classify("ping", b.client.Ping(ctx).Err())
}

// classify maps client errors onto the domain's backend error kinds.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if isTimeout(err) {
		return fmt.Errorf("redis %s: %w: %w: %v", op, domain.ErrBackendUnavailable, domain.ErrBackendTimeout, err)
	}
	return fmt.Errorf("redis %s: %w: %v", op, domain.ErrBackendUnavailable, err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func escapeGlob(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`, `[`, `\[`, `]`, `\]`)
	return r.Replace(s)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
