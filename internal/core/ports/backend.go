package ports

import (
	"context"
	"time"
)

// KVBackend is the key-value store every entity and index lives in. It
// exposes a hash per key and a set per key. Implementations surface
// transport failures as domain.ErrBackendUnavailable and deadline expiry as
// domain.ErrBackendTimeout.
type KVBackend interface {
	// HSet writes the given fields into the hash at key, keeping other fields.
	HSet(ctx context.Context, key string, fields map[string]string) error
	// HGetAll returns every field of the hash at key; an absent key yields an
	// empty map and no error.
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	// HGet returns a single field and whether it was present.
	HGet(ctx context.Context, key, field string) (string, bool, error)
	HDel(ctx context.Context, key string, fields ...string) error
	// HSwap removes oldField and sets newField=value in one atomic step. An
	// empty oldField only installs; an empty newField only removes.
	HSwap(ctx context.Context, key, oldField, newField, value string) error

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, keys ...string) error
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// ScanPrefix returns up to max keys starting with prefix. max <= 0 means
	// no bound. Ordering is implementation defined.
	ScanPrefix(ctx context.Context, prefix string, max int) ([]string, error)

	Ping(ctx context.Context) error
}
