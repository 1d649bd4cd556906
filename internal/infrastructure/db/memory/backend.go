// Package memory provides an in-process implementation of ports.KVBackend,
// used by tests and by ephemeral single-node runs.
package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

var _ ports.KVBackend = (*Backend)(nil)

// Backend keeps hashes and sets in maps guarded by a single mutex. Keys with
// an expiry are dropped lazily when touched after their deadline.
type Backend struct {
	mu      sync.Mutex
	hashes  map[string]map[string]string
	sets    map[string]map[string]struct{}
	expires map[string]time.Time
	now     func() time.Time
	err     error
}

func NewBackend() *Backend {
	return &Backend{
		hashes:  make(map[string]map[string]string),
		sets:    make(map[string]map[string]struct{}),
		expires: make(map[string]time.Time),
		now:     time.Now,
	}
}

// WithClock replaces the clock used for key expiry.
func (b *Backend) WithClock(now func() time.Time) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	return b
}

// WithError makes every subsequent call fail with err wrapped as
// domain.ErrBackendUnavailable. A nil err restores normal operation.
func (b *Backend) WithError(err error) *Backend {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.err = err
	return b
}

func (b *Backend) HSet(_ context.Context, key string, fields map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("hset"); err != nil {
		return err
	}
	b.expire(key)

	h, ok := b.hashes[key]
	if !ok {
		h = make(map[string]string, len(fields))
		b.hashes[key] = h
	}
	for f, v := range fields {
		h[f] = v
	}
	return nil
}

func (b *Backend) HGetAll(_ context.Context, key string) (map[string]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("hgetall"); err != nil {
		return nil, err
	}
	b.expire(key)

	out := make(map[string]string, len(b.hashes[key]))
	for f, v := range b.hashes[key] {
		out[f] = v
	}
	return out, nil
}

func (b *Backend) HGet(_ context.Context, key, field string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("hget"); err != nil {
		return "", false, err
	}
	b.expire(key)

	v, ok := b.hashes[key][field]
	return v, ok, nil
}

func (b *Backend) HDel(_ context.Context, key string, fields ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("hdel"); err != nil {
		return err
	}
	b.expire(key)
	b.hdel(key, fields...)
	return nil
}

func (b *Backend) HSwap(_ context.Context, key, oldField, newField, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("hswap"); err != nil {
		return err
	}
	b.expire(key)

	if oldField != "" {
		b.hdel(key, oldField)
	}
	if newField != "" {
		if _, ok := b.hashes[key]; !ok {
			b.hashes[key] = make(map[string]string)
		}
		b.hashes[key][newField] = value
	}
	return nil
}

func (b *Backend) SAdd(_ context.Context, key string, members ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("sadd"); err != nil {
		return err
	}
	b.expire(key)

	s, ok := b.sets[key]
	if !ok {
		s = make(map[string]struct{}, len(members))
		b.sets[key] = s
	}
	for _, m := range members {
		s[m] = struct{}{}
	}
	return nil
}

func (b *Backend) SRem(_ context.Context, key string, members ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("srem"); err != nil {
		return err
	}
	b.expire(key)

	s := b.sets[key]
	for _, m := range members {
		delete(s, m)
	}
	if len(s) == 0 {
		b.drop(key)
	}
	return nil
}

func (b *Backend) SMembers(_ context.Context, key string) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("smembers"); err != nil {
		return nil, err
	}
	b.expire(key)

	out := make([]string, 0, len(b.sets[key]))
	for m := range b.sets[key] {
		out = append(out, m)
	}
	return out, nil
}

func (b *Backend) Exists(_ context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("exists"); err != nil {
		return false, err
	}
	b.expire(key)

	_, isHash := b.hashes[key]
	_, isSet := b.sets[key]
	return isHash || isSet, nil
}

func (b *Backend) Del(_ context.Context, keys ...string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("del"); err != nil {
		return err
	}
	for _, k := range keys {
		b.drop(k)
	}
	return nil
}

func (b *Backend) Expire(_ context.Context, key string, ttl time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("expire"); err != nil {
		return err
	}
	if ttl <= 0 {
		b.drop(key)
		return nil
	}
	b.expires[key] = b.now().Add(ttl)
	return nil
}

// ScanPrefix returns matching keys in ascending order, which makes bounded
// scans reproducible in tests.
func (b *Backend) ScanPrefix(_ context.Context, prefix string, max int) ([]string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.fail("scan"); err != nil {
		return nil, err
	}

	var keys []string
	for k := range b.hashes {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	for k := range b.sets {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	keys = slices.DeleteFunc(keys, func(k string) bool { return b.expire(k) })
	slices.Sort(keys)
	if max > 0 && len(keys) > max {
		keys = keys[:max]
	}
	return keys, nil
}

func (b *Backend) Ping(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.fail("ping")
}

func (b *Backend) fail(op string) error {
	if b.err == nil {
		return nil
	}
	return fmt.Errorf("memory %s: %w: %w", op, domain.ErrBackendUnavailable, b.err)
}

// expire drops key when its deadline has passed and reports whether it did.
func (b *Backend) expire(key string) bool {
	deadline, ok := b.expires[key]
	if !ok || b.now().Before(deadline) {
		return false
	}
	b.drop(key)
	return true
}

func (b *Backend) drop(key string) {
	delete(b.hashes, key)
	delete(b.sets, key)
	delete(b.expires, key)
}

func (b *Backend) hdel(key string, fields ...string) {
	h := b.hashes[key]
	for _, f := range fields {
		delete(h, f)
	}
	if len(h) == 0 {
		b.drop(key)
	}
}
