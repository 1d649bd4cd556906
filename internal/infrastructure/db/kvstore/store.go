// Package kvstore implements the entity store, the secondary indexes and the
// match cache on top of a ports.KVBackend.
//
// Every entity is a flat hash at <kind>:<id>. Listing goes through the
// indexes, which are written after the entity in separate round trips; a
// list that meets an index member with no entity skips it and reports drift.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/pkg/metrics"
)

const defaultSearchLimit = 20

// Options tunes a Store. Zero values select the defaults.
type Options struct {
	Now   func() time.Time
	NewID func() (string, error)
	// MatchCacheTTL bounds the life of a subject's cached scores. Zero
	// disables expiry.
	MatchCacheTTL time.Duration
	SearchLimit   int
}

// Store groups the per-entity stores sharing one backend.
type Store struct {
	Users          *UserStore
	Projects       *ProjectStore
	Collaborations *CollaborationStore
	Tasks          *TaskStore
	Requests       *RequestStore
	MatchCache     *MatchCache
	Indexes        *IndexManager
}

func New(kv ports.KVBackend, log zerolog.Logger, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = newID
	}
	if opts.SearchLimit <= 0 {
		opts.SearchLimit = defaultSearchLimit
	}
	opts.SearchLimit = min(opts.SearchLimit, MaxSearchLimit)

	b := &base{
		kv:          kv,
		idx:         NewIndexManager(kv),
		log:         log,
		now:         opts.Now,
		newID:       opts.NewID,
		searchLimit: opts.SearchLimit,
	}
	cache := &MatchCache{kv: kv, log: log, ttl: opts.MatchCacheTTL}
	return &Store{
		Users:          &UserStore{base: b, cache: cache},
		Projects:       &ProjectStore{base: b},
		Collaborations: &CollaborationStore{base: b},
		Tasks:          &TaskStore{base: b},
		Requests:       &RequestStore{base: b},
		MatchCache:     cache,
		Indexes:        b.idx,
	}
}

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return id.String(), nil
}

// base holds what every entity store shares.
type base struct {
	kv          ports.KVBackend
	idx         *IndexManager
	log         zerolog.Logger
	now         func() time.Time
	newID       func() (string, error)
	searchLimit int
}

func (b *base) ensureID(given string) (string, error) {
	if given != "" {
		return given, nil
	}
	return b.newID()
}

func (b *base) clock() time.Time {
	return normalize(b.now())
}

// load reads the record at key. An absent key is domain.ErrNotFound.
func (b *base) load(ctx context.Context, key string) (record, error) {
	rec, err := b.kv.HGetAll(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", key, err)
	}
	if len(rec) == 0 {
		return nil, fmt.Errorf("%s: %w", key, domain.ErrNotFound)
	}
	return rec, nil
}

func (b *base) save(ctx context.Context, key string, rec record) error {
	if err := b.kv.HSet(ctx, key, rec); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// drift logs and counts an index member that does not resolve.
func (b *base) drift(index, partition, member string) {
	metrics.IndexDriftTotal.WithLabelValues(index).Inc()
	b.log.Warn().
		Err(domain.ErrIndexDrift).
		Str("index", index).
		Str("partition", partition).
		Str("member", member).
		Msg("index drift")
}

// listIndexed resolves every member of one index partition through get.
// Members whose entity is gone are skipped; any other failure aborts.
func listIndexed[T any](ctx context.Context, b *base, idx Index, partition string, get func(context.Context, string) (*T, error)) ([]*T, error) {
	ids, err := b.idx.Members(ctx, idx, partition)
	if err != nil {
		return nil, err
	}
	out := make([]*T, 0, len(ids))
	for _, id := range ids {
		v, err := get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			b.drift(string(idx), partition, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// observe records the duration and outcome of a store operation.
func observe(entity, op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, domain.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	metrics.ObserveStoreOp(entity, op, outcome, start)
}
