package kvstore

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// MaxSearchLimit caps the matches a single search returns. Larger limits are
// clamped to it.
const MaxSearchLimit = 1000

// search scans at most 2*limit keys under prefix and keeps the records whose
// text contains query under Unicode case folding. It stops after limit
// matches, so it may return fewer than limit even when more records match.
// Records that fail to decode are logged and skipped.
func search[T any](
	ctx context.Context,
	b *base,
	prefix, query string,
	limit int,
	decode func(id string, rec record) (*T, error),
	text func(*T) []string,
) ([]*T, error) {
	if limit <= 0 {
		limit = b.searchLimit
	}
	limit = min(limit, MaxSearchLimit)
	keys, err := b.kv.ScanPrefix(ctx, prefix, 2*limit)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", prefix, err)
	}

	// A Caser holds state and is not safe for concurrent use.
	fold := cases.Fold()
	needle := fold.String(query)

	var out []*T
	for _, key := range keys {
		if len(out) >= limit {
			break
		}
		rec, err := b.kv.HGetAll(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("search %s: %w", prefix, err)
		}
		if len(rec) == 0 {
			continue
		}
		v, err := decode(strings.TrimPrefix(key, prefix), rec)
		if err != nil {
			b.log.Warn().Err(err).Str("key", key).Msg("search skipped undecodable record")
			continue
		}
		if matches(fold, needle, text(v)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func matches(fold cases.Caser, needle string, haystack []string) bool {
	if needle == "" {
		return true
	}
	for _, s := range haystack {
		if strings.Contains(fold.String(s), needle) {
			return true
		}
	}
	return false
}
