package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/pkg/metrics"
)

// MatchCache memoises scores at match_scores:<subject> as candidate -> JSON.
// It is advisory: entries may be stale until the TTL runs out or the subject
// updates their profile.
type MatchCache struct {
	kv  ports.KVBackend
	log zerolog.Logger
	ttl time.Duration
}

// Put writes scores for subjectID and refreshes the TTL of the whole hash.
func (c *MatchCache) Put(ctx context.Context, subjectID string, scores ...domain.MatchScore) error {
	if len(scores) == 0 {
		return nil
	}
	fields := make(map[string]string, len(scores))
	for _, s := range scores {
		b, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("encode match score %s/%s: %w", subjectID, s.CandidateUserID, err)
		}
		fields[s.CandidateUserID] = string(b)
	}
	key := matchScoresKey(subjectID)
	if err := c.kv.HSet(ctx, key, fields); err != nil {
		return fmt.Errorf("match cache put: %w", err)
	}
	if c.ttl > 0 {
		if err := c.kv.Expire(ctx, key, c.ttl); err != nil {
			return fmt.Errorf("match cache expire: %w", err)
		}
	}
	return nil
}

// All returns every cached score for subjectID keyed by candidate. Entries
// that fail to decode are logged and left out.
func (c *MatchCache) All(ctx context.Context, subjectID string) (map[string]domain.MatchScore, error) {
	raw, err := c.kv.HGetAll(ctx, matchScoresKey(subjectID))
	if err != nil {
		return nil, fmt.Errorf("match cache read: %w", err)
	}
	out := make(map[string]domain.MatchScore, len(raw))
	for candidate, v := range raw {
		var s domain.MatchScore
		if err := json.Unmarshal([]byte(v), &s); err != nil {
			c.log.Warn().Err(err).
				Str("subject_id", subjectID).
				Str("candidate_id", candidate).
				Msg("skipping undecodable cached score")
			continue
		}
		s.CandidateUserID = candidate
		out[candidate] = s
	}
	if len(out) == 0 {
		metrics.MatchCacheLookupsTotal.WithLabelValues("miss").Inc()
	} else {
		metrics.MatchCacheLookupsTotal.WithLabelValues("hit").Inc()
	}
	return out, nil
}

func (c *MatchCache) Invalidate(ctx context.Context, subjectID string) error {
	if err := c.kv.Del(ctx, matchScoresKey(subjectID)); err != nil {
		return fmt.Errorf("match cache invalidate: %w", err)
	}
	return nil
}
