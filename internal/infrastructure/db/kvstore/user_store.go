package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/pkg/metrics"
)

const (
	fieldExternalIdentity = "externalIdentity"
	fieldWalletAddress    = "walletAddress"
)

// uniqueField maps each unique index to the user field it is keyed by.
var uniqueField = map[UniqueIndex]string{
	UsersByExternalIdentity: fieldExternalIdentity,
	UsersByWalletAddress:    fieldWalletAddress,
}

// UserStore persists users and keeps the external identity and wallet
// address indexes 1:1 with the user records.
type UserStore struct {
	*base
	cache *MatchCache
}

// Create writes u, overwriting any user with the same id. Mappings held by
// an overwritten record are retired.
func (s *UserStore) Create(ctx context.Context, u domain.User) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "create", start, err) }()

	if err := domain.Validate(u); err != nil {
		return nil, err
	}
	if u.ID, err = s.ensureID(u.ID); err != nil {
		return nil, err
	}
	prevExt, prevWallet, err := s.uniqueValues(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(ctx, u.ID, u.ExternalIdentity, u.WalletAddress); err != nil {
		return nil, err
	}

	now := s.clock()
	u.CreatedAt, u.UpdatedAt = now, now
	u.Skills, u.Values, u.Goals = nonNil(u.Skills), nonNil(u.Values), nonNil(u.Goals)
	if err := s.save(ctx, userKey(u.ID), encodeUser(&u)); err != nil {
		return nil, err
	}
	if err := s.rebind(ctx, u.ID, prevExt, prevWallet, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) Get(ctx context.Context, id string) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "get", start, err) }()
	return s.get(ctx, id)
}

// Update merges patch onto the stored user. A unique value owned by another
// user rejects the whole update before anything is written. The user's own
// cached match scores are dropped.
func (s *UserStore) Update(ctx context.Context, id string, patch domain.UserPatch) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "update", start, err) }()

	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur
	patch.Apply(&next)
	if err := domain.Validate(next); err != nil {
		return nil, err
	}
	var ext, wallet string
	if next.ExternalIdentity != cur.ExternalIdentity {
		ext = next.ExternalIdentity
	}
	if next.WalletAddress != cur.WalletAddress {
		wallet = next.WalletAddress
	}
	if err := s.checkUnique(ctx, id, ext, wallet); err != nil {
		return nil, err
	}

	next.UpdatedAt = domain.NextUpdate(cur.UpdatedAt, s.now())
	next.Skills, next.Values, next.Goals = nonNil(next.Skills), nonNil(next.Values), nonNil(next.Goals)
	if err := s.save(ctx, userKey(id), encodeUser(&next)); err != nil {
		return nil, err
	}
	if err := s.rebind(ctx, id, cur.ExternalIdentity, cur.WalletAddress, &next); err != nil {
		return nil, err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn().Err(err).Str("user_id", id).Msg("match cache invalidation failed")
	}
	return &next, nil
}

func (s *UserStore) GetByExternalIdentity(ctx context.Context, externalID string) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "get_by_identity", start, err) }()
	return s.byUnique(ctx, UsersByExternalIdentity, externalID)
}

func (s *UserStore) GetByWalletAddress(ctx context.Context, address string) (_ *domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "get_by_wallet", start, err) }()
	return s.byUnique(ctx, UsersByWalletAddress, address)
}

// Search matches query against display name, bio, skills and goals.
func (s *UserStore) Search(ctx context.Context, query string, limit int) (_ []*domain.User, err error) {
	start := time.Now()
	defer func() { observe("user", "search", start, err) }()
	return search(ctx, s.base, userPrefix, query, limit, decodeUser, userText)
}

func (s *UserStore) get(ctx context.Context, id string) (*domain.User, error) {
	rec, err := s.load(ctx, userKey(id))
	if err != nil {
		return nil, err
	}
	return decodeUser(id, rec)
}

// byUnique resolves value through u. A mapping whose user is gone or no
// longer carries the value is drift and reads as not found.
func (s *UserStore) byUnique(ctx context.Context, u UniqueIndex, value string) (*domain.User, error) {
	if value == "" {
		return nil, fmt.Errorf("%s: empty value: %w", u, domain.ErrNotFound)
	}
	id, ok, err := s.idx.Lookup(ctx, u, value)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", u, value, domain.ErrNotFound)
	}
	user, err := s.get(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		s.drift(string(u), value, id)
		return nil, err
	}
	if err != nil {
		return nil, err
	}
	if uniqueValue(user, u) != value {
		s.drift(string(u), value, id)
		return nil, fmt.Errorf("%s %q: %w", u, value, domain.ErrNotFound)
	}
	return user, nil
}

// checkUnique fails when a non-empty value is bound to a user other than id.
// A binding whose owner no longer carries the value is stale and does not
// block.
func (s *UserStore) checkUnique(ctx context.Context, id, ext, wallet string) error {
	for _, c := range []struct {
		idx   UniqueIndex
		value string
	}{
		{UsersByExternalIdentity, ext},
		{UsersByWalletAddress, wallet},
	} {
		if c.value == "" {
			continue
		}
		owner, ok, err := s.idx.Lookup(ctx, c.idx, c.value)
		if err != nil {
			return err
		}
		if !ok || owner == id {
			continue
		}
		held, _, err := s.kv.HGet(ctx, userKey(owner), uniqueField[c.idx])
		if err != nil {
			return fmt.Errorf("check %s: %w", c.idx, err)
		}
		if held != c.value {
			s.drift(string(c.idx), c.value, owner)
			continue
		}
		metrics.UniqueConflictsTotal.WithLabelValues(string(c.idx)).Inc()
		return fmt.Errorf("%w: %s %q belongs to another user", domain.ErrUniqueConstraint, uniqueField[c.idx], c.value)
	}
	return nil
}

// uniqueValues reads the indexed fields of a stored user without decoding
// the rest of the record, so a corrupt record can still be overwritten.
func (s *UserStore) uniqueValues(ctx context.Context, id string) (ext, wallet string, err error) {
	if ext, _, err = s.kv.HGet(ctx, userKey(id), fieldExternalIdentity); err != nil {
		return "", "", fmt.Errorf("read user %s: %w", id, err)
	}
	if wallet, _, err = s.kv.HGet(ctx, userKey(id), fieldWalletAddress); err != nil {
		return "", "", fmt.Errorf("read user %s: %w", id, err)
	}
	return ext, wallet, nil
}

func (s *UserStore) rebind(ctx context.Context, id, prevExt, prevWallet string, u *domain.User) error {
	if err := s.idx.Swap(ctx, UsersByExternalIdentity, prevExt, u.ExternalIdentity, id); err != nil {
		return err
	}
	return s.idx.Swap(ctx, UsersByWalletAddress, prevWallet, u.WalletAddress, id)
}

func uniqueValue(u *domain.User, idx UniqueIndex) string {
	if idx == UsersByWalletAddress {
		return u.WalletAddress
	}
	return u.ExternalIdentity
}

func userText(u *domain.User) []string {
	out := make([]string, 0, 2+len(u.Skills)+len(u.Goals))
	out = append(out, u.DisplayName, u.Bio)
	out = append(out, u.Skills...)
	return append(out, u.Goals...)
}

func encodeUser(u *domain.User) record {
	return record{
		"id":                  u.ID,
		fieldExternalIdentity: u.ExternalIdentity,
		"displayName":         u.DisplayName,
		"bio":                 u.Bio,
		"skills":              encodeList(u.Skills),
		"values":              encodeList(u.Values),
		"goals":               encodeList(u.Goals),
		fieldWalletAddress:    u.WalletAddress,
		"avatarUrl":           u.AvatarURL,
		"createdAt":           encodeTime(u.CreatedAt),
		"updatedAt":           encodeTime(u.UpdatedAt),
	}
}

func decodeUser(id string, rec record) (*domain.User, error) {
	d := newDecoder("user", id, rec)
	u := &domain.User{
		ID:               id,
		ExternalIdentity: d.str(fieldExternalIdentity),
		DisplayName:      d.str("displayName"),
		Bio:              d.str("bio"),
		Skills:           d.list("skills"),
		Values:           d.list("values"),
		Goals:            d.list("goals"),
		WalletAddress:    d.str(fieldWalletAddress),
		AvatarURL:        d.str("avatarUrl"),
		CreatedAt:        d.timestamp("createdAt"),
		UpdatedAt:        d.timestamp("updatedAt"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return u, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
