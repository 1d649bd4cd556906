package kvstore

import (
	"context"
	"time"

	"github.com/collabhub/network/internal/core/domain"
)

// CollaborationStore persists project memberships. A create touches four
// indexes: by project, by user (and its legacy alias), and the project's
// collaborator set.
type CollaborationStore struct {
	*base
}

func (s *CollaborationStore) Create(ctx context.Context, c domain.Collaboration) (_ *domain.Collaboration, err error) {
	start := time.Now()
	defer func() { observe("collaboration", "create", start, err) }()

	if err := domain.Validate(c); err != nil {
		return nil, err
	}
	if c.ID, err = s.ensureID(c.ID); err != nil {
		return nil, err
	}
	if c.JoinedAt.IsZero() {
		c.JoinedAt = s.clock()
	}
	c.JoinedAt = normalize(c.JoinedAt)

	if err := s.save(ctx, collaborationKey(c.ID), encodeCollaboration(&c)); err != nil {
		return nil, err
	}
	for _, m := range []struct {
		idx       Index
		partition string
		member    string
	}{
		{CollaborationsByProject, c.ProjectID, c.ID},
		{CollaborationsByUser, c.UserID, c.ID},
		{UserCollaborations, c.UserID, c.ID},
		{ProjectCollaborators, c.ProjectID, c.UserID},
	} {
		if err := s.idx.AddMember(ctx, m.idx, m.partition, m.member); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

func (s *CollaborationStore) Get(ctx context.Context, id string) (_ *domain.Collaboration, err error) {
	start := time.Now()
	defer func() { observe("collaboration", "get", start, err) }()
	return s.get(ctx, id)
}

func (s *CollaborationStore) Update(ctx context.Context, id string, patch domain.CollaborationPatch) (_ *domain.Collaboration, err error) {
	start := time.Now()
	defer func() { observe("collaboration", "update", start, err) }()

	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur
	patch.Apply(&next)
	if err := domain.Validate(next); err != nil {
		return nil, err
	}
	if err := s.save(ctx, collaborationKey(id), encodeCollaboration(&next)); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *CollaborationStore) ListByProject(ctx context.Context, projectID string) (_ []*domain.Collaboration, err error) {
	start := time.Now()
	defer func() { observe("collaboration", "list", start, err) }()
	return listIndexed(ctx, s.base, CollaborationsByProject, projectID, s.get)
}

func (s *CollaborationStore) ListByUser(ctx context.Context, userID string) (_ []*domain.Collaboration, err error) {
	start := time.Now()
	defer func() { observe("collaboration", "list", start, err) }()
	return listIndexed(ctx, s.base, CollaborationsByUser, userID, s.get)
}

func (s *CollaborationStore) get(ctx context.Context, id string) (*domain.Collaboration, error) {
	rec, err := s.load(ctx, collaborationKey(id))
	if err != nil {
		return nil, err
	}
	return decodeCollaboration(id, rec)
}

func encodeCollaboration(c *domain.Collaboration) record {
	return record{
		"id":                  c.ID,
		"projectId":           c.ProjectID,
		"userId":              c.UserID,
		"role":                c.Role,
		"contributionSummary": c.ContributionSummary,
		"mutualBenefitScore":  encodeFloat(c.MutualBenefitScore),
		"joinedAt":            encodeTime(c.JoinedAt),
	}
}

func decodeCollaboration(id string, rec record) (*domain.Collaboration, error) {
	d := newDecoder("collaboration", id, rec)
	c := &domain.Collaboration{
		ID:                  id,
		ProjectID:           d.str("projectId"),
		UserID:              d.str("userId"),
		Role:                d.str("role"),
		ContributionSummary: d.str("contributionSummary"),
		MutualBenefitScore:  d.float("mutualBenefitScore"),
		JoinedAt:            d.timestamp("joinedAt"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return c, nil
}
