package kvstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/collabhub/network/internal/core/domain"
)

type ProjectStore struct {
	*base
}

// Create writes p and files it under its creator. A missing status defaults
// to draft.
func (s *ProjectStore) Create(ctx context.Context, p domain.Project) (_ *domain.Project, err error) {
	start := time.Now()
	defer func() { observe("project", "create", start, err) }()

	if p.Status == "" {
		p.Status = domain.ProjectDraft
	}
	if err := domain.Validate(p); err != nil {
		return nil, err
	}
	if p.ID, err = s.ensureID(p.ID); err != nil {
		return nil, err
	}
	now := s.clock()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Goals = nonNil(p.Goals)
	p.Milestones = normalizeMilestones(p.Milestones)

	rec, err := encodeProject(&p)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, projectKey(p.ID), rec); err != nil {
		return nil, err
	}
	if err := s.idx.AddMember(ctx, ProjectsByCreator, p.CreatorUserID, p.ID); err != nil {
		return nil, err
	}
	if err := s.idx.AddMember(ctx, UserProjects, p.CreatorUserID, p.ID); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProjectStore) Get(ctx context.Context, id string) (_ *domain.Project, err error) {
	start := time.Now()
	defer func() { observe("project", "get", start, err) }()
	return s.get(ctx, id)
}

func (s *ProjectStore) Update(ctx context.Context, id string, patch domain.ProjectPatch) (_ *domain.Project, err error) {
	start := time.Now()
	defer func() { observe("project", "update", start, err) }()

	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur
	patch.Apply(&next)
	if err := domain.Validate(next); err != nil {
		return nil, err
	}
	next.UpdatedAt = domain.NextUpdate(cur.UpdatedAt, s.now())
	next.Goals = nonNil(next.Goals)
	next.Milestones = normalizeMilestones(next.Milestones)

	rec, err := encodeProject(&next)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, projectKey(id), rec); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *ProjectStore) ListByCreator(ctx context.Context, creatorID string) (_ []*domain.Project, err error) {
	start := time.Now()
	defer func() { observe("project", "list", start, err) }()
	return listIndexed(ctx, s.base, ProjectsByCreator, creatorID, s.get)
}

func (s *ProjectStore) CollaboratorIDs(ctx context.Context, projectID string) ([]string, error) {
	return s.idx.Members(ctx, ProjectCollaborators, projectID)
}

// Search matches query against name, description and goals.
func (s *ProjectStore) Search(ctx context.Context, query string, limit int) (_ []*domain.Project, err error) {
	start := time.Now()
	defer func() { observe("project", "search", start, err) }()
	return search(ctx, s.base, projectPrefix, query, limit, decodeProject, projectText)
}

func (s *ProjectStore) get(ctx context.Context, id string) (*domain.Project, error) {
	rec, err := s.load(ctx, projectKey(id))
	if err != nil {
		return nil, err
	}
	return decodeProject(id, rec)
}

func projectText(p *domain.Project) []string {
	out := make([]string, 0, 2+len(p.Goals))
	out = append(out, p.Name, p.Description)
	return append(out, p.Goals...)
}

func normalizeMilestones(ms []domain.Milestone) []domain.Milestone {
	out := make([]domain.Milestone, len(ms))
	for i, m := range ms {
		m.DueDate = normalizeOpt(m.DueDate)
		out[i] = m
	}
	return out
}

func encodeProject(p *domain.Project) (record, error) {
	milestones, err := json.Marshal(p.Milestones)
	if err != nil {
		return nil, fmt.Errorf("encode project %s milestones: %w", p.ID, err)
	}
	return record{
		"id":            p.ID,
		"name":          p.Name,
		"description":   p.Description,
		"goals":         encodeList(p.Goals),
		"milestones":    string(milestones),
		"status":        string(p.Status),
		"creatorUserId": p.CreatorUserID,
		"createdAt":     encodeTime(p.CreatedAt),
		"updatedAt":     encodeTime(p.UpdatedAt),
	}, nil
}

func decodeProject(id string, rec record) (*domain.Project, error) {
	d := newDecoder("project", id, rec)
	p := &domain.Project{
		ID:            id,
		Name:          d.str("name"),
		Description:   d.str("description"),
		Goals:         d.list("goals"),
		Milestones:    []domain.Milestone{},
		Status:        domain.ProjectStatus(d.str("status")),
		CreatorUserID: d.str("creatorUserId"),
		CreatedAt:     d.timestamp("createdAt"),
		UpdatedAt:     d.timestamp("updatedAt"),
	}
	d.into("milestones", &p.Milestones)
	if d.err != nil {
		return nil, d.err
	}
	p.Milestones = normalizeMilestones(p.Milestones)
	return p, nil
}
