package service

import (
	"context"
	"errors"
	"sort"

	"github.com/collabhub/network/internal/core/domain"
)

// ---------------------------------------------------------------------------
// In-memory stub stores
// ---------------------------------------------------------------------------

type stubUserStore struct {
	byID       map[string]*domain.User
	byIdentity map[string]string
	searchErr  error
	getErr     error // returned by Get for every id when set
	createErr  error
	lastQuery  string
	lastLimit  int
}

func newStubUserStore(users ...domain.User) *stubUserStore {
	s := &stubUserStore{byID: make(map[string]*domain.User), byIdentity: make(map[string]string)}
	for _, u := range users {
		s.byID[u.ID] = &u
		if u.ExternalIdentity != "" {
			s.byIdentity[u.ExternalIdentity] = u.ID
		}
	}
	return s
}

func (s *stubUserStore) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if err := domain.Validate(u); err != nil {
		return nil, err
	}
	clone := u
	s.byID[u.ID] = &clone
	if u.ExternalIdentity != "" {
		s.byIdentity[u.ExternalIdentity] = u.ID
	}
	return &u, nil
}

func (s *stubUserStore) Get(_ context.Context, id string) (*domain.User, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

// Update applies patch and rebinds the identity index.
func (s *stubUserStore) Update(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	u, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	next := *u
	patch.Apply(&next)
	if next.ExternalIdentity != u.ExternalIdentity {
		delete(s.byIdentity, u.ExternalIdentity)
		if next.ExternalIdentity != "" {
			s.byIdentity[next.ExternalIdentity] = id
		}
	}
	s.byID[id] = &next
	clone := next
	return &clone, nil
}

func (s *stubUserStore) GetByExternalIdentity(ctx context.Context, externalID string) (*domain.User, error) {
	id, ok := s.byIdentity[externalID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *stubUserStore) GetByWalletAddress(context.Context, string) (*domain.User, error) {
	return nil, domain.ErrNotFound
}

// Search returns every user in id order, ignoring the query.
func (s *stubUserStore) Search(_ context.Context, query string, limit int) ([]*domain.User, error) {
	s.lastQuery, s.lastLimit = query, limit
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	ids := make([]string, 0, len(s.byID))
	for id := range s.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]*domain.User, 0, len(ids))
	for _, id := range ids {
		clone := *s.byID[id]
		out = append(out, &clone)
	}
	return out, nil
}

type stubProjectStore struct {
	byID          map[string]*domain.Project
	collaborators map[string][]string
}

func (s *stubProjectStore) Create(context.Context, domain.Project) (*domain.Project, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProjectStore) Get(_ context.Context, id string) (*domain.Project, error) {
	p, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubProjectStore) Update(context.Context, string, domain.ProjectPatch) (*domain.Project, error) {
	return nil, errors.New("not implemented")
}

func (s *stubProjectStore) ListByCreator(context.Context, string) ([]*domain.Project, error) {
	return nil, nil
}

func (s *stubProjectStore) CollaboratorIDs(_ context.Context, projectID string) ([]string, error) {
	return s.collaborators[projectID], nil
}

func (s *stubProjectStore) Search(context.Context, string, int) ([]*domain.Project, error) {
	return nil, nil
}

type stubCache struct {
	put    map[string][]domain.MatchScore
	putErr error
}

func newStubCache() *stubCache {
	return &stubCache{put: make(map[string][]domain.MatchScore)}
}

func (c *stubCache) Put(_ context.Context, subjectID string, scores ...domain.MatchScore) error {
	if c.putErr != nil {
		return c.putErr
	}
	c.put[subjectID] = append(c.put[subjectID], scores...)
	return nil
}

func (c *stubCache) All(_ context.Context, subjectID string) (map[string]domain.MatchScore, error) {
	out := make(map[string]domain.MatchScore)
	for _, s := range c.put[subjectID] {
		out[s.CandidateUserID] = s
	}
	return out, nil
}

func (c *stubCache) Invalidate(_ context.Context, subjectID string) error {
	delete(c.put, subjectID)
	return nil
}

type stubRequestStore struct {
	byID      map[string]*domain.CollaborationRequest
	createErr error
	updateErr error
}

func newStubRequestStore(reqs ...domain.CollaborationRequest) *stubRequestStore {
	s := &stubRequestStore{byID: make(map[string]*domain.CollaborationRequest)}
	for _, r := range reqs {
		s.byID[r.ID] = &r
	}
	return s
}

func (s *stubRequestStore) Create(_ context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	if r.ID == "" {
		r.ID = "req-1"
	}
	r.Status = domain.RequestPending
	clone := r
	s.byID[r.ID] = &clone
	return &r, nil
}

func (s *stubRequestStore) Get(_ context.Context, id string) (*domain.CollaborationRequest, error) {
	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *r
	return &clone, nil
}

// UpdateStatus mirrors the store: only pending requests move.
func (s *stubRequestStore) UpdateStatus(_ context.Context, id string, patch domain.RequestStatusPatch) (*domain.CollaborationRequest, error) {
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	r, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if !r.Status.CanTransitionTo(patch.Status) {
		return nil, domain.ErrInvalidTransition
	}
	r.Status = patch.Status
	clone := *r
	return &clone, nil
}

func (s *stubRequestStore) ListByRecipient(context.Context, string) ([]*domain.CollaborationRequest, error) {
	return nil, nil
}

type stubCollaborationStore struct {
	created   []domain.Collaboration
	createErr error
	// failCreates is how many calls fail with createErr before Create
	// starts succeeding. Zero fails every call while createErr is set.
	failCreates int
	calls       int
}

// Create overwrites a collaboration with the same id, like the store.
func (s *stubCollaborationStore) Create(_ context.Context, c domain.Collaboration) (*domain.Collaboration, error) {
	s.calls++
	if s.createErr != nil && (s.failCreates == 0 || s.calls <= s.failCreates) {
		return nil, s.createErr
	}
	if c.ID == "" {
		c.ID = "collab-1"
	}
	for i := range s.created {
		if s.created[i].ID == c.ID {
			s.created[i] = c
			return &c, nil
		}
	}
	s.created = append(s.created, c)
	return &c, nil
}

func (s *stubCollaborationStore) Get(context.Context, string) (*domain.Collaboration, error) {
	return nil, domain.ErrNotFound
}

func (s *stubCollaborationStore) Update(context.Context, string, domain.CollaborationPatch) (*domain.Collaboration, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCollaborationStore) ListByProject(context.Context, string) ([]*domain.Collaboration, error) {
	return nil, nil
}

func (s *stubCollaborationStore) ListByUser(context.Context, string) ([]*domain.Collaboration, error) {
	return nil, nil
}
