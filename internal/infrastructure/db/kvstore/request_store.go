package kvstore

import (
	"context"
	"fmt"
	"time"

	"github.com/collabhub/network/internal/core/domain"
)

// RequestStore persists collaboration requests, filed under the recipient.
type RequestStore struct {
	*base
}

// Create writes r as a new pending request regardless of the status given.
func (s *RequestStore) Create(ctx context.Context, r domain.CollaborationRequest) (_ *domain.CollaborationRequest, err error) {
	start := time.Now()
	defer func() { observe("request", "create", start, err) }()

	r.Status = domain.RequestPending
	if err := domain.Validate(r); err != nil {
		return nil, err
	}
	if r.ID, err = s.ensureID(r.ID); err != nil {
		return nil, err
	}
	r.CreatedAt = s.clock()

	if err := s.save(ctx, requestKey(r.ID), encodeRequest(&r)); err != nil {
		return nil, err
	}
	if err := s.idx.AddMember(ctx, RequestsByRecipient, r.ToUserID, r.ID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RequestStore) Get(ctx context.Context, id string) (_ *domain.CollaborationRequest, err error) {
	start := time.Now()
	defer func() { observe("request", "get", start, err) }()
	return s.get(ctx, id)
}

// UpdateStatus moves a pending request to accepted or rejected.
func (s *RequestStore) UpdateStatus(ctx context.Context, id string, patch domain.RequestStatusPatch) (_ *domain.CollaborationRequest, err error) {
	start := time.Now()
	defer func() { observe("request", "update", start, err) }()

	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.Status.CanTransitionTo(patch.Status) {
		return nil, fmt.Errorf("%w: request %s is %s, cannot become %s", domain.ErrInvalidTransition, id, cur.Status, patch.Status)
	}
	// The whole record is rewritten: a key removed between the read and the
	// write comes back complete rather than as a status-only hash.
	cur.Status = patch.Status
	if err := s.save(ctx, requestKey(id), encodeRequest(cur)); err != nil {
		return nil, err
	}
	return cur, nil
}

func (s *RequestStore) ListByRecipient(ctx context.Context, userID string) (_ []*domain.CollaborationRequest, err error) {
	start := time.Now()
	defer func() { observe("request", "list", start, err) }()
	return listIndexed(ctx, s.base, RequestsByRecipient, userID, s.get)
}

func (s *RequestStore) get(ctx context.Context, id string) (*domain.CollaborationRequest, error) {
	rec, err := s.load(ctx, requestKey(id))
	if err != nil {
		return nil, err
	}
	return decodeRequest(id, rec)
}

func encodeRequest(r *domain.CollaborationRequest) record {
	return record{
		"id":         r.ID,
		"fromUserId": r.FromUserID,
		"toUserId":   r.ToUserID,
		"projectId":  r.ProjectID,
		"message":    r.Message,
		"status":     string(r.Status),
		"createdAt":  encodeTime(r.CreatedAt),
	}
}

func decodeRequest(id string, rec record) (*domain.CollaborationRequest, error) {
	d := newDecoder("request", id, rec)
	r := &domain.CollaborationRequest{
		ID:         id,
		FromUserID: d.str("fromUserId"),
		ToUserID:   d.str("toUserId"),
		ProjectID:  d.str("projectId"),
		Message:    d.str("message"),
		Status:     domain.RequestStatus(d.str("status")),
		CreatedAt:  d.timestamp("createdAt"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return r, nil
}
