package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/match"
	"github.com/collabhub/network/internal/core/ports"
)

// contributorRole is the role given to a requester whose project request is
// accepted.
const contributorRole = "contributor"

var _ ports.RequestService = (*RequestService)(nil)

type RequestService struct {
	requests       ports.RequestStore
	users          ports.UserStore
	collaborations ports.CollaborationStore
	logger         zerolog.Logger
}

func NewRequestService(requests ports.RequestStore, users ports.UserStore, collaborations ports.CollaborationStore, logger zerolog.Logger) *RequestService {
	return &RequestService{requests: requests, users: users, collaborations: collaborations, logger: logger}
}

// Send files a new pending request. Both users must exist.
func (s *RequestService) Send(ctx context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error) {
	if err := domain.Validate(domain.CollaborationRequest{
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     domain.RequestPending,
	}); err != nil {
		return nil, err
	}
	for _, id := range []string{r.FromUserID, r.ToUserID} {
		if _, err := s.users.Get(ctx, id); err != nil {
			return nil, fmt.Errorf("send request: user %s: %w", id, err)
		}
	}

	created, err := s.requests.Create(ctx, r)
	if err != nil {
		return nil, err
	}
	s.logger.Info().
		Str("request_id", created.ID).
		Str("from_user_id", created.FromUserID).
		Str("to_user_id", created.ToUserID).
		Msg("collaboration request sent")
	return created, nil
}

// Respond resolves a pending request. Accepting a request that names a
// project makes the requester a contributor of that project, scored by how
// well the two users match.
//
// The collaboration is written before the status so a failed accept leaves
// the request pending. Its id derives from the request id, so a retried
// accept overwrites the same record instead of adding a second membership.
func (s *RequestService) Respond(ctx context.Context, id string, status domain.RequestStatus) (*domain.CollaborationRequest, error) {
	patch := domain.RequestStatusPatch{Status: status}
	if err := domain.Validate(patch); err != nil {
		return nil, err
	}
	cur, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !cur.Status.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: request %s is %s, cannot become %s", domain.ErrInvalidTransition, id, cur.Status, status)
	}

	if status == domain.RequestAccepted && cur.ProjectID != "" {
		c, err := s.collaborations.Create(ctx, domain.Collaboration{
			ID:                 collaborationIDFor(cur.ID),
			ProjectID:          cur.ProjectID,
			UserID:             cur.FromUserID,
			Role:               contributorRole,
			MutualBenefitScore: float64(s.mutualScore(ctx, cur.FromUserID, cur.ToUserID)),
		})
		if err != nil {
			return nil, fmt.Errorf("accept request %s: %w", id, err)
		}
		s.logger.Info().
			Str("collaboration_id", c.ID).
			Str("project_id", c.ProjectID).
			Str("user_id", c.UserID).
			Msg("collaboration created from request")
	}

	r, err := s.requests.UpdateStatus(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("request_id", id).Str("status", string(status)).Msg("collaboration request resolved")
	return r, nil
}

// collaborationIDFor is the id of the membership an accepted request creates.
func collaborationIDFor(requestID string) string {
	return "req_" + requestID
}

// mutualScore is the match score of the two users, or zero when either
// cannot be read.
func (s *RequestService) mutualScore(ctx context.Context, a, b string) int {
	ua, err := s.users.Get(ctx, a)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", a).Msg("scoring accepted request")
		return 0
	}
	ub, err := s.users.Get(ctx, b)
	if err != nil {
		s.logger.Warn().Err(err).Str("user_id", b).Msg("scoring accepted request")
		return 0
	}
	return match.Score(*ua, *ub).Score
}
