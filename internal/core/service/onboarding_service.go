package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/ports"
)

var _ ports.OnboardingService = (*OnboardingService)(nil)

type OnboardingService struct {
	users  ports.UserStore
	logger zerolog.Logger
}

func NewOnboardingService(users ports.UserStore, logger zerolog.Logger) *OnboardingService {
	return &OnboardingService{users: users, logger: logger}
}

// Onboard returns the user bound to the asserted identity, creating one on
// first sign-in. A new user takes the identity id as its own id; an existing
// unbound user with that id is bound instead of replaced. The boolean reports
// whether a user was created.
func (s *OnboardingService) Onboard(ctx context.Context, rec domain.IdentityRecord) (*domain.User, bool, error) {
	if err := domain.Validate(rec); err != nil {
		return nil, false, err
	}

	existing, err := s.users.GetByExternalIdentity(ctx, rec.ID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}

	// A profile may already own the identity's id without being bound to it,
	// for example one created directly through the users API.
	owner, err := s.users.Get(ctx, rec.ID)
	switch {
	case err == nil:
		return s.bind(ctx, owner, rec.ID)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, false, err
	}

	u, err := s.users.Create(ctx, domain.User{
		ID:               rec.ID,
		ExternalIdentity: rec.ID,
		DisplayName:      rec.DisplayName,
		Bio:              rec.Bio,
		AvatarURL:        rec.AvatarURL,
		Skills:           []string{},
		Values:           []string{},
		Goals:            []string{},
	})
	if err != nil {
		s.logger.Error().Err(err).Str("external_identity", rec.ID).Msg("failed to onboard user")
		return nil, false, err
	}

	s.logger.Info().Str("user_id", u.ID).Msg("user onboarded")
	return u, true, nil
}

// bind attaches identity to u, which has no identity of its own. A user
// already bound to a different identity is left alone.
func (s *OnboardingService) bind(ctx context.Context, u *domain.User, identity string) (*domain.User, bool, error) {
	if u.ExternalIdentity != "" {
		return nil, false, fmt.Errorf("%w: user %s is bound to another identity", domain.ErrUniqueConstraint, u.ID)
	}
	bound, err := s.users.Update(ctx, u.ID, domain.UserPatch{ExternalIdentity: &identity})
	if err != nil {
		s.logger.Error().Err(err).Str("external_identity", identity).Msg("failed to bind identity")
		return nil, false, err
	}
	s.logger.Info().Str("user_id", bound.ID).Msg("identity bound to existing user")
	return bound, false, nil
}
