package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/collabhub/network/internal/core/domain"
	"github.com/collabhub/network/internal/core/match"
	"github.com/collabhub/network/internal/core/ports"
	"github.com/collabhub/network/internal/pkg/metrics"
)

var _ ports.MatchService = (*MatchService)(nil)

type MatchService struct {
	users    ports.UserStore
	projects ports.ProjectStore
	cache    ports.MatchCache
	logger   zerolog.Logger
}

func NewMatchService(users ports.UserStore, projects ports.ProjectStore, cache ports.MatchCache, logger zerolog.Logger) *MatchService {
	return &MatchService{users: users, projects: projects, cache: cache, logger: logger}
}

// FindMatches scores the users returned by a search against the subject and
// ranks them. The subject never appears among its own matches. With Persist
// set the ranking is written through to the match cache; a cache failure is
// logged and does not fail the call.
func (s *MatchService) FindMatches(ctx context.Context, in ports.FindMatchesInput) ([]domain.MatchScore, error) {
	subject, err := s.users.Get(ctx, in.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("find matches for %s: %w", in.SubjectID, err)
	}
	candidates, err := s.users.Search(ctx, in.Query, in.Limit)
	if err != nil {
		return nil, fmt.Errorf("find matches for %s: %w", in.SubjectID, err)
	}

	scores := make([]domain.MatchScore, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == subject.ID {
			continue
		}
		scores = append(scores, match.Score(*subject, *c))
	}
	metrics.MatchesComputedTotal.Add(float64(len(scores)))
	match.Rank(scores)

	if in.Persist && len(scores) > 0 {
		if err := s.cache.Put(ctx, subject.ID, scores...); err != nil {
			s.logger.Warn().Err(err).Str("user_id", subject.ID).Msg("failed to persist match scores")
		}
	}
	return scores, nil
}

// ScoreProjectTeam scores every collaborator of a project against its
// creator. Collaborators whose user record is gone are skipped.
func (s *MatchService) ScoreProjectTeam(ctx context.Context, projectID string) ([]domain.MatchScore, error) {
	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("score team of %s: %w", projectID, err)
	}
	creator, err := s.users.Get(ctx, project.CreatorUserID)
	if err != nil {
		return nil, fmt.Errorf("score team of %s: creator: %w", projectID, err)
	}
	ids, err := s.projects.CollaboratorIDs(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("score team of %s: %w", projectID, err)
	}

	scores := make([]domain.MatchScore, 0, len(ids))
	for _, id := range ids {
		if id == creator.ID {
			continue
		}
		member, err := s.users.Get(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			metrics.IndexDriftTotal.WithLabelValues("project_collaborators").Inc()
			s.logger.Warn().Str("project_id", projectID).Str("user_id", id).Msg("collaborator without user record")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("score team of %s: %w", projectID, err)
		}
		scores = append(scores, match.Score(*creator, *member))
	}
	metrics.MatchesComputedTotal.Add(float64(len(scores)))
	match.Rank(scores)
	return scores, nil
}

// Cached returns the subject's cached scores, ranked. The result may be
// stale and is empty when nothing is cached.
func (s *MatchService) Cached(ctx context.Context, subjectID string) ([]domain.MatchScore, error) {
	all, err := s.cache.All(ctx, subjectID)
	if err != nil {
		return nil, fmt.Errorf("cached matches for %s: %w", subjectID, err)
	}
	scores := make([]domain.MatchScore, 0, len(all))
	for _, sc := range all {
		scores = append(scores, sc)
	}
	match.Rank(scores)
	return scores, nil
}
