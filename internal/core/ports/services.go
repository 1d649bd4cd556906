package ports

import (
	"context"

	"github.com/collabhub/network/internal/core/domain"
)

// FindMatchesInput carries the parameters of a match search.
type FindMatchesInput struct {
	SubjectID string
	Query     string // substring filter on candidates; empty matches everyone examined
	Limit     int
	Persist   bool // write computed scores through to the match cache
}

// MatchService ranks candidates against a subject user.
type MatchService interface {
	FindMatches(ctx context.Context, in FindMatchesInput) ([]domain.MatchScore, error)
	ScoreProjectTeam(ctx context.Context, projectID string) ([]domain.MatchScore, error)
	Cached(ctx context.Context, subjectID string) ([]domain.MatchScore, error)
}

// OnboardingService turns an asserted external identity into a user.
type OnboardingService interface {
	Onboard(ctx context.Context, rec domain.IdentityRecord) (*domain.User, bool, error)
}

// RequestService drives the collaboration request lifecycle.
type RequestService interface {
	Send(ctx context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error)
	Respond(ctx context.Context, id string, status domain.RequestStatus) (*domain.CollaborationRequest, error)
}

// ReconcileReport summarises one repair pass over the secondary indexes.
type ReconcileReport struct {
	PartitionsScanned int            `json:"partitionsScanned"`
	MembersChecked    int            `json:"membersChecked"`
	Evicted           map[string]int `json:"evicted"` // index name -> evicted entries
}

// Total returns the number of evicted entries across all indexes.
func (r ReconcileReport) Total() int {
	n := 0
	for _, v := range r.Evicted {
		n += v
	}
	return n
}

// Reconciler evicts index entries that no longer resolve to an entity.
type Reconciler interface {
	Reconcile(ctx context.Context) (ReconcileReport, error)
}
