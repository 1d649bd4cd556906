package ports

import (
	"context"

	"github.com/collabhub/network/internal/core/domain"
)

// UserStore persists users and maintains the two unique user indexes.
type UserStore interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	GetByExternalIdentity(ctx context.Context, externalID string) (*domain.User, error)
	GetByWalletAddress(ctx context.Context, address string) (*domain.User, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.User, error)
}

type ProjectStore interface {
	Create(ctx context.Context, p domain.Project) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	Update(ctx context.Context, id string, patch domain.ProjectPatch) (*domain.Project, error)
	ListByCreator(ctx context.Context, creatorID string) ([]*domain.Project, error)
	// CollaboratorIDs returns the user ids holding a membership in the project.
	CollaboratorIDs(ctx context.Context, projectID string) ([]string, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Project, error)
}

type CollaborationStore interface {
	Create(ctx context.Context, c domain.Collaboration) (*domain.Collaboration, error)
	Get(ctx context.Context, id string) (*domain.Collaboration, error)
	Update(ctx context.Context, id string, patch domain.CollaborationPatch) (*domain.Collaboration, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Collaboration, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Collaboration, error)
}

type TaskStore interface {
	Create(ctx context.Context, t domain.Task) (*domain.Task, error)
	Get(ctx context.Context, id string) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.Task, error)
}

type RequestStore interface {
	Create(ctx context.Context, r domain.CollaborationRequest) (*domain.CollaborationRequest, error)
	Get(ctx context.Context, id string) (*domain.CollaborationRequest, error)
	// UpdateStatus resolves a pending request. Resolved requests reject any
	// further change with domain.ErrInvalidTransition.
	UpdateStatus(ctx context.Context, id string, patch domain.RequestStatusPatch) (*domain.CollaborationRequest, error)
	ListByRecipient(ctx context.Context, userID string) ([]*domain.CollaborationRequest, error)
}

// MatchCache is an advisory memo of computed scores. It may be stale.
type MatchCache interface {
	Put(ctx context.Context, subjectID string, scores ...domain.MatchScore) error
	All(ctx context.Context, subjectID string) (map[string]domain.MatchScore, error)
	Invalidate(ctx context.Context, subjectID string) error
}
