package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/collabhub/network/internal/core/domain"
)

// listParams are the query parameters shared by search endpoints. A zero
// limit selects the store default.
type listParams struct {
	Query string `json:"q"`
	Limit int    `json:"limit" validate:"gte=0,lte=100"`
}

func bindListParams(c echo.Context) (listParams, error) {
	var p listParams
	err := echo.QueryParamsBinder(c).
		String("q", &p.Query).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(p); err != nil {
		return p, err
	}
	return p, nil
}

// listResponse wraps every collection payload.
type listResponse[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func newListResponse[T any](items []T) listResponse[T] {
	if items == nil {
		items = []T{}
	}
	return listResponse[T]{Items: items, Count: len(items)}
}

type createUserRequest struct {
	ID               string   `json:"userId"`
	ExternalIdentity string   `json:"externalIdentity"`
	DisplayName      string   `json:"displayName"`
	Bio              string   `json:"bio"`
	Skills           []string `json:"skills"`
	Values           []string `json:"values"`
	Goals            []string `json:"goals"`
	WalletAddress    string   `json:"walletAddress"`
	AvatarURL        string   `json:"avatarUrl"`
}

func (r createUserRequest) toDomain() domain.User {
	return domain.User{
		ID:               r.ID,
		ExternalIdentity: r.ExternalIdentity,
		DisplayName:      r.DisplayName,
		Bio:              r.Bio,
		Skills:           r.Skills,
		Values:           r.Values,
		Goals:            r.Goals,
		WalletAddress:    r.WalletAddress,
		AvatarURL:        r.AvatarURL,
	}
}

type createProjectRequest struct {
	ID            string               `json:"projectId"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Goals         []string             `json:"goals"`
	Milestones    []domain.Milestone   `json:"milestones"`
	Status        domain.ProjectStatus `json:"status"`
	CreatorUserID string               `json:"creatorUserId"`
}

func (r createProjectRequest) toDomain() domain.Project {
	return domain.Project{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Goals:         r.Goals,
		Milestones:    r.Milestones,
		Status:        r.Status,
		CreatorUserID: r.CreatorUserID,
	}
}

type createCollaborationRequest struct {
	ID                  string    `json:"collaborationId"`
	ProjectID           string    `json:"projectId"`
	UserID              string    `json:"userId"`
	Role                string    `json:"role"`
	ContributionSummary string    `json:"contributionSummary"`
	MutualBenefitScore  float64   `json:"mutualBenefitScore"`
	JoinedAt            time.Time `json:"joinedAt"`
}

func (r createCollaborationRequest) toDomain() domain.Collaboration {
	return domain.Collaboration{
		ID:                  r.ID,
		ProjectID:           r.ProjectID,
		UserID:              r.UserID,
		Role:                r.Role,
		ContributionSummary: r.ContributionSummary,
		MutualBenefitScore:  r.MutualBenefitScore,
		JoinedAt:            r.JoinedAt,
	}
}

type createTaskRequest struct {
	ID             string            `json:"taskId"`
	ProjectID      string            `json:"projectId"`
	AssignedUserID string            `json:"assignedUserId"`
	Description    string            `json:"description"`
	Status         domain.TaskStatus `json:"status"`
	DueDate        *time.Time        `json:"dueDate"`
}

func (r createTaskRequest) toDomain() domain.Task {
	return domain.Task{
		ID:             r.ID,
		ProjectID:      r.ProjectID,
		AssignedUserID: r.AssignedUserID,
		Description:    r.Description,
		Status:         r.Status,
		DueDate:        r.DueDate,
	}
}

// sendRequestRequest omits status: a new request is always pending.
type sendRequestRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   string `json:"toUserId"`
	ProjectID  string `json:"projectId"`
	Message    string `json:"message"`
}

func (r sendRequestRequest) toDomain() domain.CollaborationRequest {
	return domain.CollaborationRequest{
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		ProjectID:  r.ProjectID,
		Message:    r.Message,
	}
}

type onboardingResponse struct {
	User    *domain.User `json:"user"`
	Created bool         `json:"created"`
}
