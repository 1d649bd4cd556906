package domain

import "time"

// Collaboration is a user's accepted membership in a project.
type Collaboration struct {
	ID                  string    `json:"collaborationId"`
	ProjectID           string    `json:"projectId" validate:"required"`
	UserID              string    `json:"userId"    validate:"required"`
	Role                string    `json:"role"      validate:"required"`
	ContributionSummary string    `json:"contributionSummary"`
	MutualBenefitScore  float64   `json:"mutualBenefitScore" validate:"gte=0"`
	JoinedAt            time.Time `json:"joinedAt"`
}

// CollaborationPatch changes the descriptive fields of a membership. The
// project and user are fixed: they partition three indexes.
type CollaborationPatch struct {
	Role                *string  `json:"role,omitempty"`
	ContributionSummary *string  `json:"contributionSummary,omitempty"`
	MutualBenefitScore  *float64 `json:"mutualBenefitScore,omitempty"`
}

func (p CollaborationPatch) Apply(c *Collaboration) {
	setString(&c.Role, p.Role)
	setString(&c.ContributionSummary, p.ContributionSummary)
	if p.MutualBenefitScore != nil {
		c.MutualBenefitScore = *p.MutualBenefitScore
	}
}
