package domain

import "time"

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectDraft     ProjectStatus = "draft"
	ProjectActive    ProjectStatus = "active"
	ProjectCompleted ProjectStatus = "completed"
	ProjectPaused    ProjectStatus = "paused"
)

// Milestone is owned by its Project and stored inside the project record.
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	Completed   bool       `json:"completed"`
}

type Project struct {
	ID            string        `json:"projectId"`
	Name          string        `json:"name"          validate:"required"`
	Description   string        `json:"description"   validate:"required"`
	Goals         []string      `json:"goals"`
	Milestones    []Milestone   `json:"milestones"`
	Status        ProjectStatus `json:"status"        validate:"oneof=draft active completed paused"`
	CreatorUserID string        `json:"creatorUserId" validate:"required"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ProjectPatch carries the fields an update may change. The creator is
// immutable because it partitions the projects-by-creator index.
type ProjectPatch struct {
	Name        *string        `json:"name,omitempty"`
	Description *string        `json:"description,omitempty"`
	Goals       *[]string      `json:"goals,omitempty"`
	Milestones  *[]Milestone   `json:"milestones,omitempty"`
	Status      *ProjectStatus `json:"status,omitempty"`
}

func (p ProjectPatch) Apply(pr *Project) {
	setString(&pr.Name, p.Name)
	setString(&pr.Description, p.Description)
	setList(&pr.Goals, p.Goals)
	if p.Milestones != nil {
		pr.Milestones = append([]Milestone(nil), (*p.Milestones)...)
	}
	if p.Status != nil {
		pr.Status = *p.Status
	}
}
