package domain

import "time"

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

type Task struct {
	ID             string     `json:"taskId"`
	ProjectID      string     `json:"projectId"   validate:"required"`
	AssignedUserID string     `json:"assignedUserId"`
	Description    string     `json:"description" validate:"required"`
	Status         TaskStatus `json:"status"      validate:"oneof=todo in-progress completed"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
}

// TaskPatch changes a task in place. ClearDueDate removes the due date and
// takes precedence over DueDate.
type TaskPatch struct {
	AssignedUserID *string     `json:"assignedUserId,omitempty"`
	Description    *string     `json:"description,omitempty"`
	Status         *TaskStatus `json:"status,omitempty"`
	DueDate        *time.Time  `json:"dueDate,omitempty"`
	ClearDueDate   bool        `json:"clearDueDate,omitempty"`
}

func (p TaskPatch) Apply(t *Task) {
	setString(&t.AssignedUserID, p.AssignedUserID)
	setString(&t.Description, p.Description)
	if p.Status != nil {
		t.Status = *p.Status
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		d := *p.DueDate
		t.DueDate = &d
	}
}
