package domain

import "time"

// RequestStatus represents the lifecycle state of a collaboration request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAccepted RequestStatus = "accepted"
	RequestRejected RequestStatus = "rejected"
)

// validTransitions defines the allowed state machine transitions. Resolved
// requests are terminal.
var validTransitions = map[RequestStatus][]RequestStatus{
	RequestPending: {RequestAccepted, RequestRejected},
}

// CanTransitionTo reports whether a transition from current status to next is valid.
func (s RequestStatus) CanTransitionTo(next RequestStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// CollaborationRequest is an invitation from one user to another, optionally
// scoped to a project.
type CollaborationRequest struct {
	ID         string        `json:"id"`
	FromUserID string        `json:"fromUserId" validate:"required"`
	ToUserID   string        `json:"toUserId"   validate:"required,nefield=FromUserID"`
	ProjectID  string        `json:"projectId,omitempty"`
	Message    string        `json:"message"`
	Status     RequestStatus `json:"status"     validate:"oneof=pending accepted rejected"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// RequestStatusPatch is the only mutation a request accepts.
type RequestStatusPatch struct {
	Status RequestStatus `json:"status" validate:"required,oneof=accepted rejected"`
}
