package domain

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestValidate_ReportsJSONNames(t *testing.T) {
	err := Validate(User{})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	for _, want := range []string{"displayName is required", "bio is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("expected %q in %q", want, err.Error())
		}
	}
}

func TestValidate_RequestToSelf(t *testing.T) {
	err := Validate(CollaborationRequest{FromUserID: "a", ToUserID: "a", Status: RequestPending})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if !strings.Contains(err.Error(), "toUserId must differ from fromUserId") {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestValidate_Enums(t *testing.T) {
	cases := []struct {
		name string
		v    any
		ok   bool
	}{
		{"project draft", Project{Name: "n", Description: "d", CreatorUserID: "u", Status: ProjectDraft}, true},
		{"project bogus status", Project{Name: "n", Description: "d", CreatorUserID: "u", Status: "archived"}, false},
		{"task in-progress", Task{ProjectID: "p", Description: "d", Status: TaskInProgress}, true},
		{"task bogus status", Task{ProjectID: "p", Description: "d", Status: "done"}, false},
		{"negative benefit", Collaboration{ProjectID: "p", UserID: "u", Role: "r", MutualBenefitScore: -1}, false},
		{"patch to pending", RequestStatusPatch{Status: RequestPending}, false},
		{"patch to accepted", RequestStatusPatch{Status: RequestAccepted}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.v)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestRequestStatus_Transitions(t *testing.T) {
	cases := []struct {
		from, to RequestStatus
		want     bool
	}{
		{RequestPending, RequestAccepted, true},
		{RequestPending, RequestRejected, true},
		{RequestPending, RequestPending, false},
		{RequestAccepted, RequestRejected, false},
		{RequestRejected, RequestAccepted, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestUserPatch_Apply(t *testing.T) {
	u := User{DisplayName: "Alice", Bio: "old", Skills: []string{"go"}}
	skills := []string{"rust"}
	bio := "new"

	UserPatch{Bio: &bio, Skills: &skills}.Apply(&u)
	skills[0] = "mutated"

	if u.DisplayName != "Alice" || u.Bio != "new" {
		t.Errorf("unexpected user %+v", u)
	}
	if len(u.Skills) != 1 || u.Skills[0] != "rust" {
		t.Errorf("patch list must be copied, got %v", u.Skills)
	}
}

func TestTaskPatch_ClearWins(t *testing.T) {
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	task := Task{DueDate: &due}
	other := due.Add(24 * time.Hour)

	TaskPatch{DueDate: &other, ClearDueDate: true}.Apply(&task)
	if task.DueDate != nil {
		t.Fatalf("expected cleared due date, got %v", task.DueDate)
	}
}

func TestNextUpdate(t *testing.T) {
	prev := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	if got := NextUpdate(prev, prev.Add(time.Second)); !got.Equal(prev.Add(time.Second)) {
		t.Errorf("expected now, got %v", got)
	}
	if got := NextUpdate(prev, prev); !got.After(prev) {
		t.Errorf("expected strictly later than %v, got %v", prev, got)
	}
	if got := NextUpdate(prev, prev.Add(-time.Hour)); !got.After(prev) {
		t.Errorf("clock skew must not move updatedAt back, got %v", got)
	}
}
