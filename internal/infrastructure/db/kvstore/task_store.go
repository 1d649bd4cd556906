package kvstore

import (
	"context"
	"time"

	"github.com/collabhub/network/internal/core/domain"
)

type TaskStore struct {
	*base
}

// Create writes t under its project. A missing status defaults to todo.
func (s *TaskStore) Create(ctx context.Context, t domain.Task) (_ *domain.Task, err error) {
	start := time.Now()
	defer func() { observe("task", "create", start, err) }()

	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	if err := domain.Validate(t); err != nil {
		return nil, err
	}
	if t.ID, err = s.ensureID(t.ID); err != nil {
		return nil, err
	}
	t.DueDate = normalizeOpt(t.DueDate)

	if err := s.save(ctx, taskKey(t.ID), encodeTask(&t)); err != nil {
		return nil, err
	}
	if err := s.idx.AddMember(ctx, TasksByProject, t.ProjectID, t.ID); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *TaskStore) Get(ctx context.Context, id string) (_ *domain.Task, err error) {
	start := time.Now()
	defer func() { observe("task", "get", start, err) }()
	return s.get(ctx, id)
}

func (s *TaskStore) Update(ctx context.Context, id string, patch domain.TaskPatch) (_ *domain.Task, err error) {
	start := time.Now()
	defer func() { observe("task", "update", start, err) }()

	cur, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	next := *cur
	patch.Apply(&next)
	if err := domain.Validate(next); err != nil {
		return nil, err
	}
	next.DueDate = normalizeOpt(next.DueDate)
	if err := s.save(ctx, taskKey(id), encodeTask(&next)); err != nil {
		return nil, err
	}
	return &next, nil
}

func (s *TaskStore) ListByProject(ctx context.Context, projectID string) (_ []*domain.Task, err error) {
	start := time.Now()
	defer func() { observe("task", "list", start, err) }()
	return listIndexed(ctx, s.base, TasksByProject, projectID, s.get)
}

func (s *TaskStore) get(ctx context.Context, id string) (*domain.Task, error) {
	rec, err := s.load(ctx, taskKey(id))
	if err != nil {
		return nil, err
	}
	return decodeTask(id, rec)
}

func encodeTask(t *domain.Task) record {
	return record{
		"id":             t.ID,
		"projectId":      t.ProjectID,
		"assignedUserId": t.AssignedUserID,
		"description":    t.Description,
		"status":         string(t.Status),
		"dueDate":        encodeOptTime(t.DueDate),
	}
}

func decodeTask(id string, rec record) (*domain.Task, error) {
	d := newDecoder("task", id, rec)
	t := &domain.Task{
		ID:             id,
		ProjectID:      d.str("projectId"),
		AssignedUserID: d.str("assignedUserId"),
		Description:    d.str("description"),
		Status:         domain.TaskStatus(d.str("status")),
		DueDate:        d.optTimestamp("dueDate"),
	}
	if d.err != nil {
		return nil, d.err
	}
	return t, nil
}
