package kvstore

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/collabhub/network/internal/core/ports"
)

// Index names a partitioned set index: <name>:<partition> -> set of ids.
type Index string

const (
	ProjectsByCreator       Index = "projects_by_creator"
	UserProjects            Index = "user_projects" // legacy alias of projects_by_creator
	ProjectCollaborators    Index = "project_collaborators"
	UserCollaborations      Index = "user_collaborations" // legacy alias of collaborations_by_user
	CollaborationsByProject Index = "collaborations_by_project"
	CollaborationsByUser    Index = "collaborations_by_user"
	TasksByProject          Index = "tasks_by_project"
	RequestsByRecipient     Index = "collab_requests_by_user"
)

// UniqueIndex names a hash index mapping an external value to one user id.
type UniqueIndex string

const (
	UsersByExternalIdentity UniqueIndex = "users_by_external_identity"
	UsersByWalletAddress    UniqueIndex = "users_by_wallet_address"
)

func (i Index) prefix() string              { return string(i) + ":" }
func (i Index) key(partition string) string { return i.prefix() + partition }
func (u UniqueIndex) key() string           { return string(u) }

// memberTarget maps each set index to the key of the entity its members
// reference.
var memberTarget = map[Index]func(string) string{
	ProjectsByCreator:       projectKey,
	UserProjects:            projectKey,
	ProjectCollaborators:    userKey,
	UserCollaborations:      collaborationKey,
	CollaborationsByProject: collaborationKey,
	CollaborationsByUser:    collaborationKey,
	TasksByProject:          taskKey,
	RequestsByRecipient:     requestKey,
}

// setIndexes lists the set indexes in a stable order.
var setIndexes = []Index{
	ProjectsByCreator,
	UserProjects,
	ProjectCollaborators,
	UserCollaborations,
	CollaborationsByProject,
	CollaborationsByUser,
	TasksByProject,
	RequestsByRecipient,
}

var uniqueIndexes = []UniqueIndex{UsersByExternalIdentity, UsersByWalletAddress}

// IndexManager maintains the secondary indexes on the same backend the
// entities live in. Writes are separate round trips from the entity write;
// only Swap is atomic.
type IndexManager struct {
	kv ports.KVBackend
}

func NewIndexManager(kv ports.KVBackend) *IndexManager {
	return &IndexManager{kv: kv}
}

func (m *IndexManager) AddMember(ctx context.Context, idx Index, partition, id string) error {
	if err := m.kv.SAdd(ctx, idx.key(partition), id); err != nil {
		return fmt.Errorf("index %s add: %w", idx, err)
	}
	return nil
}

func (m *IndexManager) RemoveMember(ctx context.Context, idx Index, partition string, ids ...string) error {
	if err := m.kv.SRem(ctx, idx.key(partition), ids...); err != nil {
		return fmt.Errorf("index %s remove: %w", idx, err)
	}
	return nil
}

// Members returns the ids in one partition, sorted ascending.
func (m *IndexManager) Members(ctx context.Context, idx Index, partition string) ([]string, error) {
	ids, err := m.kv.SMembers(ctx, idx.key(partition))
	if err != nil {
		return nil, fmt.Errorf("index %s members: %w", idx, err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Partitions returns every non-empty partition of idx, sorted ascending.
func (m *IndexManager) Partitions(ctx context.Context, idx Index) ([]string, error) {
	keys, err := m.kv.ScanPrefix(ctx, idx.prefix(), 0)
	if err != nil {
		return nil, fmt.Errorf("index %s partitions: %w", idx, err)
	}
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, strings.TrimPrefix(k, idx.prefix()))
	}
	sort.Strings(out)
	return out, nil
}

// Lookup resolves value to the owning user id.
func (m *IndexManager) Lookup(ctx context.Context, u UniqueIndex, value string) (string, bool, error) {
	id, ok, err := m.kv.HGet(ctx, u.key(), value)
	if err != nil {
		return "", false, fmt.Errorf("index %s lookup: %w", u, err)
	}
	return id, ok, nil
}

func (m *IndexManager) Bind(ctx context.Context, u UniqueIndex, value, id string) error {
	if err := m.kv.HSet(ctx, u.key(), map[string]string{value: id}); err != nil {
		return fmt.Errorf("index %s bind: %w", u, err)
	}
	return nil
}

// Swap retires oldValue and binds newValue to id in one atomic step. Either
// value may be empty.
func (m *IndexManager) Swap(ctx context.Context, u UniqueIndex, oldValue, newValue, id string) error {
	if oldValue == newValue {
		if newValue == "" {
			return nil
		}
		return m.Bind(ctx, u, newValue, id)
	}
	if err := m.kv.HSwap(ctx, u.key(), oldValue, newValue, id); err != nil {
		return fmt.Errorf("index %s swap: %w", u, err)
	}
	return nil
}

func (m *IndexManager) Unbind(ctx context.Context, u UniqueIndex, value string) error {
	if err := m.kv.HDel(ctx, u.key(), value); err != nil {
		return fmt.Errorf("index %s unbind: %w", u, err)
	}
	return nil
}

// Entries returns the whole value -> id mapping of u.
func (m *IndexManager) Entries(ctx context.Context, u UniqueIndex) (map[string]string, error) {
	all, err := m.kv.HGetAll(ctx, u.key())
	if err != nil {
		return nil, fmt.Errorf("index %s entries: %w", u, err)
	}
	return all, nil
}
