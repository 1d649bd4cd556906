package kvstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/collabhub/network/internal/core/domain"
)

func TestCollaborationStore_CreateMaintainsIndexes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.store.Collaborations.Create(ctx, domain.Collaboration{
		ID:                  "c1",
		ProjectID:           "p1",
		UserID:              "u1",
		Role:                "engineer",
		ContributionSummary: "smart contracts",
		MutualBenefitScore:  72.5,
	})
	require.NoError(t, err)
	assert.Equal(t, t0, c.JoinedAt)

	for _, tc := range []struct {
		idx       Index
		partition string
		want      []string
	}{
		{CollaborationsByProject, "p1", []string{"c1"}},
		{CollaborationsByUser, "u1", []string{"c1"}},
		{UserCollaborations, "u1", []string{"c1"}},
		{ProjectCollaborators, "p1", []string{"u1"}},
	} {
		got, err := f.store.Indexes.Members(ctx, tc.idx, tc.partition)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got, tc.idx)
	}

	got, err := f.store.Collaborations.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, c, got)
}

func TestCollaborationStore_KeepsGivenJoinedAt(t *testing.T) {
	f := newFixture(t)
	joined := time.Date(2025, 12, 24, 18, 30, 0, 0, time.FixedZone("EST", -5*3600))

	c, err := f.store.Collaborations.Create(context.Background(), domain.Collaboration{
		ProjectID: "p1", UserID: "u1", Role: "dev", JoinedAt: joined,
	})
	require.NoError(t, err)
	assert.True(t, joined.Equal(c.JoinedAt))
	assert.Equal(t, time.UTC, c.JoinedAt.Location())
}

func TestCollaborationStore_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.store.Collaborations.Create(ctx, domain.Collaboration{ProjectID: "p1", UserID: "u1"})
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "role is required")

	_, err = f.store.Collaborations.Create(ctx, domain.Collaboration{ProjectID: "p1", UserID: "u1", Role: "dev", MutualBenefitScore: -1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCollaborationStore_ListByProjectAndUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, c := range []domain.Collaboration{
		{ID: "c1", ProjectID: "p1", UserID: "u1", Role: "dev"},
		{ID: "c2", ProjectID: "p1", UserID: "u2", Role: "design"},
		{ID: "c3", ProjectID: "p2", UserID: "u1", Role: "dev"},
	} {
		_, err := f.store.Collaborations.Create(ctx, c)
		require.NoError(t, err)
	}

	byProject, err := f.store.Collaborations.ListByProject(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, "c1", byProject[0].ID)
	assert.Equal(t, "c2", byProject[1].ID)

	require.NoError(t, f.kv.Del(ctx, collaborationKey("c3")))
	byUser, err := f.store.Collaborations.ListByUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)
	assert.Equal(t, "c1", byUser[0].ID)
}

func TestCollaborationStore_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orig, err := f.store.Collaborations.Create(ctx, domain.Collaboration{ID: "c1", ProjectID: "p1", UserID: "u1", Role: "dev"})
	require.NoError(t, err)

	updated, err := f.store.Collaborations.Update(ctx, "c1", domain.CollaborationPatch{MutualBenefitScore: ptr(88.0)})
	require.NoError(t, err)
	assert.Equal(t, 88.0, updated.MutualBenefitScore)
	assert.Equal(t, orig.Role, updated.Role)
	assert.Equal(t, orig.JoinedAt, updated.JoinedAt)

	got, err := f.store.Collaborations.Get(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	_, err = f.store.Collaborations.Update(ctx, "c1", domain.CollaborationPatch{Role: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
