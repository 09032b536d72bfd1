package user

import (
	"context"
	"testing"

	"github.com/maktab/maktab/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedPlatformAdmin(t *testing.T) {
	repo := newFakeRepo()

	created, err := SeedPlatformAdmin(context.Background(), repo, "admin@maktab.local", "bootstrap-pass")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, repo.users, 1)

	for _, u := range repo.users {
		assert.Equal(t, model.RolePlatformAdmin, u.Role)
		assert.Equal(t, model.StatusActive, u.Status)
		assert.Nil(t, u.OrganizationID)
		assert.Nil(t, u.SchoolID)
	}

	// Idempotent: an existing platform admin blocks a second seed.
	created, err = SeedPlatformAdmin(context.Background(), repo, "admin@maktab.local", "bootstrap-pass")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Len(t, repo.users, 1)
}

func TestSeedPlatformAdminRefusesEmptyPassword(t *testing.T) {
	repo := newFakeRepo()

	_, err := SeedPlatformAdmin(context.Background(), repo, "admin@maktab.local", "")
	assert.ErrorIs(t, err, ErrSeedPasswordMissing)
	assert.Empty(t, repo.users)
}
