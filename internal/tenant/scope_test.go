package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePlatformAdmin(t *testing.T) {
	scope, err := Resolve(Principal{UserID: uuid.New(), Role: model.RolePlatformAdmin})
	require.NoError(t, err)
	assert.Equal(t, KindGlobal, scope.Kind)
	assert.True(t, scope.Global())
	assert.Equal(t, uuid.Nil, scope.OrganizationID)
	assert.Equal(t, uuid.Nil, scope.SchoolID)
}

func TestResolveOrgAdmin(t *testing.T) {
	orgID := uuid.New()
	scope, err := Resolve(Principal{
		UserID:         uuid.New(),
		Role:           model.RoleOrgAdmin,
		OrganizationID: &orgID,
	})
	require.NoError(t, err)
	assert.Equal(t, KindOrganization, scope.Kind)
	assert.Equal(t, orgID, scope.OrganizationID)
	assert.False(t, scope.Global())
}

func TestResolveOrgAdminWithoutOrganization(t *testing.T) {
	_, err := Resolve(Principal{UserID: uuid.New(), Role: model.RoleOrgAdmin})
	assert.ErrorIs(t, err, ErrUnresolvedScope)
}

func TestResolveSchoolScopedRoles(t *testing.T) {
	orgID := uuid.New()
	schoolID := uuid.New()

	roles := []model.Role{
		model.RoleSchoolAdmin,
		model.RolePrincipal,
		model.RoleTeacher,
		model.RoleAccountant,
		model.RoleParent,
		model.RoleStudent,
	}
	for _, r := range roles {
		t.Run(r.String(), func(t *testing.T) {
			scope, err := Resolve(Principal{
				UserID:         uuid.New(),
				Role:           r,
				OrganizationID: &orgID,
				SchoolID:       &schoolID,
			})
			require.NoError(t, err)
			assert.Equal(t, KindSchool, scope.Kind)
			assert.Equal(t, schoolID, scope.SchoolID)
			assert.Equal(t, orgID, scope.OrganizationID)
		})
	}
}

func TestResolveSchoolRoleWithoutSchool(t *testing.T) {
	orgID := uuid.New()
	_, err := Resolve(Principal{
		UserID:         uuid.New(),
		Role:           model.RoleTeacher,
		OrganizationID: &orgID,
	})
	assert.ErrorIs(t, err, ErrUnresolvedScope)
}

func TestResolveSchoolRoleWithoutOrganization(t *testing.T) {
	// A school id alone is enough; the organization id is optional context.
	schoolID := uuid.New()
	scope, err := Resolve(Principal{
		UserID:   uuid.New(),
		Role:     model.RoleReceptionist,
		SchoolID: &schoolID,
	})
	require.NoError(t, err)
	assert.Equal(t, KindSchool, scope.Kind)
	assert.Equal(t, uuid.Nil, scope.OrganizationID)
}

func TestPrincipalFromUser(t *testing.T) {
	orgID := uuid.New()
	u := model.User{
		ID:             uuid.New(),
		Role:           model.RoleOrgAdmin,
		OrganizationID: &orgID,
	}
	p := PrincipalFromUser(u)
	assert.Equal(t, u.ID, p.UserID)
	assert.Equal(t, model.RoleOrgAdmin, p.Role)
	require.NotNil(t, p.OrganizationID)
	assert.Equal(t, orgID, *p.OrganizationID)
	assert.Nil(t, p.SchoolID)
}
