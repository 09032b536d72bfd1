package school

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orgs    map[uuid.UUID]model.Organization
	schools map[uuid.UUID]model.School
	creates int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		orgs:    make(map[uuid.UUID]model.Organization),
		schools: make(map[uuid.UUID]model.School),
	}
}

func (f *fakeRepo) Create(_ context.Context, s *model.School) error {
	f.creates++
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	f.schools[s.ID] = *s
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (model.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return model.School{}, ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) CodeTaken(_ context.Context, orgID uuid.UUID, code string) (bool, error) {
	for _, s := range f.schools {
		if s.Code == code && s.OrganizationID != nil && *s.OrganizationID == orgID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CountByOrganization(_ context.Context, orgID uuid.UUID) (int64, error) {
	var n int64
	for _, s := range f.schools {
		if s.OrganizationID != nil && *s.OrganizationID == orgID {
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) List(_ context.Context, scope tenant.Scope) ([]model.School, error) {
	var out []model.School
	for _, s := range f.schools {
		switch scope.Kind {
		case tenant.KindGlobal:
			out = append(out, s)
		case tenant.KindOrganization:
			if s.OrganizationID != nil && *s.OrganizationID == scope.OrganizationID {
				out = append(out, s)
			}
		case tenant.KindSchool:
			if s.ID == scope.SchoolID {
				out = append(out, s)
			}
		}
	}
	return out, nil
}

func (f *fakeRepo) Save(_ context.Context, s *model.School) error {
	f.schools[s.ID] = *s
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.schools[id]; !ok {
		return ErrNotFound
	}
	delete(f.schools, id)
	return nil
}

func (f *fakeRepo) GetOrganization(_ context.Context, id uuid.UUID) (model.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return model.Organization{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) addOrg(maxSchools int) model.Organization {
	o := model.Organization{ID: uuid.New(), MaxSchools: maxSchools, Active: true}
	f.orgs[o.ID] = o
	return o
}

func (f *fakeRepo) addSchool(orgID uuid.UUID, code string) model.School {
	s := model.School{ID: uuid.New(), OrganizationID: &orgID, Code: code, Active: true}
	f.schools[s.ID] = s
	return s
}

func orgAdmin(orgID uuid.UUID) model.User {
	return model.User{ID: uuid.New(), Role: model.RoleOrgAdmin, OrganizationID: &orgID}
}

func TestCreateByOrgAdminForcesOwnOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(10)
	foreign := uuid.New()

	sch, err := svc.Create(context.Background(), orgAdmin(org.ID), CreateSchool{
		OrganizationID: &foreign, // rejected, not silently rewritten
		Code:           "LHR-01",
		Name:           "Lahore Campus",
	})
	assert.ErrorIs(t, err, ErrCrossTenantViolation)

	sch, err = svc.Create(context.Background(), orgAdmin(org.ID), CreateSchool{
		Code: "LHR-01",
		Name: "Lahore Campus",
	})
	require.NoError(t, err)
	require.NotNil(t, sch.OrganizationID)
	assert.Equal(t, org.ID, *sch.OrganizationID)
	assert.True(t, sch.Active)
}

func TestCreateByPlatformAdminNeedsExplicitOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(10)
	admin := model.User{ID: uuid.New(), Role: model.RolePlatformAdmin}

	_, err := svc.Create(context.Background(), admin, CreateSchool{Code: "KHI-01", Name: "Karachi Campus"})
	assert.ErrorIs(t, err, ErrOrganizationRequired)

	sch, err := svc.Create(context.Background(), admin, CreateSchool{
		OrganizationID: &org.ID,
		Code:           "KHI-01",
		Name:           "Karachi Campus",
	})
	require.NoError(t, err)
	assert.Equal(t, org.ID, *sch.OrganizationID)
}

func TestCreateBySchoolScopedRoleRejected(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(10)
	schoolID := uuid.New()
	creator := model.User{
		ID: uuid.New(), Role: model.RoleSchoolAdmin,
		OrganizationID: &org.ID, SchoolID: &schoolID,
	}

	_, err := svc.Create(context.Background(), creator, CreateSchool{Code: "X", Name: "X"})
	assert.ErrorIs(t, err, ErrCrossTenantViolation)
	assert.Zero(t, repo.creates)
}

func TestCreateEnforcesSchoolLimit(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(2)
	repo.addSchool(org.ID, "A")
	repo.addSchool(org.ID, "B")

	_, err := svc.Create(context.Background(), orgAdmin(org.ID), CreateSchool{Code: "C", Name: "Third"})
	assert.ErrorIs(t, err, ErrSchoolLimitReached)
}

func TestCreateDuplicateCodeWithinOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(10)
	repo.addSchool(org.ID, "LHR-01")

	_, err := svc.Create(context.Background(), orgAdmin(org.ID), CreateSchool{Code: "LHR-01", Name: "Dup"})
	assert.ErrorIs(t, err, ErrCodeTaken)

	// Same code under a different organization is fine.
	other := repo.addOrg(10)
	_, err = svc.Create(context.Background(), orgAdmin(other.ID), CreateSchool{Code: "LHR-01", Name: "Other"})
	assert.NoError(t, err)
}

func TestGetHonorsScope(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	orgA := repo.addOrg(10)
	orgB := repo.addOrg(10)
	schB := repo.addSchool(orgB.ID, "B-01")

	scopeA := tenant.Scope{Kind: tenant.KindOrganization, OrganizationID: orgA.ID}
	_, err := svc.Get(context.Background(), scopeA, schB.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.Get(context.Background(), tenant.Scope{Kind: tenant.KindGlobal}, schB.ID)
	require.NoError(t, err)
	assert.Equal(t, schB.ID, got.ID)

	scopeSchool := tenant.Scope{Kind: tenant.KindSchool, SchoolID: schB.ID}
	got, err = svc.Get(context.Background(), scopeSchool, schB.ID)
	require.NoError(t, err)
	assert.Equal(t, schB.ID, got.ID)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org := repo.addOrg(10)
	sch := repo.addSchool(org.ID, "LHR-01")

	name := "Renamed Campus"
	city := "Lahore"
	scope := tenant.Scope{Kind: tenant.KindOrganization, OrganizationID: org.ID}

	got, err := svc.Update(context.Background(), scope, sch.ID, UpdateSchool{Name: &name, City: &city})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	assert.Equal(t, city, got.City)
	assert.Equal(t, "LHR-01", got.Code)
}

func TestDeleteOutsideScope(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	orgA := repo.addOrg(10)
	orgB := repo.addOrg(10)
	schB := repo.addSchool(orgB.ID, "B-01")

	scopeA := tenant.Scope{Kind: tenant.KindOrganization, OrganizationID: orgA.ID}
	err := svc.Delete(context.Background(), scopeA, schB.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	scopeB := tenant.Scope{Kind: tenant.KindOrganization, OrganizationID: orgB.ID}
	require.NoError(t, svc.Delete(context.Background(), scopeB, schB.ID))
	assert.NotContains(t, repo.schools, schB.ID)
}
