package organization

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/maktab/maktab/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	orgs map[uuid.UUID]model.Organization
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{orgs: make(map[uuid.UUID]model.Organization)}
}

func (f *fakeRepo) Create(_ context.Context, o *model.Organization) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	f.orgs[o.ID] = *o
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (model.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return model.Organization{}, ErrNotFound
	}
	return o, nil
}

func (f *fakeRepo) GetByCode(_ context.Context, code string) (model.Organization, error) {
	for _, o := range f.orgs {
		if o.Code == code {
			return o, nil
		}
	}
	return model.Organization{}, ErrNotFound
}

func (f *fakeRepo) List(_ context.Context) ([]model.Organization, error) {
	out := make([]model.Organization, 0, len(f.orgs))
	for _, o := range f.orgs {
		out = append(out, o)
	}
	return out, nil
}

func (f *fakeRepo) Save(_ context.Context, o *model.Organization) error {
	f.orgs[o.ID] = *o
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.orgs[id]; !ok {
		return ErrNotFound
	}
	delete(f.orgs, id)
	return nil
}

func TestCreateOrganization(t *testing.T) {
	svc := NewService(newFakeRepo())

	org, err := svc.Create(context.Background(), CreateOrganization{
		Code: "BEACON",
		Name: "Beaconhouse Group",
	})
	require.NoError(t, err)
	assert.True(t, org.Active)
	assert.Equal(t, 10, org.MaxSchools, "default school limit")

	capped, err := svc.Create(context.Background(), CreateOrganization{
		Code:       "CITY",
		Name:       "City Schools",
		MaxSchools: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, capped.MaxSchools)
}

func TestCreateOrganizationDuplicateCode(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Create(context.Background(), CreateOrganization{Code: "BEACON", Name: "First"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateOrganization{Code: "BEACON", Name: "Second"})
	assert.ErrorIs(t, err, ErrCodeTaken)
}

func TestUpdateOrganizationPartial(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	org, err := svc.Create(context.Background(), CreateOrganization{Code: "BEACON", Name: "Beaconhouse"})
	require.NoError(t, err)

	limit := 25
	active := false
	got, err := svc.Update(context.Background(), org.ID, UpdateOrganization{
		MaxSchools: &limit,
		Active:     &active,
	})
	require.NoError(t, err)
	assert.Equal(t, 25, got.MaxSchools)
	assert.False(t, got.Active)
	assert.Equal(t, "Beaconhouse", got.Name)
}

func TestDeleteOrganization(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	err := svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	org, err := svc.Create(context.Background(), CreateOrganization{Code: "BEACON", Name: "Beaconhouse"})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), org.ID))
	assert.NotContains(t, repo.orgs, org.ID)
}
