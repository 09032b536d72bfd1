package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/maktab/maktab/internal/middleware"
	"github.com/maktab/maktab/internal/model"
	"github.com/maktab/maktab/internal/school"
	"github.com/maktab/maktab/internal/student"
	"github.com/maktab/maktab/internal/tenant"
	"github.com/maktab/maktab/pkg/jwtutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStudentRepo backs the student service in handler tests.
type fakeStudentRepo struct {
	students map[uuid.UUID]model.Student
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: make(map[uuid.UUID]model.Student)}
}

func (f *fakeStudentRepo) Create(_ context.Context, st *model.Student) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	f.students[st.ID] = *st
	return nil
}

func (f *fakeStudentRepo) GetByID(_ context.Context, schoolID, id uuid.UUID) (model.Student, error) {
	st, ok := f.students[id]
	if !ok || st.SchoolID != schoolID {
		return model.Student{}, student.ErrNotFound
	}
	return st, nil
}

func (f *fakeStudentRepo) RegistrationNoTaken(_ context.Context, schoolID uuid.UUID, regNo string) (bool, error) {
	for _, st := range f.students {
		if st.SchoolID == schoolID && st.RegistrationNo == regNo {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStudentRepo) List(_ context.Context, schoolID uuid.UUID, _ student.ListQuery) ([]model.Student, int64, error) {
	var out []model.Student
	for _, st := range f.students {
		if st.SchoolID == schoolID {
			out = append(out, st)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeStudentRepo) Save(_ context.Context, st *model.Student) error {
	f.students[st.ID] = *st
	return nil
}

func (f *fakeStudentRepo) SoftDelete(_ context.Context, schoolID, id uuid.UUID) error {
	st, ok := f.students[id]
	if !ok || st.SchoolID != schoolID {
		return student.ErrNotFound
	}
	delete(f.students, id)
	return nil
}

// fakeSchoolRepo provides just enough of the school store for the
// explicit-school path of the student endpoints.
type fakeSchoolRepo struct {
	schools map[uuid.UUID]model.School
}

func newFakeSchoolRepo() *fakeSchoolRepo {
	return &fakeSchoolRepo{schools: make(map[uuid.UUID]model.School)}
}

func (f *fakeSchoolRepo) Create(_ context.Context, s *model.School) error {
	f.schools[s.ID] = *s
	return nil
}

func (f *fakeSchoolRepo) GetByID(_ context.Context, id uuid.UUID) (model.School, error) {
	s, ok := f.schools[id]
	if !ok {
		return model.School{}, school.ErrNotFound
	}
	return s, nil
}

func (f *fakeSchoolRepo) CodeTaken(_ context.Context, _ uuid.UUID, _ string) (bool, error) {
	return false, nil
}

func (f *fakeSchoolRepo) CountByOrganization(_ context.Context, _ uuid.UUID) (int64, error) {
	return 0, nil
}

func (f *fakeSchoolRepo) List(_ context.Context, _ tenant.Scope) ([]model.School, error) {
	return nil, nil
}

func (f *fakeSchoolRepo) Save(_ context.Context, s *model.School) error {
	f.schools[s.ID] = *s
	return nil
}

func (f *fakeSchoolRepo) SoftDelete(_ context.Context, _ uuid.UUID) error {
	return nil
}

func (f *fakeSchoolRepo) GetOrganization(_ context.Context, _ uuid.UUID) (model.Organization, error) {
	return model.Organization{}, school.ErrNotFound
}

// newStudentTestServer mounts the student routes with the same role guards
// the server binary applies.
func newStudentTestServer(repo student.Repository) (*echo.Echo, *jwtutil.JWTUtil) {
	util := jwtutil.NewJWTUtil(&jwtutil.JWTConfig{SigningKey: "test-key", ExpirationHours: 1})

	e := echo.New()
	e.Validator = NewValidator()

	h := NewStudentHandler(student.NewService(repo), school.NewService(newFakeSchoolRepo()))

	read := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal, model.RoleVicePrincipal, model.RoleTeacher,
		model.RoleAccountant, model.RoleReceptionist, model.RoleLibrarian,
		model.RoleHR,
	)
	write := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal, model.RoleVicePrincipal, model.RoleReceptionist,
	)
	remove := middleware.RequireRoles(
		model.RolePlatformAdmin, model.RoleOrgAdmin, model.RoleSchoolAdmin,
		model.RolePrincipal,
	)

	students := e.Group("/api/students", middleware.JWTAuth(util), middleware.TenantGuard())
	students.POST("", h.Create, write)
	students.GET("", h.List, read)
	students.GET("/:id", h.Get, read)
	students.PATCH("/:id", h.Update, write)
	students.DELETE("/:id", h.Delete, remove)

	return e, util
}

func schoolMember(role model.Role, schoolID uuid.UUID) model.User {
	return model.User{ID: uuid.New(), Role: role, SchoolID: &schoolID, Status: model.StatusActive}
}

func TestStudentWriteRejectedForNonStaffRoles(t *testing.T) {
	repo := newFakeStudentRepo()
	e, util := newStudentTestServer(repo)

	schoolID := uuid.New()
	body := `{"registration_no":"2026-001","first_name":"Bilal"}`

	for _, role := range []model.Role{model.RoleParent, model.RoleStudent, model.RoleTeacher, model.RoleLibrarian} {
		token := mintToken(t, util, schoolMember(role, schoolID))
		rec := doJSON(e, http.MethodPost, "/api/students", token, body)
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %s must not create students", role)
	}
	assert.Empty(t, repo.students)
}

func TestStudentReadRejectedForParentAndStudent(t *testing.T) {
	repo := newFakeStudentRepo()
	e, util := newStudentTestServer(repo)

	schoolID := uuid.New()
	for _, role := range []model.Role{model.RoleParent, model.RoleStudent} {
		token := mintToken(t, util, schoolMember(role, schoolID))
		rec := doJSON(e, http.MethodGet, "/api/students", token, "")
		assert.Equal(t, http.StatusForbidden, rec.Code, "role %s must not list students", role)
	}
}

func TestStudentEndpointsStaffAccess(t *testing.T) {
	repo := newFakeStudentRepo()
	e, util := newStudentTestServer(repo)

	schoolID := uuid.New()

	// A receptionist handles admissions and may create.
	token := mintToken(t, util, schoolMember(model.RoleReceptionist, schoolID))
	body := `{"registration_no":"2026-001","first_name":"Bilal","last_name":"Ahmed"}`
	rec := doJSON(e, http.MethodPost, "/api/students", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.students, 1)

	// A teacher may read but not write.
	teacherToken := mintToken(t, util, schoolMember(model.RoleTeacher, schoolID))
	rec = doJSON(e, http.MethodGet, "/api/students", teacherToken, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(e, http.MethodPost, "/api/students", teacherToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStudentDeleteRestrictedToLeadership(t *testing.T) {
	repo := newFakeStudentRepo()
	e, util := newStudentTestServer(repo)

	schoolID := uuid.New()
	studentID := uuid.New()
	repo.students[studentID] = model.Student{
		ID: studentID, SchoolID: schoolID,
		RegistrationNo: "2026-001", FirstName: "Bilal",
		Status: model.StudentActive,
	}

	// A receptionist may enroll but not remove.
	recToken := mintToken(t, util, schoolMember(model.RoleReceptionist, schoolID))
	rec := doJSON(e, http.MethodDelete, "/api/students/"+studentID.String(), recToken, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Len(t, repo.students, 1)

	principalToken := mintToken(t, util, schoolMember(model.RolePrincipal, schoolID))
	rec = doJSON(e, http.MethodDelete, "/api/students/"+studentID.String(), principalToken, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Empty(t, repo.students)
}
