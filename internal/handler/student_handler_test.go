package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educare-ngo/educare-api/internal/models"
	"github.com/educare-ngo/educare-api/internal/service"
)

type fakeStudentRepo struct {
	students map[string]models.StudentDetail
	taken    map[string]bool
}

func (f *fakeStudentRepo) List(ctx context.Context) ([]models.StudentDetail, error) {
	var list []models.StudentDetail
	for _, s := range f.students {
		list = append(list, s)
	}
	return list, nil
}

func (f *fakeStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := f.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeStudentRepo) ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error) {
	return f.taken[nationalID], nil
}

func (f *fakeStudentRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return false, nil
}

func (f *fakeStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if f.students == nil {
		f.students = make(map[string]models.StudentDetail)
	}
	if student.ID == "" {
		student.ID = "s-created"
	}
	f.students[student.ID] = models.StudentDetail{Student: *student}
	return nil
}

func (f *fakeStudentRepo) Update(ctx context.Context, student *models.Student) error {
	if _, ok := f.students[student.ID]; !ok {
		return sql.ErrNoRows
	}
	f.students[student.ID] = models.StudentDetail{Student: *student}
	return nil
}

func (f *fakeStudentRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.students[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.students, id)
	return nil
}

func (f *fakeStudentRepo) Verify(ctx context.Context, id, staffID string) error {
	s, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	s.Verified = true
	f.students[id] = s
	return nil
}

type fakeEducationRepo struct{}

func (fakeEducationRepo) Create(ctx context.Context, record *models.EducationRecord) error {
	record.ID = "r-created"
	return nil
}

func (fakeEducationRepo) ListByStudent(ctx context.Context, studentID string) ([]models.EducationRecord, error) {
	return nil, nil
}

type fakeEnrollmentReader struct{}

func (fakeEnrollmentReader) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	return nil, nil
}

type fakeStaffReader struct {
	staff map[string]models.StaffDetail
}

func (f *fakeStaffReader) FindByID(ctx context.Context, id string) (*models.StaffDetail, error) {
	if s, ok := f.staff[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Error   *struct {
		Code   string `json:"code"`
		Status int    `json:"status"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func newStudentHandlerForTest(repo *fakeStudentRepo, staff *fakeStaffReader) *StudentHandler {
	if staff == nil {
		staff = &fakeStaffReader{}
	}
	svc := service.NewStudentService(repo, fakeEducationRepo{}, fakeEnrollmentReader{}, staff, nil, nil)
	return NewStudentHandler(svc)
}

func TestStudentHandlerListEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&fakeStudentRepo{
		students: map[string]models.StudentDetail{"s1": {Student: models.Student{ID: "s1", Name: "Ana"}}},
	}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students", nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	require.NotNil(t, env.Count)
	assert.Equal(t, 1, *env.Count)
}

func TestStudentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&fakeStudentRepo{}, nil)

	body := `{"name":"Ana Souza","national_id":"123.456.789-01"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)

	var student models.Student
	require.NoError(t, json.Unmarshal(env.Data, &student))
	assert.Equal(t, "12345678901", student.NationalID)
}

func TestStudentHandlerCreateMalformedJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&fakeStudentRepo{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students", strings.NewReader("{"))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, http.StatusBadRequest, env.Error.Status)
}

func TestStudentHandlerCreateDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&fakeStudentRepo{taken: map[string]bool{"12345678901": true}}, nil)

	body := `{"name":"Ana","national_id":"12345678901"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	h.Create(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestStudentHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newStudentHandlerForTest(&fakeStudentRepo{}, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/students/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
}

func TestStudentHandlerVerify(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeStudentRepo{
		students: map[string]models.StudentDetail{"s1": {Student: models.Student{ID: "s1", Name: "Ana"}}},
	}
	staff := &fakeStaffReader{staff: map[string]models.StaffDetail{"st1": {Staff: models.Staff{ID: "st1", Name: "Carla"}}}}
	h := newStudentHandlerForTest(repo, staff)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/students/s1/verify", strings.NewReader(`{"staffId":"st1"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Verify(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, repo.students["s1"].Verified)
}

func TestStudentHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &fakeStudentRepo{
		students: map[string]models.StudentDetail{"s1": {Student: models.Student{ID: "s1"}}},
	}
	h := newStudentHandlerForTest(repo, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodDelete, "/students/s1", nil)
	c.Params = gin.Params{{Key: "id", Value: "s1"}}

	h.Delete(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, repo.students, "s1")
}
