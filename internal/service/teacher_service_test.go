package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educare-ngo/educare-api/internal/models"
)

type mockTeacherRepo struct {
	teachers    map[string]models.TeacherDetail
	nationalIDs map[string]string
	emails      map[string]string
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.TeacherDetail, error) {
	var list []models.TeacherDetail
	for _, t := range m.teachers {
		list = append(list, t)
	}
	return list, nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	if t, ok := m.teachers[id]; ok {
		return &t, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error) {
	id, ok := m.nationalIDs[nationalID]
	return ok && id != excludeID, nil
}

func (m *mockTeacherRepo) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	id, ok := m.emails[email]
	return ok && id != excludeID, nil
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	if m.teachers == nil {
		m.teachers = make(map[string]models.TeacherDetail)
	}
	if teacher.ID == "" {
		teacher.ID = "new-teacher"
	}
	m.teachers[teacher.ID] = models.TeacherDetail{Teacher: *teacher}
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	if _, ok := m.teachers[teacher.ID]; !ok {
		return sql.ErrNoRows
	}
	m.teachers[teacher.ID] = models.TeacherDetail{Teacher: *teacher}
	return nil
}

func (m *mockTeacherRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.teachers[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.teachers, id)
	return nil
}

type mockAssignmentRepo struct {
	active  map[string]bool
	courses map[string][]models.Course
	created *models.TeachingAssignment
}

func assignmentKey(teacherID, courseID string) string { return teacherID + "/" + courseID }

func (m *mockAssignmentRepo) ExistsActive(ctx context.Context, teacherID, courseID string) (bool, error) {
	return m.active[assignmentKey(teacherID, courseID)], nil
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	if m.active == nil {
		m.active = make(map[string]bool)
	}
	if assignment.ID == "" {
		assignment.ID = "new-assignment"
	}
	m.active[assignmentKey(assignment.TeacherID, assignment.CourseID)] = true
	m.created = assignment
	return nil
}

func (m *mockAssignmentRepo) Deactivate(ctx context.Context, teacherID, courseID string) error {
	key := assignmentKey(teacherID, courseID)
	if !m.active[key] {
		return sql.ErrNoRows
	}
	m.active[key] = false
	return nil
}

func (m *mockAssignmentRepo) ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	return m.courses[teacherID], nil
}

type mockCourseReader struct {
	courses map[string]models.CourseDetail
}

func (m *mockCourseReader) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func newTeacherServiceForTest(repo *mockTeacherRepo, assignments *mockAssignmentRepo, courses *mockCourseReader) *TeacherService {
	if assignments == nil {
		assignments = &mockAssignmentRepo{}
	}
	if courses == nil {
		courses = &mockCourseReader{}
	}
	return NewTeacherService(repo, assignments, courses, nil, nil)
}

func TestTeacherServiceCreateRequiresEmail(t *testing.T) {
	svc := newTeacherServiceForTest(&mockTeacherRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "Paulo", NationalID: "11122233344"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestTeacherServiceCreateDuplicateEmail(t *testing.T) {
	repo := &mockTeacherRepo{emails: map[string]string{"paulo@example.com": "t1"}}
	svc := newTeacherServiceForTest(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{
		Name:       "Paulo",
		NationalID: "11122233344",
		Email:      "paulo@example.com",
	})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestTeacherServiceAssignCourse(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.TeacherDetail{"t1": {Teacher: models.Teacher{ID: "t1", Name: "Paulo"}}},
	}
	courses := &mockCourseReader{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1", Name: "English"}}},
	}
	assignments := &mockAssignmentRepo{}
	svc := newTeacherServiceForTest(repo, assignments, courses)

	assignment, err := svc.AssignCourse(context.Background(), "t1", AssignCourseRequest{CourseID: "c1", StartDate: "2026-02-01"})
	require.NoError(t, err)
	assert.Equal(t, models.AssignmentStatusActive, assignment.Status)
	require.NotNil(t, assignment.StartDate)

	// A second active assignment for the same pair is rejected.
	_, err = svc.AssignCourse(context.Background(), "t1", AssignCourseRequest{CourseID: "c1"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestTeacherServiceAssignCourseUnknownCourse(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.TeacherDetail{"t1": {Teacher: models.Teacher{ID: "t1"}}},
	}
	svc := newTeacherServiceForTest(repo, nil, nil)

	_, err := svc.AssignCourse(context.Background(), "t1", AssignCourseRequest{CourseID: "missing"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTeacherServiceUnassignCourse(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.TeacherDetail{"t1": {Teacher: models.Teacher{ID: "t1"}}},
	}
	assignments := &mockAssignmentRepo{active: map[string]bool{assignmentKey("t1", "c1"): true}}
	svc := newTeacherServiceForTest(repo, assignments, nil)

	require.NoError(t, svc.UnassignCourse(context.Background(), "t1", UnassignCourseRequest{CourseID: "c1"}))

	// Deactivating again finds no active assignment.
	err := svc.UnassignCourse(context.Background(), "t1", UnassignCourseRequest{CourseID: "c1"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestTeacherServiceListCourses(t *testing.T) {
	repo := &mockTeacherRepo{
		teachers: map[string]models.TeacherDetail{"t1": {Teacher: models.Teacher{ID: "t1"}}},
	}
	assignments := &mockAssignmentRepo{
		courses: map[string][]models.Course{"t1": {{ID: "c1", Name: "English"}}},
	}
	svc := newTeacherServiceForTest(repo, assignments, nil)

	courses, err := svc.ListCourses(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "English", courses[0].Name)
}

func TestTeacherServiceListCoursesUnknownTeacher(t *testing.T) {
	svc := newTeacherServiceForTest(&mockTeacherRepo{}, nil, nil)

	_, err := svc.ListCourses(context.Background(), "missing")
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
