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

type mockCourseRepo struct {
	courses     map[string]models.CourseDetail
	verifyAudit *models.CourseVerification
	verifyErr   error
}

func (m *mockCourseRepo) List(ctx context.Context) ([]models.CourseDetail, error) {
	var list []models.CourseDetail
	for _, c := range m.courses {
		list = append(list, c)
	}
	return list, nil
}

func (m *mockCourseRepo) ListVerified(ctx context.Context) ([]models.CourseDetail, error) {
	var list []models.CourseDetail
	for _, c := range m.courses {
		if c.Verified {
			list = append(list, c)
		}
	}
	return list, nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.CourseDetail)
	}
	if course.ID == "" {
		course.ID = "new-course"
	}
	m.courses[course.ID] = models.CourseDetail{Course: *course}
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	if _, ok := m.courses[course.ID]; !ok {
		return sql.ErrNoRows
	}
	m.courses[course.ID] = models.CourseDetail{Course: *course}
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.courses[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.courses, id)
	return nil
}

func (m *mockCourseRepo) Verify(ctx context.Context, courseID, staffName string, audit *models.CourseVerification) error {
	if m.verifyErr != nil {
		return m.verifyErr
	}
	c, ok := m.courses[courseID]
	if !ok {
		return sql.ErrNoRows
	}
	c.Verified = true
	c.ResponsibleStaffName = &staffName
	m.courses[courseID] = c
	m.verifyAudit = audit
	return nil
}

type mockEnrollmentRepo struct {
	pairs     map[string]models.EnrollmentStatus
	createErr error
}

func pairKey(studentID, courseID string) string { return studentID + "/" + courseID }

func (m *mockEnrollmentRepo) ExistsPair(ctx context.Context, studentID, courseID string) (bool, error) {
	_, ok := m.pairs[pairKey(studentID, courseID)]
	return ok, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.pairs == nil {
		m.pairs = make(map[string]models.EnrollmentStatus)
	}
	if enrollment.ID == "" {
		enrollment.ID = "new-enrollment"
	}
	m.pairs[pairKey(enrollment.StudentID, enrollment.CourseID)] = enrollment.Status
	return nil
}

func (m *mockEnrollmentRepo) Cancel(ctx context.Context, studentID, courseID string) error {
	key := pairKey(studentID, courseID)
	if m.pairs[key] != models.EnrollmentStatusActive {
		return sql.ErrNoRows
	}
	m.pairs[key] = models.EnrollmentStatusCancelled
	return nil
}

type mockCourseStudentReader struct {
	students map[string]models.StudentDetail
	byCourse map[string][]models.Student
}

func (m *mockCourseStudentReader) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseStudentReader) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	return m.byCourse[courseID], nil
}

func newCourseServiceForTest(repo *mockCourseRepo, enrollments *mockEnrollmentRepo, students *mockCourseStudentReader, staff *mockStaffReader) *CourseService {
	if enrollments == nil {
		enrollments = &mockEnrollmentRepo{}
	}
	if students == nil {
		students = &mockCourseStudentReader{}
	}
	if staff == nil {
		staff = &mockStaffReader{}
	}
	return NewCourseService(repo, enrollments, students, staff, nil, nil)
}

func TestCourseServiceCreateRejectsZeroCapacity(t *testing.T) {
	svc := newCourseServiceForTest(&mockCourseRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), CreateCourseRequest{Name: "English", Capacity: 0})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusBadRequest, appErr.Status)
}

func TestCourseServiceCreate(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := newCourseServiceForTest(repo, nil, nil, nil)

	course, err := svc.Create(context.Background(), CreateCourseRequest{Name: "English", Capacity: 30})
	require.NoError(t, err)
	assert.False(t, course.Verified)
	assert.Contains(t, repo.courses, course.ID)
}

func TestCourseServiceVerifyRecordsAudit(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1", Name: "English", Capacity: 30}}},
	}
	staff := &mockStaffReader{staff: map[string]models.StaffDetail{"st1": {Staff: models.Staff{ID: "st1", Name: "Carla"}}}}
	svc := newCourseServiceForTest(repo, nil, nil, staff)

	require.NoError(t, svc.Verify(context.Background(), "c1", VerifyCourseRequest{StaffID: "st1"}))
	assert.True(t, repo.courses["c1"].Verified)
	require.NotNil(t, repo.verifyAudit)
	assert.Equal(t, models.VerificationStatusApproved, repo.verifyAudit.Status)
	assert.Equal(t, "st1", repo.verifyAudit.StaffID)
}

func TestCourseServiceVerifyUnknownStaff(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1"}}},
	}
	svc := newCourseServiceForTest(repo, nil, nil, nil)

	err := svc.Verify(context.Background(), "c1", VerifyCourseRequest{StaffID: "missing"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestCourseServiceVerifyUnknownCourse(t *testing.T) {
	staff := &mockStaffReader{staff: map[string]models.StaffDetail{"st1": {Staff: models.Staff{ID: "st1", Name: "Carla"}}}}
	svc := newCourseServiceForTest(&mockCourseRepo{}, nil, nil, staff)

	err := svc.Verify(context.Background(), "missing", VerifyCourseRequest{StaffID: "st1"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestCourseServiceEnroll(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1", Name: "English"}}},
	}
	students := &mockCourseStudentReader{
		students: map[string]models.StudentDetail{"s1": {Student: models.Student{ID: "s1", Name: "Ana"}}},
	}
	enrollments := &mockEnrollmentRepo{}
	svc := newCourseServiceForTest(repo, enrollments, students, nil)

	enrollment, err := svc.Enroll(context.Background(), "c1", EnrollStudentRequest{StudentID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.Equal(t, "c1", enrollment.CourseID)
}

func TestCourseServiceEnrollDuplicatePair(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1"}}},
	}
	students := &mockCourseStudentReader{
		students: map[string]models.StudentDetail{"s1": {Student: models.Student{ID: "s1"}}},
	}
	enrollments := &mockEnrollmentRepo{pairs: map[string]models.EnrollmentStatus{
		pairKey("s1", "c1"): models.EnrollmentStatusCancelled,
	}}
	svc := newCourseServiceForTest(repo, enrollments, students, nil)

	// A cancelled pair still blocks re-enrollment.
	_, err := svc.Enroll(context.Background(), "c1", EnrollStudentRequest{StudentID: "s1"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusConflict, appErr.Status)
}

func TestCourseServiceEnrollUnknownStudent(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1"}}},
	}
	svc := newCourseServiceForTest(repo, nil, nil, nil)

	_, err := svc.Enroll(context.Background(), "c1", EnrollStudentRequest{StudentID: "missing"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestCourseServiceCancelEnrollment(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1"}}},
	}
	enrollments := &mockEnrollmentRepo{pairs: map[string]models.EnrollmentStatus{
		pairKey("s1", "c1"): models.EnrollmentStatusActive,
	}}
	svc := newCourseServiceForTest(repo, enrollments, nil, nil)

	require.NoError(t, svc.CancelEnrollment(context.Background(), "c1", CancelEnrollmentRequest{StudentID: "s1"}))
	assert.Equal(t, models.EnrollmentStatusCancelled, enrollments.pairs[pairKey("s1", "c1")])

	// Cancelling an already cancelled enrollment finds no active row.
	err := svc.CancelEnrollment(context.Background(), "c1", CancelEnrollmentRequest{StudentID: "s1"})
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}

func TestCourseServiceListStudents(t *testing.T) {
	repo := &mockCourseRepo{
		courses: map[string]models.CourseDetail{"c1": {Course: models.Course{ID: "c1"}}},
	}
	students := &mockCourseStudentReader{
		byCourse: map[string][]models.Student{"c1": {{ID: "s1", Name: "Ana"}}},
	}
	svc := newCourseServiceForTest(repo, nil, students, nil)

	list, err := svc.ListStudents(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ana", list[0].Name)
}

func TestCourseServiceListStudentsUnknownCourse(t *testing.T) {
	svc := newCourseServiceForTest(&mockCourseRepo{}, nil, nil, nil)

	_, err := svc.ListStudents(context.Background(), "missing")
	appErr := appErrorFrom(t, err)
	assert.Equal(t, http.StatusNotFound, appErr.Status)
}
