package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educare-ngo/educare-api/internal/models"
	"github.com/educare-ngo/educare-api/pkg/database"
	appErrors "github.com/educare-ngo/educare-api/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context) ([]models.CourseDetail, error)
	ListVerified(ctx context.Context) ([]models.CourseDetail, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
	Verify(ctx context.Context, courseID, staffName string, audit *models.CourseVerification) error
}

type enrollmentRepository interface {
	ExistsPair(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Cancel(ctx context.Context, studentID, courseID string) error
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ListByCourse(ctx context.Context, courseID string) ([]models.Student, error)
}

// CreateCourseRequest holds payload for creating courses.
type CreateCourseRequest struct {
	Name                   string  `json:"name" validate:"required"`
	Capacity               int     `json:"capacity" validate:"required,gt=0"`
	DurationLabel          *string `json:"duration_label"`
	Location               *string `json:"location"`
	ResponsibleTeacherName *string `json:"responsible_teacher_name"`
	ScheduleLabel          *string `json:"schedule_label"`
}

// UpdateCourseRequest holds payload for updating courses.
type UpdateCourseRequest struct {
	Name                   string  `json:"name" validate:"required"`
	Capacity               int     `json:"capacity" validate:"required,gt=0"`
	DurationLabel          *string `json:"duration_label"`
	Location               *string `json:"location"`
	ResponsibleTeacherName *string `json:"responsible_teacher_name"`
	ScheduleLabel          *string `json:"schedule_label"`
}

// VerifyCourseRequest identifies the staff member approving the course.
type VerifyCourseRequest struct {
	StaffID string  `json:"staffId" validate:"required"`
	Notes   *string `json:"notes"`
}

// EnrollStudentRequest identifies the student to enroll.
type EnrollStudentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// CancelEnrollmentRequest identifies the student whose enrollment is cancelled.
type CancelEnrollmentRequest struct {
	StudentID string `json:"studentId" validate:"required"`
}

// CourseService handles course use-cases including enrollment workflows.
type CourseService struct {
	repo        courseRepository
	enrollments enrollmentRepository
	students    studentReader
	staff       staffReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(repo courseRepository, enrollments enrollmentRepository, students studentReader, staff staffReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, enrollments: enrollments, students: students, staff: staff, validator: validate, logger: logger}
}

// List returns all courses.
func (s *CourseService) List(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, nil
}

// ListVerified returns verified courses only.
func (s *CourseService) ListVerified(ctx context.Context) ([]models.CourseDetail, error) {
	courses, err := s.repo.ListVerified(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list verified courses")
	}
	return courses, nil
}

// Get returns detailed course information.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and capacity are required")
	}
	course := &models.Course{
		Name:                   req.Name,
		Capacity:               req.Capacity,
		DurationLabel:          req.DurationLabel,
		Location:               req.Location,
		ResponsibleTeacherName: req.ResponsibleTeacherName,
		ScheduleLabel:          req.ScheduleLabel,
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return course, nil
}

// Update full-replaces the mutable fields of a course.
func (s *CourseService) Update(ctx context.Context, id string, req UpdateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and capacity are required")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	course := detail.Course
	course.Name = req.Name
	course.Capacity = req.Capacity
	course.DurationLabel = req.DurationLabel
	course.Location = req.Location
	course.ResponsibleTeacherName = req.ResponsibleTeacherName
	course.ScheduleLabel = req.ScheduleLabel
	if err := s.repo.Update(ctx, &course); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return &course, nil
}

// Delete removes a course and cascading dependents.
func (s *CourseService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	return nil
}

// Verify approves a course on behalf of a staff member. The verified flag and
// the audit row are written in one transaction.
func (s *CourseService) Verify(ctx context.Context, courseID string, req VerifyCourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "staff id is required")
	}
	staff, err := s.staff.FindByID(ctx, req.StaffID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	audit := &models.CourseVerification{
		StaffID:  req.StaffID,
		CourseID: courseID,
		Status:   models.VerificationStatusApproved,
		Notes:    req.Notes,
	}
	if err := s.repo.Verify(ctx, courseID, staff.Name, audit); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify course")
	}
	return nil
}

// Enroll registers a student into the course with an active enrollment.
func (s *CourseService) Enroll(ctx context.Context, courseID string, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student id is required")
	}
	if _, err := s.repo.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	exists, err := s.enrollments.ExistsPair(ctx, req.StudentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in course")
	}
	enrollment := &models.Enrollment{
		StudentID: req.StudentID,
		CourseID:  courseID,
		Status:    models.EnrollmentStatusActive,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "student already enrolled in course")
		}
		if database.IsForeignKeyViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrReference, "student or course does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return enrollment, nil
}

// CancelEnrollment flips the student's active enrollment to cancelled. The
// row is preserved for history; a cancelled pair cannot be reactivated.
func (s *CourseService) CancelEnrollment(ctx context.Context, courseID string, req CancelEnrollmentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "student id is required")
	}
	if err := s.enrollments.Cancel(ctx, req.StudentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "active enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel enrollment")
	}
	return nil
}

// ListStudents returns students actively enrolled in the course.
func (s *CourseService) ListStudents(ctx context.Context, courseID string) ([]models.Student, error) {
	if _, err := s.repo.FindByID(ctx, courseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	students, err := s.students.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrolled students")
	}
	return students, nil
}
