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

type teacherRepository interface {
	List(ctx context.Context) ([]models.TeacherDetail, error)
	FindByID(ctx context.Context, id string) (*models.TeacherDetail, error)
	ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
	Delete(ctx context.Context, id string) error
}

type teachingAssignmentRepository interface {
	ExistsActive(ctx context.Context, teacherID, courseID string) (bool, error)
	Create(ctx context.Context, assignment *models.TeachingAssignment) error
	Deactivate(ctx context.Context, teacherID, courseID string) error
	ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Course, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

// CreateTeacherRequest holds payload for creating teachers.
type CreateTeacherRequest struct {
	Name                string  `json:"name" validate:"required"`
	NationalID          string  `json:"national_id" validate:"required"`
	BirthDate           string  `json:"birth_date"`
	Email               string  `json:"email" validate:"required,email"`
	EducationBackground *string `json:"education_background"`
	Address             *string `json:"address"`
}

// UpdateTeacherRequest holds payload for updating teachers.
type UpdateTeacherRequest struct {
	Name                string  `json:"name" validate:"required"`
	NationalID          string  `json:"national_id" validate:"required"`
	BirthDate           string  `json:"birth_date"`
	Email               string  `json:"email" validate:"required,email"`
	EducationBackground *string `json:"education_background"`
	Address             *string `json:"address"`
}

// AssignCourseRequest holds payload for assigning a teacher to a course.
type AssignCourseRequest struct {
	CourseID  string `json:"courseId" validate:"required"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// UnassignCourseRequest identifies the course to release the teacher from.
type UnassignCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

// TeacherService handles teacher use-cases.
type TeacherService struct {
	repo        teacherRepository
	assignments teachingAssignmentRepository
	courses     courseReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewTeacherService constructs the teacher service.
func NewTeacherService(repo teacherRepository, assignments teachingAssignmentRepository, courses courseReader, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, assignments: assignments, courses: courses, validator: validate, logger: logger}
}

// List returns all teachers.
func (s *TeacherService) List(ctx context.Context) ([]models.TeacherDetail, error) {
	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	return teachers, nil
}

// Get returns detailed teacher information.
func (s *TeacherService) Get(ctx context.Context, id string) (*models.TeacherDetail, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, national id and email are required")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	if err := s.checkUnique(ctx, req.NationalID, req.Email, ""); err != nil {
		return nil, err
	}
	teacher := &models.Teacher{
		Name:                req.Name,
		NationalID:          req.NationalID,
		BirthDate:           birthDate,
		Email:               req.Email,
		EducationBackground: req.EducationBackground,
		Address:             req.Address,
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}
	return teacher, nil
}

// Update full-replaces the mutable fields of a teacher.
func (s *TeacherService) Update(ctx context.Context, id string, req UpdateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, national id and email are required")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if err := s.checkUnique(ctx, req.NationalID, req.Email, id); err != nil {
		return nil, err
	}
	teacher := detail.Teacher
	teacher.Name = req.Name
	teacher.NationalID = req.NationalID
	teacher.BirthDate = birthDate
	teacher.Email = req.Email
	teacher.EducationBackground = req.EducationBackground
	teacher.Address = req.Address
	if err := s.repo.Update(ctx, &teacher); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update teacher")
	}
	return &teacher, nil
}

// Delete removes a teacher and cascading assignment rows.
func (s *TeacherService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher")
	}
	return nil
}

// ListCourses returns courses the teacher actively teaches.
func (s *TeacherService) ListCourses(ctx context.Context, teacherID string) ([]models.Course, error) {
	if _, err := s.repo.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	courses, err := s.assignments.ListCoursesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list taught courses")
	}
	return courses, nil
}

// AssignCourse creates an active teaching assignment for the teacher.
func (s *TeacherService) AssignCourse(ctx context.Context, teacherID string, req AssignCourseRequest) (*models.TeachingAssignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course id is required")
	}
	startDate, err := parseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid start date")
	}
	endDate, err := parseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid end date")
	}
	if _, err := s.repo.FindByID(ctx, teacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.assignments.ExistsActive(ctx, teacherID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate assignment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "teacher already assigned to course")
	}
	assignment := &models.TeachingAssignment{
		TeacherID: teacherID,
		CourseID:  req.CourseID,
		StartDate: startDate,
		EndDate:   endDate,
		Status:    models.AssignmentStatusActive,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UnassignCourse deactivates the teacher's active assignment for the course.
func (s *TeacherService) UnassignCourse(ctx context.Context, teacherID string, req UnassignCourseRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "course id is required")
	}
	if err := s.assignments.Deactivate(ctx, teacherID, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "active assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate assignment")
	}
	return nil
}

func (s *TeacherService) checkUnique(ctx context.Context, nationalID, email, excludeID string) error {
	exists, err := s.repo.ExistsByNationalID(ctx, nationalID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate national id")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "national id already registered")
	}
	exists, err = s.repo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	return nil
}
