package service

import (
	"context"
	"database/sql"
	"regexp"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/educare-ngo/educare-api/internal/models"
	"github.com/educare-ngo/educare-api/pkg/database"
	appErrors "github.com/educare-ngo/educare-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context) ([]models.StudentDetail, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
	Verify(ctx context.Context, id, staffID string) error
}

type educationRepository interface {
	Create(ctx context.Context, record *models.EducationRecord) error
	ListByStudent(ctx context.Context, studentID string) ([]models.EducationRecord, error)
}

type enrollmentReader interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

type staffReader interface {
	FindByID(ctx context.Context, id string) (*models.StaffDetail, error)
}

var nonDigits = regexp.MustCompile(`\D`)

// CreateStudentRequest holds payload for creating students.
type CreateStudentRequest struct {
	Name           string   `json:"name" validate:"required"`
	NationalID     string   `json:"national_id" validate:"required"`
	BirthDate      string   `json:"birth_date"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Address        *string  `json:"address"`
	FamilyIncome   *float64 `json:"family_income"`
	ReferralSource *string  `json:"referral_source"`
}

// UpdateStudentRequest holds payload for updating students.
type UpdateStudentRequest struct {
	Name           string   `json:"name" validate:"required"`
	NationalID     string   `json:"national_id" validate:"required"`
	BirthDate      string   `json:"birth_date"`
	Email          *string  `json:"email"`
	Phone          *string  `json:"phone"`
	Address        *string  `json:"address"`
	FamilyIncome   *float64 `json:"family_income"`
	ReferralSource *string  `json:"referral_source"`
}

// VerifyStudentRequest identifies the staff member performing the review.
type VerifyStudentRequest struct {
	StaffID string `json:"staffId" validate:"required"`
}

// AddEducationRequest holds payload for appending an education record.
type AddEducationRequest struct {
	Level          string  `json:"level" validate:"required"`
	Institution    *string `json:"institution"`
	CompletionYear *int    `json:"completion_year"`
}

// StudentService handles student use-cases.
type StudentService struct {
	repo        studentRepository
	education   educationRepository
	enrollments enrollmentReader
	staff       staffReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, education educationRepository, enrollments enrollmentReader, staff staffReader, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, education: education, enrollments: enrollments, staff: staff, validator: validate, logger: logger}
}

// List returns all students.
func (s *StudentService) List(ctx context.Context) ([]models.StudentDetail, error) {
	students, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns the full student profile including education and enrollment history.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentProfile, error) {
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	records, err := s.education.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load education records")
	}
	enrollments, err := s.enrollments.ListByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	return &models.StudentProfile{StudentDetail: *detail, EducationRecords: records, Enrollments: enrollments}, nil
}

// Create registers a new student.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and national id are required")
	}
	nationalID, ok := normalizeNationalID(req.NationalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "national id must have 11 digits")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	if err := s.checkUnique(ctx, nationalID, req.Email, ""); err != nil {
		return nil, err
	}
	student := &models.Student{
		Name:           req.Name,
		NationalID:     nationalID,
		BirthDate:      birthDate,
		Email:          req.Email,
		Phone:          req.Phone,
		Address:        req.Address,
		FamilyIncome:   req.FamilyIncome,
		ReferralSource: req.ReferralSource,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return student, nil
}

// Update full-replaces the mutable fields of a student.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name and national id are required")
	}
	nationalID, ok := normalizeNationalID(req.NationalID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "national id must have 11 digits")
	}
	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid birth date")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := s.checkUnique(ctx, nationalID, req.Email, id); err != nil {
		return nil, err
	}
	student := detail.Student
	student.Name = req.Name
	student.NationalID = nationalID
	student.BirthDate = birthDate
	student.Email = req.Email
	student.Phone = req.Phone
	student.Address = req.Address
	student.FamilyIncome = req.FamilyIncome
	student.ReferralSource = req.ReferralSource
	if err := s.repo.Update(ctx, &student); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return &student, nil
}

// Delete removes a student and cascading dependents.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}

// Verify marks a student as reviewed by a staff member. Verification is
// one-way and idempotent in effect.
func (s *StudentService) Verify(ctx context.Context, id string, req VerifyStudentRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "staff id is required")
	}
	if _, err := s.staff.FindByID(ctx, req.StaffID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if err := s.repo.Verify(ctx, id, req.StaffID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify student")
	}
	return nil
}

// AddEducation appends an education record to a student.
func (s *StudentService) AddEducation(ctx context.Context, studentID string, req AddEducationRequest) (*models.EducationRecord, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "education level is required")
	}
	if _, err := s.repo.FindByID(ctx, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	record := &models.EducationRecord{
		StudentID:      studentID,
		Level:          req.Level,
		Institution:    req.Institution,
		CompletionYear: req.CompletionYear,
	}
	if err := s.education.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create education record")
	}
	return record, nil
}

func (s *StudentService) checkUnique(ctx context.Context, nationalID string, email *string, excludeID string) error {
	exists, err := s.repo.ExistsByNationalID(ctx, nationalID, excludeID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate national id")
	}
	if exists {
		return appErrors.Clone(appErrors.ErrConflict, "national id already registered")
	}
	if email != nil && *email != "" {
		exists, err := s.repo.ExistsByEmail(ctx, *email, excludeID)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate email")
		}
		if exists {
			return appErrors.Clone(appErrors.ErrConflict, "email already registered")
		}
	}
	return nil
}

// normalizeNationalID strips punctuation from a CPF-style national id and
// requires exactly 11 digits.
func normalizeNationalID(raw string) (string, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if len(digits) != 11 {
		return "", false
	}
	return digits, true
}
