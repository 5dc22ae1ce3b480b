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

type staffRepository interface {
	List(ctx context.Context) ([]models.StaffDetail, error)
	FindByID(ctx context.Context, id string) (*models.StaffDetail, error)
	ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, staff *models.Staff) error
	Update(ctx context.Context, staff *models.Staff) error
	Delete(ctx context.Context, id string) error
}

type verificationReader interface {
	ListByStaff(ctx context.Context, staffID string) ([]models.CourseVerificationDetail, error)
}

type staffTeacherLinkRepository interface {
	Create(ctx context.Context, link *models.StaffTeacherLink) error
	ListTeachersByStaff(ctx context.Context, staffID string) ([]models.Teacher, error)
}

type teacherReader interface {
	FindByID(ctx context.Context, id string) (*models.TeacherDetail, error)
}

// CreateStaffRequest holds payload for creating staff members.
type CreateStaffRequest struct {
	Name          string  `json:"name" validate:"required"`
	NationalID    string  `json:"national_id" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	AdmissionDate string  `json:"admission_date"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// UpdateStaffRequest holds payload for updating staff members.
type UpdateStaffRequest struct {
	Name          string  `json:"name" validate:"required"`
	NationalID    string  `json:"national_id" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	AdmissionDate string  `json:"admission_date"`
	Phone         *string `json:"phone"`
	Address       *string `json:"address"`
}

// RegisterTeacherLinkRequest identifies the teacher to link to a staff member.
type RegisterTeacherLinkRequest struct {
	TeacherID string `json:"teacherId" validate:"required"`
}

// StaffService handles staff use-cases.
type StaffService struct {
	repo          staffRepository
	verifications verificationReader
	links         staffTeacherLinkRepository
	teachers      teacherReader
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewStaffService constructs the staff service.
func NewStaffService(repo staffRepository, verifications verificationReader, links staffTeacherLinkRepository, teachers teacherReader, validate *validator.Validate, logger *zap.Logger) *StaffService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, verifications: verifications, links: links, teachers: teachers, validator: validate, logger: logger}
}

// List returns all staff members.
func (s *StaffService) List(ctx context.Context) ([]models.StaffDetail, error) {
	staff, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return staff, nil
}

// Get returns detailed staff information.
func (s *StaffService) Get(ctx context.Context, id string) (*models.StaffDetail, error) {
	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return staff, nil
}

// Create registers a new staff member.
func (s *StaffService) Create(ctx context.Context, req CreateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, national id and email are required")
	}
	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission date")
	}
	if err := s.checkUnique(ctx, req.NationalID, req.Email, ""); err != nil {
		return nil, err
	}
	staff := &models.Staff{
		Name:          req.Name,
		NationalID:    req.NationalID,
		Email:         req.Email,
		AdmissionDate: admissionDate,
		Phone:         req.Phone,
		Address:       req.Address,
	}
	if err := s.repo.Create(ctx, staff); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff member")
	}
	return staff, nil
}

// Update full-replaces the mutable fields of a staff member.
func (s *StaffService) Update(ctx context.Context, id string, req UpdateStaffRequest) (*models.Staff, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "name, national id and email are required")
	}
	admissionDate, err := parseDate(req.AdmissionDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid admission date")
	}
	detail, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if err := s.checkUnique(ctx, req.NationalID, req.Email, id); err != nil {
		return nil, err
	}
	staff := detail.Staff
	staff.Name = req.Name
	staff.NationalID = req.NationalID
	staff.Email = req.Email
	staff.AdmissionDate = admissionDate
	staff.Phone = req.Phone
	staff.Address = req.Address
	if err := s.repo.Update(ctx, &staff); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		if database.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "national id or email already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update staff member")
	}
	return &staff, nil
}

// Delete removes a staff member and cascading link/audit rows.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete staff member")
	}
	return nil
}

// VerifiedCourses returns the verification events performed by the staff member.
func (s *StaffService) VerifiedCourses(ctx context.Context, staffID string) ([]models.CourseVerificationDetail, error) {
	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	verifications, err := s.verifications.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list verified courses")
	}
	return verifications, nil
}

// LinkedTeachers returns teachers registered by the staff member.
func (s *StaffService) LinkedTeachers(ctx context.Context, staffID string) ([]models.Teacher, error) {
	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	teachers, err := s.links.ListTeachersByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list linked teachers")
	}
	return teachers, nil
}

// RegisterTeacherLink records that the staff member registered a teacher.
func (s *StaffService) RegisterTeacherLink(ctx context.Context, staffID string, req RegisterTeacherLinkRequest) (*models.StaffTeacherLink, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "teacher id is required")
	}
	if _, err := s.repo.FindByID(ctx, staffID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	link := &models.StaffTeacherLink{
		StaffID:   staffID,
		TeacherID: req.TeacherID,
		Status:    models.AssignmentStatusActive,
	}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff teacher link")
	}
	return link, nil
}

func (s *StaffService) checkUnique(ctx context.Context, nationalID, email, excludeID string) error {
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
