package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/internal/models"
)

// CourseRepository manages persistence for course records.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs a CourseRepository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

const courseDetailColumns = `c.id, c.name, c.capacity, c.duration_label, c.location, c.responsible_teacher_name,
       c.schedule_label, c.registration_date, c.verified, c.responsible_staff_name, c.created_at, c.updated_at,
       COUNT(en.id) AS enrollment_count`

// List returns all courses with their active enrollment counts.
func (r *CourseRepository) List(ctx context.Context) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM courses c
        LEFT JOIN enrollments en ON en.course_id = c.id AND en.status = $1
        GROUP BY c.id
        ORDER BY c.name`, courseDetailColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// ListVerified returns verified courses only.
func (r *CourseRepository) ListVerified(ctx context.Context) ([]models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM courses c
        LEFT JOIN enrollments en ON en.course_id = c.id AND en.status = $1
        WHERE c.verified = TRUE
        GROUP BY c.id
        ORDER BY c.name`, courseDetailColumns)
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list verified courses: %w", err)
	}
	return courses, nil
}

// FindByID fetches a course detail by ID.
func (r *CourseRepository) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM courses c
        LEFT JOIN enrollments en ON en.course_id = c.id AND en.status = $2
        WHERE c.id = $1
        GROUP BY c.id`, courseDetailColumns)
	var detail models.CourseDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.EnrollmentStatusActive); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	if course.ID == "" {
		course.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if course.CreatedAt.IsZero() {
		course.CreatedAt = now
	}
	course.UpdatedAt = now
	if course.RegistrationDate == nil {
		course.RegistrationDate = &now
	}
	const query = `INSERT INTO courses (id, name, capacity, duration_label, location, responsible_teacher_name, schedule_label, registration_date, verified, responsible_staff_name, created_at, updated_at)
        VALUES (:id, :name, :capacity, :duration_label, :location, :responsible_teacher_name, :schedule_label, :registration_date, :verified, :responsible_staff_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, course); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// Update full-replaces the mutable fields of an existing course.
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	course.UpdatedAt = time.Now().UTC()
	const query = `UPDATE courses SET name = :name, capacity = :capacity, duration_label = :duration_label, location = :location, responsible_teacher_name = :responsible_teacher_name, schedule_label = :schedule_label, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, course)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated course rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the course; enrollments, verifications and assignments cascade.
func (r *CourseRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM courses WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted course rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Verify marks the course verified and records the audit row in one
// transaction. Either both writes land or neither does.
func (r *CourseRepository) Verify(ctx context.Context, courseID, staffName string, audit *models.CourseVerification) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin course verification: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const updateQuery = `UPDATE courses SET verified = TRUE, responsible_staff_name = $2, updated_at = $3 WHERE id = $1`
	result, err := tx.ExecContext(ctx, updateQuery, courseID, staffName, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("mark course verified: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check verified course rows: %w", err)
	}
	if affected == 0 {
		err = sql.ErrNoRows
		return err
	}

	if audit.ID == "" {
		audit.ID = uuid.NewString()
	}
	if audit.VerifiedAt.IsZero() {
		audit.VerifiedAt = time.Now().UTC()
	}
	const insertQuery = `INSERT INTO course_verifications (id, staff_id, course_id, verified_at, status, notes)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, insertQuery, audit.ID, audit.StaffID, audit.CourseID, audit.VerifiedAt, audit.Status, audit.Notes); err != nil {
		return fmt.Errorf("insert course verification: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit course verification: %w", err)
	}
	return nil
}
