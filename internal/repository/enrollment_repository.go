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

// EnrollmentRepository persists student-course enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ExistsPair checks whether an enrollment for the pair already exists, any status.
func (r *EnrollmentRepository) ExistsPair(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment pair: %w", err)
	}
	return true, nil
}

// Create inserts a new enrollment row. Constraint violations are surfaced
// wrapped so callers can classify duplicates and missing references.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrollmentDate.IsZero() {
		enrollment.EnrollmentDate = time.Now().UTC()
	}
	if enrollment.Status == "" {
		enrollment.Status = models.EnrollmentStatusActive
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, enrollment_date, status)
        VALUES (:id, :student_id, :course_id, :enrollment_date, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Cancel flips an active enrollment to cancelled. The row is preserved.
func (r *EnrollmentRepository) Cancel(ctx context.Context, studentID, courseID string) error {
	const query = `UPDATE enrollments SET status = $3 WHERE student_id = $1 AND course_id = $2 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, studentID, courseID, models.EnrollmentStatusCancelled, models.EnrollmentStatusActive)
	if err != nil {
		return fmt.Errorf("cancel enrollment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check cancelled enrollment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListByStudent returns all enrollments of a student with course context.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	const query = `SELECT en.id, en.student_id, en.course_id, en.enrollment_date, en.status,
       s.name AS student_name, c.name AS course_name
        FROM enrollments en
        JOIN students s ON s.id = en.student_id
        JOIN courses c ON c.id = en.course_id
        WHERE en.student_id = $1
        ORDER BY en.enrollment_date DESC`
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments by student: %w", err)
	}
	return enrollments, nil
}

// CountsByCourseInRange returns, per course, the number of enrollments dated
// within [start, end] inclusive, busiest course first. Courses without a
// matching enrollment are absent.
func (r *EnrollmentRepository) CountsByCourseInRange(ctx context.Context, start, end time.Time) ([]models.CourseEnrollmentCount, error) {
	const query = `SELECT c.name AS course_name, COUNT(en.id) AS enrollment_count
        FROM enrollments en
        JOIN courses c ON c.id = en.course_id
        WHERE en.enrollment_date BETWEEN $1 AND $2
        GROUP BY c.name
        ORDER BY enrollment_count DESC`
	var counts []models.CourseEnrollmentCount
	if err := r.db.SelectContext(ctx, &counts, query, start, end); err != nil {
		return nil, fmt.Errorf("count enrollments by course: %w", err)
	}
	return counts, nil
}
