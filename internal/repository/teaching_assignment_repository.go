package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/internal/models"
)

// TeachingAssignmentRepository persists teacher-course assignments.
type TeachingAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeachingAssignmentRepository constructs the repository.
func NewTeachingAssignmentRepository(db *sqlx.DB) *TeachingAssignmentRepository {
	return &TeachingAssignmentRepository{db: db}
}

// ExistsActive checks if the teacher already actively teaches the course.
func (r *TeachingAssignmentRepository) ExistsActive(ctx context.Context, teacherID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM teaching_assignments WHERE teacher_id = $1 AND course_id = $2 AND status = $3 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, teacherID, courseID, models.AssignmentStatusActive); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teaching assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment.
func (r *TeachingAssignmentRepository) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.Status == "" {
		assignment.Status = models.AssignmentStatusActive
	}
	const query = `INSERT INTO teaching_assignments (id, teacher_id, course_id, start_date, end_date, status)
        VALUES (:id, :teacher_id, :course_id, :start_date, :end_date, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teaching assignment: %w", err)
	}
	return nil
}

// Deactivate flips the active assignment for the pair to inactive. The row
// is never deleted.
func (r *TeachingAssignmentRepository) Deactivate(ctx context.Context, teacherID, courseID string) error {
	const query = `UPDATE teaching_assignments SET status = $3 WHERE teacher_id = $1 AND course_id = $2 AND status = $4`
	result, err := r.db.ExecContext(ctx, query, teacherID, courseID, models.AssignmentStatusInactive, models.AssignmentStatusActive)
	if err != nil {
		return fmt.Errorf("deactivate teaching assignment: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deactivated assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListCoursesByTeacher returns courses the teacher actively teaches.
func (r *TeachingAssignmentRepository) ListCoursesByTeacher(ctx context.Context, teacherID string) ([]models.Course, error) {
	const query = `SELECT c.id, c.name, c.capacity, c.duration_label, c.location, c.responsible_teacher_name,
       c.schedule_label, c.registration_date, c.verified, c.responsible_staff_name, c.created_at, c.updated_at
        FROM courses c
        JOIN teaching_assignments ta ON ta.course_id = c.id AND ta.status = $2
        WHERE ta.teacher_id = $1
        ORDER BY c.name`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, teacherID, models.AssignmentStatusActive); err != nil {
		return nil, fmt.Errorf("list courses by teacher: %w", err)
	}
	return courses, nil
}
