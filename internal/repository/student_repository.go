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

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentDetailColumns = `s.id, s.name, s.national_id, s.birth_date, s.email, s.phone, s.address,
       s.family_income, s.referral_source, s.verified, s.responsible_staff_id, s.created_at, s.updated_at,
       string_agg(e.level, ', ') AS education_levels`

// List returns all students with their aggregated education levels.
func (r *StudentRepository) List(ctx context.Context) ([]models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM students s
        LEFT JOIN education_records e ON e.student_id = s.id
        GROUP BY s.id
        ORDER BY s.name`, studentDetailColumns)
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student detail by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM students s
        LEFT JOIN education_records e ON e.student_id = s.id
        WHERE s.id = $1
        GROUP BY s.id`, studentDetailColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListByCourse returns students with an active enrollment in the course.
func (r *StudentRepository) ListByCourse(ctx context.Context, courseID string) ([]models.Student, error) {
	const query = `SELECT s.id, s.name, s.national_id, s.birth_date, s.email, s.phone, s.address,
       s.family_income, s.referral_source, s.verified, s.responsible_staff_id, s.created_at, s.updated_at
        FROM students s
        JOIN enrollments en ON en.student_id = s.id AND en.status = $2
        WHERE en.course_id = $1
        ORDER BY s.name`
	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, courseID, models.EnrollmentStatusActive); err != nil {
		return nil, fmt.Errorf("list students by course: %w", err)
	}
	return students, nil
}

// ExistsByNationalID checks if a student with the national id exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error) {
	return r.exists(ctx, "national_id", nationalID, excludeID)
}

// ExistsByEmail checks if a student with the email exists, optionally excluding an ID.
func (r *StudentRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *StudentRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM students WHERE %s = $1", column)
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check student %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	const query = `INSERT INTO students (id, name, national_id, birth_date, email, phone, address, family_income, referral_source, verified, responsible_staff_id, created_at, updated_at)
        VALUES (:id, :name, :national_id, :birth_date, :email, :phone, :address, :family_income, :referral_source, :verified, :responsible_staff_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update full-replaces the mutable fields of an existing student.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, national_id = :national_id, birth_date = :birth_date, email = :email, phone = :phone, address = :address, family_income = :family_income, referral_source = :referral_source, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, student)
	if err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated student rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the student; dependent rows go via ON DELETE CASCADE.
func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM students WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted student rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Verify marks the student as reviewed by the given staff member.
func (r *StudentRepository) Verify(ctx context.Context, id, staffID string) error {
	const query = `UPDATE students SET verified = TRUE, responsible_staff_id = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id, staffID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("verify student: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check verified student rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
