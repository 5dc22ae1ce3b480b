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

// TeacherRepository manages persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

const teacherDetailColumns = `t.id, t.name, t.national_id, t.birth_date, t.email, t.education_background, t.address, t.created_at, t.updated_at,
       COUNT(ta.id) AS taught_course_count`

// List returns all teachers with the count of courses they actively teach.
func (r *TeacherRepository) List(ctx context.Context) ([]models.TeacherDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM teachers t
        LEFT JOIN teaching_assignments ta ON ta.teacher_id = t.id AND ta.status = $1
        GROUP BY t.id
        ORDER BY t.name`, teacherDetailColumns)
	var teachers []models.TeacherDetail
	if err := r.db.SelectContext(ctx, &teachers, query, models.AssignmentStatusActive); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// FindByID fetches a teacher detail by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.TeacherDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM teachers t
        LEFT JOIN teaching_assignments ta ON ta.teacher_id = t.id AND ta.status = $2
        WHERE t.id = $1
        GROUP BY t.id`, teacherDetailColumns)
	var detail models.TeacherDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.AssignmentStatusActive); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByNationalID checks if a teacher with the national id exists, optionally excluding an ID.
func (r *TeacherRepository) ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error) {
	return r.exists(ctx, "national_id", nationalID, excludeID)
}

// ExistsByEmail checks if a teacher with the email exists, optionally excluding an ID.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *TeacherRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM teachers WHERE %s = $1", column)
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
		return false, fmt.Errorf("check teacher %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now
	const query = `INSERT INTO teachers (id, name, national_id, birth_date, email, education_background, address, created_at, updated_at)
        VALUES (:id, :name, :national_id, :birth_date, :email, :education_background, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update full-replaces the mutable fields of an existing teacher.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET name = :name, national_id = :national_id, birth_date = :birth_date, email = :email, education_background = :education_background, address = :address, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, teacher)
	if err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated teacher rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the teacher; assignments and links cascade.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM teachers WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted teacher rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
