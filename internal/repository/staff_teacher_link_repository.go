package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/internal/models"
)

// StaffTeacherLinkRepository persists staff-teacher registration links.
type StaffTeacherLinkRepository struct {
	db *sqlx.DB
}

// NewStaffTeacherLinkRepository constructs the repository.
func NewStaffTeacherLinkRepository(db *sqlx.DB) *StaffTeacherLinkRepository {
	return &StaffTeacherLinkRepository{db: db}
}

// Create inserts a new link row.
func (r *StaffTeacherLinkRepository) Create(ctx context.Context, link *models.StaffTeacherLink) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.LinkedAt.IsZero() {
		link.LinkedAt = time.Now().UTC()
	}
	if link.Status == "" {
		link.Status = models.AssignmentStatusActive
	}
	const query = `INSERT INTO staff_teacher_links (id, staff_id, teacher_id, linked_at, status)
        VALUES (:id, :staff_id, :teacher_id, :linked_at, :status)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create staff teacher link: %w", err)
	}
	return nil
}

// ListTeachersByStaff returns teachers registered by a staff member.
func (r *StaffTeacherLinkRepository) ListTeachersByStaff(ctx context.Context, staffID string) ([]models.Teacher, error) {
	const query = `SELECT t.id, t.name, t.national_id, t.birth_date, t.email, t.education_background, t.address, t.created_at, t.updated_at
        FROM teachers t
        JOIN staff_teacher_links l ON l.teacher_id = t.id AND l.status = $2
        WHERE l.staff_id = $1
        ORDER BY t.name`
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, staffID, models.AssignmentStatusActive); err != nil {
		return nil, fmt.Errorf("list teachers by staff: %w", err)
	}
	return teachers, nil
}
