package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/internal/models"
)

// VerificationRepository reads the course verification audit log.
type VerificationRepository struct {
	db *sqlx.DB
}

// NewVerificationRepository constructs a VerificationRepository.
func NewVerificationRepository(db *sqlx.DB) *VerificationRepository {
	return &VerificationRepository{db: db}
}

// ListByStaff returns the verification events performed by a staff member.
func (r *VerificationRepository) ListByStaff(ctx context.Context, staffID string) ([]models.CourseVerificationDetail, error) {
	const query = `SELECT v.id, v.staff_id, v.course_id, v.verified_at, v.status, v.notes,
       c.name AS course_name
        FROM course_verifications v
        JOIN courses c ON c.id = v.course_id
        WHERE v.staff_id = $1
        ORDER BY v.verified_at DESC`
	var verifications []models.CourseVerificationDetail
	if err := r.db.SelectContext(ctx, &verifications, query, staffID); err != nil {
		return nil, fmt.Errorf("list verifications by staff: %w", err)
	}
	return verifications, nil
}
