package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/educare-ngo/educare-api/internal/models"
)

// EducationRepository persists student education records.
type EducationRepository struct {
	db *sqlx.DB
}

// NewEducationRepository constructs an EducationRepository.
func NewEducationRepository(db *sqlx.DB) *EducationRepository {
	return &EducationRepository{db: db}
}

// Create inserts a new education record for a student.
func (r *EducationRepository) Create(ctx context.Context, record *models.EducationRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	const query = `INSERT INTO education_records (id, student_id, level, institution, completion_year)
        VALUES (:id, :student_id, :level, :institution, :completion_year)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create education record: %w", err)
	}
	return nil
}

// ListByStudent returns the education history of a student.
func (r *EducationRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EducationRecord, error) {
	const query = `SELECT id, student_id, level, institution, completion_year
        FROM education_records
        WHERE student_id = $1
        ORDER BY completion_year DESC NULLS LAST`
	var records []models.EducationRecord
	if err := r.db.SelectContext(ctx, &records, query, studentID); err != nil {
		return nil, fmt.Errorf("list education records: %w", err)
	}
	return records, nil
}
