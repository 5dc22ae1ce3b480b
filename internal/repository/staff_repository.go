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

// StaffRepository manages persistence for staff records.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

const staffDetailColumns = `st.id, st.name, st.national_id, st.email, st.admission_date, st.phone, st.address, st.created_at, st.updated_at,
       COUNT(v.id) AS verified_course_count`

// List returns all staff members with the count of courses they approved.
func (r *StaffRepository) List(ctx context.Context) ([]models.StaffDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM staff st
        LEFT JOIN course_verifications v ON v.staff_id = st.id AND v.status = $1
        GROUP BY st.id
        ORDER BY st.name`, staffDetailColumns)
	var staff []models.StaffDetail
	if err := r.db.SelectContext(ctx, &staff, query, models.VerificationStatusApproved); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}

// FindByID fetches a staff detail by ID.
func (r *StaffRepository) FindByID(ctx context.Context, id string) (*models.StaffDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM staff st
        LEFT JOIN course_verifications v ON v.staff_id = st.id AND v.status = $2
        WHERE st.id = $1
        GROUP BY st.id`, staffDetailColumns)
	var detail models.StaffDetail
	if err := r.db.GetContext(ctx, &detail, query, id, models.VerificationStatusApproved); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByNationalID checks if a staff member with the national id exists, optionally excluding an ID.
func (r *StaffRepository) ExistsByNationalID(ctx context.Context, nationalID, excludeID string) (bool, error) {
	return r.exists(ctx, "national_id", nationalID, excludeID)
}

// ExistsByEmail checks if a staff member with the email exists, optionally excluding an ID.
func (r *StaffRepository) ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error) {
	return r.exists(ctx, "email", email, excludeID)
}

func (r *StaffRepository) exists(ctx context.Context, column, value, excludeID string) (bool, error) {
	query := fmt.Sprintf("SELECT 1 FROM staff WHERE %s = $1", column)
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
		return false, fmt.Errorf("check staff %s: %w", column, err)
	}
	return true, nil
}

// Create inserts a new staff record.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	if staff.ID == "" {
		staff.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	staff.UpdatedAt = now
	const query = `INSERT INTO staff (id, name, national_id, email, admission_date, phone, address, created_at, updated_at)
        VALUES (:id, :name, :national_id, :email, :admission_date, :phone, :address, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, staff); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Update full-replaces the mutable fields of an existing staff member.
func (r *StaffRepository) Update(ctx context.Context, staff *models.Staff) error {
	staff.UpdatedAt = time.Now().UTC()
	const query = `UPDATE staff SET name = :name, national_id = :national_id, email = :email, admission_date = :admission_date, phone = :phone, address = :address, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, staff)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check updated staff rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes the staff member; verification and link rows cascade.
func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM staff WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check deleted staff rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
