package models

import "time"

// AssignmentStatus represents the lifecycle of a teaching assignment or a
// staff-teacher link. Deactivation only flips the status, rows are kept.
type AssignmentStatus string

// Possible assignment statuses.
const (
	AssignmentStatusActive   AssignmentStatus = "ACTIVE"
	AssignmentStatusInactive AssignmentStatus = "INACTIVE"
)

// TeachingAssignment associates a teacher with a course for a date range.
type TeachingAssignment struct {
	ID        string           `db:"id" json:"id"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	CourseID  string           `db:"course_id" json:"course_id"`
	StartDate *time.Time       `db:"start_date" json:"start_date,omitempty"`
	EndDate   *time.Time       `db:"end_date" json:"end_date,omitempty"`
	Status    AssignmentStatus `db:"status" json:"status"`
}

// StaffTeacherLink associates a staff member with a teacher they registered.
type StaffTeacherLink struct {
	ID        string           `db:"id" json:"id"`
	StaffID   string           `db:"staff_id" json:"staff_id"`
	TeacherID string           `db:"teacher_id" json:"teacher_id"`
	LinkedAt  time.Time        `db:"linked_at" json:"linked_at"`
	Status    AssignmentStatus `db:"status" json:"status"`
}
