package models

import "time"

// VerificationStatus represents the outcome of a course verification event.
type VerificationStatus string

// Possible verification statuses.
const (
	VerificationStatusPending  VerificationStatus = "PENDING"
	VerificationStatusApproved VerificationStatus = "APPROVED"
	VerificationStatusRejected VerificationStatus = "REJECTED"
)

// CourseVerification is an audit row recording a staff-performed course review.
type CourseVerification struct {
	ID         string             `db:"id" json:"id"`
	StaffID    string             `db:"staff_id" json:"staff_id"`
	CourseID   string             `db:"course_id" json:"course_id"`
	VerifiedAt time.Time          `db:"verified_at" json:"verified_at"`
	Status     VerificationStatus `db:"status" json:"status"`
	Notes      *string            `db:"notes" json:"notes,omitempty"`
}

// CourseVerificationDetail enriches the audit row with the course name.
type CourseVerificationDetail struct {
	CourseVerification
	CourseName string `db:"course_name" json:"course_name"`
}
