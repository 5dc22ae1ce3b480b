package models

import "time"

// Staff represents an administrative staff member of the NGO.
type Staff struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	NationalID    string     `db:"national_id" json:"national_id"`
	Email         string     `db:"email" json:"email"`
	AdmissionDate *time.Time `db:"admission_date" json:"admission_date,omitempty"`
	Phone         *string    `db:"phone" json:"phone,omitempty"`
	Address       *string    `db:"address" json:"address,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// StaffDetail enriches Staff with the count of courses they verified.
type StaffDetail struct {
	Staff
	VerifiedCourseCount int `db:"verified_course_count" json:"verified_course_count"`
}
