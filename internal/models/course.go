package models

import "time"

// Course represents an educational program offered by the NGO.
type Course struct {
	ID                     string     `db:"id" json:"id"`
	Name                   string     `db:"name" json:"name"`
	Capacity               int        `db:"capacity" json:"capacity"`
	DurationLabel          *string    `db:"duration_label" json:"duration_label,omitempty"`
	Location               *string    `db:"location" json:"location,omitempty"`
	ResponsibleTeacherName *string    `db:"responsible_teacher_name" json:"responsible_teacher_name,omitempty"`
	ScheduleLabel          *string    `db:"schedule_label" json:"schedule_label,omitempty"`
	RegistrationDate       *time.Time `db:"registration_date" json:"registration_date,omitempty"`
	Verified               bool       `db:"verified" json:"verified"`
	ResponsibleStaffName   *string    `db:"responsible_staff_name" json:"responsible_staff_name,omitempty"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with the active enrollment count computed at read time.
type CourseDetail struct {
	Course
	EnrollmentCount int `db:"enrollment_count" json:"enrollment_count"`
}
