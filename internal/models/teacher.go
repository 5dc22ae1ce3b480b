package models

import "time"

// Teacher represents an instructor record.
type Teacher struct {
	ID                  string     `db:"id" json:"id"`
	Name                string     `db:"name" json:"name"`
	NationalID          string     `db:"national_id" json:"national_id"`
	BirthDate           *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Email               string     `db:"email" json:"email"`
	EducationBackground *string    `db:"education_background" json:"education_background,omitempty"`
	Address             *string    `db:"address" json:"address,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// TeacherDetail enriches Teacher with the count of courses currently taught.
type TeacherDetail struct {
	Teacher
	TaughtCourseCount int `db:"taught_course_count" json:"taught_course_count"`
}
