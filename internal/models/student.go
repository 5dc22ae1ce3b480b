package models

import "time"

// Student represents a learner registered with the NGO.
type Student struct {
	ID                 string     `db:"id" json:"id"`
	Name               string     `db:"name" json:"name"`
	NationalID         string     `db:"national_id" json:"national_id"`
	BirthDate          *time.Time `db:"birth_date" json:"birth_date,omitempty"`
	Email              *string    `db:"email" json:"email,omitempty"`
	Phone              *string    `db:"phone" json:"phone,omitempty"`
	Address            *string    `db:"address" json:"address,omitempty"`
	FamilyIncome       *float64   `db:"family_income" json:"family_income,omitempty"`
	ReferralSource     *string    `db:"referral_source" json:"referral_source,omitempty"`
	Verified           bool       `db:"verified" json:"verified"`
	ResponsibleStaffID *string    `db:"responsible_staff_id" json:"responsible_staff_id,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// StudentDetail enriches Student with education context computed at read time.
type StudentDetail struct {
	Student
	EducationLevels *string `db:"education_levels" json:"education_levels,omitempty"`
}

// StudentProfile is the full single-student view, detail plus history.
type StudentProfile struct {
	StudentDetail
	EducationRecords []EducationRecord  `json:"education_records,omitempty"`
	Enrollments      []EnrollmentDetail `json:"enrollments,omitempty"`
}
