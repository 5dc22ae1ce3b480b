package models

// EducationRecord captures one schooling entry for a student.
type EducationRecord struct {
	ID             string  `db:"id" json:"id"`
	StudentID      string  `db:"student_id" json:"student_id"`
	Level          string  `db:"level" json:"level"`
	Institution    *string `db:"institution" json:"institution,omitempty"`
	CompletionYear *int    `db:"completion_year" json:"completion_year,omitempty"`
}
