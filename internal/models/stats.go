package models

// CourseEnrollmentCount is one row of the enrollments-per-course report.
type CourseEnrollmentCount struct {
	CourseName      string `db:"course_name" json:"course_name"`
	EnrollmentCount int    `db:"enrollment_count" json:"enrollment_count"`
}
