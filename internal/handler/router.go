package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/educare-ngo/educare-api/pkg/response"
)

// Handlers bundles every endpoint group the router mounts.
type Handlers struct {
	Health   *HealthHandler
	Students *StudentHandler
	Teachers *TeacherHandler
	Staff    *StaffHandler
	Courses  *CourseHandler
	Stats    *StatsHandler
}

// RegisterRoutes mounts all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers) {
	r.GET("/", h.Health.Root)

	api := r.Group(prefix)
	api.GET("/health", h.Health.Health)

	students := api.Group("/students")
	{
		students.GET("", h.Students.List)
		students.GET("/:id", h.Students.Get)
		students.POST("", h.Students.Create)
		students.PUT("/:id", h.Students.Update)
		students.DELETE("/:id", h.Students.Delete)
		students.POST("/:id/verify", h.Students.Verify)
		students.POST("/:id/education", h.Students.AddEducation)
	}

	teachers := api.Group("/teachers")
	{
		teachers.GET("", h.Teachers.List)
		teachers.GET("/:id", h.Teachers.Get)
		teachers.POST("", h.Teachers.Create)
		teachers.PUT("/:id", h.Teachers.Update)
		teachers.DELETE("/:id", h.Teachers.Delete)
		teachers.GET("/:id/courses", h.Teachers.ListCourses)
		teachers.POST("/:id/courses", h.Teachers.AssignCourse)
		teachers.DELETE("/:id/courses", h.Teachers.UnassignCourse)
	}

	staff := api.Group("/staff")
	{
		staff.GET("", h.Staff.List)
		staff.GET("/:id", h.Staff.Get)
		staff.POST("", h.Staff.Create)
		staff.PUT("/:id", h.Staff.Update)
		staff.DELETE("/:id", h.Staff.Delete)
		staff.GET("/:id/verified-courses", h.Staff.VerifiedCourses)
		staff.GET("/:id/teachers", h.Staff.LinkedTeachers)
		staff.POST("/:id/teachers", h.Staff.RegisterTeacherLink)
	}

	courses := api.Group("/courses")
	{
		courses.GET("", h.Courses.List)
		courses.GET("/verified", h.Courses.ListVerified)
		courses.GET("/stats/enrollments", h.Stats.EnrollmentCounts)
		courses.GET("/stats/enrollments/export", h.Stats.Export)
		courses.GET("/:id", h.Courses.Get)
		courses.POST("", h.Courses.Create)
		courses.PUT("/:id", h.Courses.Update)
		courses.DELETE("/:id", h.Courses.Delete)
		courses.POST("/:id/verify", h.Courses.Verify)
		courses.POST("/:id/enroll", h.Courses.Enroll)
		courses.DELETE("/:id/enrollment", h.Courses.CancelEnrollment)
		courses.GET("/:id/students", h.Courses.ListStudents)
	}

	r.NoRoute(response.NotFoundRoute)
}
