package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educare-ngo/educare-api/internal/models"
)

func TestTeachingAssignmentRepositoryExistsActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM teaching_assignments").
		WithArgs("t1", "c1", models.AssignmentStatusActive).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsActive(context.Background(), "t1", "c1")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectExec("INSERT INTO teaching_assignments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	assignment := &models.TeachingAssignment{TeacherID: "t1", CourseID: "c1"}
	require.NoError(t, repo.Create(context.Background(), assignment))
	assert.NotEmpty(t, assignment.ID)
	assert.Equal(t, models.AssignmentStatusActive, assignment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryDeactivate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	mock.ExpectExec("UPDATE teaching_assignments SET status").
		WithArgs("t1", "c1", models.AssignmentStatusInactive, models.AssignmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Deactivate(context.Background(), "t1", "c1"))

	mock.ExpectExec("UPDATE teaching_assignments SET status").
		WithArgs("t1", "c1", models.AssignmentStatusInactive, models.AssignmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Deactivate(context.Background(), "t1", "c1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeachingAssignmentRepositoryListCoursesByTeacher(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTeachingAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "name", "capacity", "duration_label", "location", "responsible_teacher_name",
		"schedule_label", "registration_date", "verified", "responsible_staff_name",
		"created_at", "updated_at",
	}).AddRow("c1", "English", 30, nil, nil, nil, nil, time.Now(), true, nil, time.Now(), time.Now())
	mock.ExpectQuery("SELECT (.+) FROM courses c").
		WithArgs("t1", models.AssignmentStatusActive).
		WillReturnRows(rows)

	courses, err := repo.ListCoursesByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "English", courses[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
