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

func TestEnrollmentRepositoryExistsPair(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectQuery("SELECT 1 FROM enrollments").
		WithArgs("s1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsPair(context.Background(), "s1", "c1")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM enrollments").
		WithArgs("s1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsPair(context.Background(), "s1", "c2")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("INSERT INTO enrollments").
		WillReturnResult(sqlmock.NewResult(0, 1))

	enrollment := &models.Enrollment{StudentID: "s1", CourseID: "c1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	assert.NotEmpty(t, enrollment.ID)
	assert.Equal(t, models.EnrollmentStatusActive, enrollment.Status)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCancelOnlyActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("s1", "c1", models.EnrollmentStatusCancelled, models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Cancel(context.Background(), "s1", "c1"))

	// Cancelling the same pair again touches no active row.
	mock.ExpectExec("UPDATE enrollments SET status").
		WithArgs("s1", "c1", models.EnrollmentStatusCancelled, models.EnrollmentStatusActive).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Cancel(context.Background(), "s1", "c1"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCountsByCourseInRange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"course_name", "enrollment_count"}).
		AddRow("English", 7).
		AddRow("Math", 3)
	mock.ExpectQuery("SELECT c.name AS course_name, COUNT").
		WithArgs(start, end).
		WillReturnRows(rows)

	counts, err := repo.CountsByCourseInRange(context.Background(), start, end)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "English", counts[0].CourseName)
	assert.Equal(t, 7, counts[0].EnrollmentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrollment_date", "status", "student_name", "course_name"}).
		AddRow("e1", "s1", "c1", time.Now(), models.EnrollmentStatusActive, "Ana Souza", "English")
	mock.ExpectQuery("SELECT en.id, en.student_id").
		WithArgs("s1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByStudent(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "English", enrollments[0].CourseName)
	assert.NoError(t, mock.ExpectationsWereMet())
}
