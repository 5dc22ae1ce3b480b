package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/educare-ngo/educare-api/internal/models"
)

func courseDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "capacity", "duration_label", "location", "responsible_teacher_name",
		"schedule_label", "registration_date", "verified", "responsible_staff_name",
		"created_at", "updated_at", "enrollment_count",
	})
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseDetailRows().
		AddRow("c1", "English", 30, nil, nil, nil, nil, time.Now(), true, "Carla", time.Now(), time.Now(), 12).
		AddRow("c2", "Math", 20, nil, nil, nil, nil, time.Now(), false, nil, time.Now(), time.Now(), 0)
	mock.ExpectQuery("SELECT (.+) FROM courses c").
		WithArgs(models.EnrollmentStatusActive).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Equal(t, 12, courses[0].EnrollmentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListVerified(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := courseDetailRows().
		AddRow("c1", "English", 30, nil, nil, nil, nil, time.Now(), true, "Carla", time.Now(), time.Now(), 12)
	mock.ExpectQuery("SELECT (.+) FROM courses c(.+)WHERE c.verified = TRUE").
		WithArgs(models.EnrollmentStatusActive).
		WillReturnRows(rows)

	courses, err := repo.ListVerified(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 1)
	assert.True(t, courses[0].Verified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryVerifyCommitsBothWrites(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE courses SET verified = TRUE").
		WithArgs("c1", "Carla", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO course_verifications").
		WithArgs(sqlmock.AnyArg(), "st1", "c1", sqlmock.AnyArg(), models.VerificationStatusApproved, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	audit := &models.CourseVerification{StaffID: "st1", CourseID: "c1", Status: models.VerificationStatusApproved}
	require.NoError(t, repo.Verify(context.Background(), "c1", "Carla", audit))
	assert.NotEmpty(t, audit.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryVerifyRollsBackWhenAuditFails(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE courses SET verified = TRUE").
		WithArgs("c1", "Carla", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO course_verifications").
		WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	audit := &models.CourseVerification{StaffID: "st1", CourseID: "c1", Status: models.VerificationStatusApproved}
	err := repo.Verify(context.Background(), "c1", "Carla", audit)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryVerifyNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE courses SET verified = TRUE").
		WithArgs("missing", "Carla", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	audit := &models.CourseVerification{StaffID: "st1", CourseID: "missing", Status: models.VerificationStatusApproved}
	err := repo.Verify(context.Background(), "missing", "Carla", audit)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("DELETE FROM courses").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), "missing"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
