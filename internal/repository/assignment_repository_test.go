package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sternfield-timetable/internal/models"
	"github.com/noah-isme/sternfield-timetable/pkg/database"
)

func newAssignmentMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "postgres"), mock, func() { db.Close() }
}

func TestAssignmentRepositoryListByTeacher(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	rows := sqlmock.NewRows([]string{"class", "subject"}).
		AddRow("FORM 1", "MATH").
		AddRow("FORM 2", "ENG/ELT")
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT class, subject FROM teacher_assignments WHERE teacher_name = $1 ORDER BY position ASC`)).
		WithArgs("Jane").
		WillReturnRows(rows)

	assignments, err := repo.ListByTeacher(context.Background(), "Jane")
	require.NoError(t, err)
	assert.Equal(t, []models.Assignment{{Class: "FORM 1", Subject: "MATH"}, {Class: "FORM 2", Subject: "ENG/ELT"}}, assignments)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryListTeachers(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectQuery("SELECT DISTINCT teacher_name FROM teacher_assignments").
		WillReturnRows(sqlmock.NewRows([]string{"teacher_name"}).AddRow("Jane").AddRow("Otieno"))

	teachers, err := repo.ListTeachers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jane", "Otieno"}, teachers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM teacher_assignments WHERE teacher_name = $1`)).
		WithArgs("Jane").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO teacher_assignments (teacher_name, position, class, subject) VALUES ($1, $2, $3, $4)`)).
		WithArgs("Jane", int64(0), "FORM 1", "MATH").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO teacher_assignments").
		WithArgs("Jane", int64(1), "FORM 2", "MATH").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	err := repo.Replace(context.Background(), "Jane", []models.Assignment{
		{Class: "FORM 1", Subject: "MATH"},
		{Class: "FORM 2", Subject: "MATH"},
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositoryReplaceRollsBack(t *testing.T) {
	db, mock, cleanup := newAssignmentMock(t)
	defer cleanup()
	repo := NewAssignmentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM teacher_assignments").WithArgs("Jane").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO teacher_assignments").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "Jane", []models.Assignment{{Class: "FORM 1", Subject: "MATH"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert teacher assignment")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssignmentRepositorySQLite(t *testing.T) {
	ctx := context.Background()
	db, err := database.NewSQLite(ctx, ":memory:")
	require.NoError(t, err)
	defer db.Close()

	repo := NewAssignmentRepository(db)
	require.NoError(t, repo.EnsureSchema(ctx))
	require.NoError(t, repo.EnsureSchema(ctx))

	require.NoError(t, repo.Replace(ctx, "Jane", []models.Assignment{
		{Class: "FORM 1", Subject: "MATH"},
		{Class: "FORM 2", Subject: "ENG/ELT"},
	}))
	require.NoError(t, repo.Replace(ctx, "Amos", []models.Assignment{{Class: "FORM 3", Subject: "PHY"}}))

	list, err := repo.ListByTeacher(ctx, "Jane")
	require.NoError(t, err)
	assert.Equal(t, "ENG/ELT", list[1].Subject)

	teachers, err := repo.ListTeachers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amos", "Jane"}, teachers)

	require.NoError(t, repo.Replace(ctx, "Jane", nil))
	list, err = repo.ListByTeacher(ctx, "Jane")
	require.NoError(t, err)
	assert.Empty(t, list)
	teachers, err = repo.ListTeachers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Amos"}, teachers)
}
