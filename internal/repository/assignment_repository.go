package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/sternfield-timetable/internal/models"
)

const assignmentSchema = `CREATE TABLE IF NOT EXISTS teacher_assignments (
	teacher_name TEXT NOT NULL,
	position INTEGER NOT NULL,
	class TEXT NOT NULL,
	subject TEXT NOT NULL,
	PRIMARY KEY (teacher_name, position)
)`

// AssignmentRepository persists teacher assignments in a SQL database. It
// serves both the postgres and the embedded sqlite driver; queries are
// rebound to the driver's placeholder style.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// EnsureSchema creates the assignments table when missing.
func (r *AssignmentRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, assignmentSchema); err != nil {
		return fmt.Errorf("create teacher_assignments: %w", err)
	}
	return nil
}

// ListByTeacher returns the teacher's assignments in registration order.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacher string) ([]models.Assignment, error) {
	query := r.db.Rebind(`SELECT class, subject FROM teacher_assignments WHERE teacher_name = ? ORDER BY position ASC`)
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, teacher); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// ListTeachers returns every teacher with at least one assignment, sorted.
func (r *AssignmentRepository) ListTeachers(ctx context.Context) ([]string, error) {
	const query = `SELECT DISTINCT teacher_name FROM teacher_assignments ORDER BY teacher_name ASC`
	var teachers []string
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}

// Replace overwrites the teacher's assignment list. An empty list removes the
// teacher.
func (r *AssignmentRepository) Replace(ctx context.Context, teacher string, assignments []models.Assignment) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace assignments: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM teacher_assignments WHERE teacher_name = ?`), teacher); err != nil {
		return fmt.Errorf("clear teacher assignments: %w", err)
	}

	insert := tx.Rebind(`INSERT INTO teacher_assignments (teacher_name, position, class, subject) VALUES (?, ?, ?, ?)`)
	for i, a := range assignments {
		if _, err = tx.ExecContext(ctx, insert, teacher, i, a.Class, a.Subject); err != nil {
			return fmt.Errorf("insert teacher assignment: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace assignments: %w", err)
	}
	return nil
}
