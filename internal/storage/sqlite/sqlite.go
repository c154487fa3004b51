// Package sqlite provides a SQLite-backed implementation of the
// storage.Storage interface using Go's standard database/sql package.
//
// It lets the console run without a Students API: the records live in a
// single file and ids come from SQLite's AUTOINCREMENT, so the console
// still never assigns one itself.
//
// The blank import below registers the sqlite3 driver with database/sql.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is the file-backed implementation of storage.Storage.
// A single *sql.DB is safe for concurrent use by multiple goroutines.
type SQLite struct {
	Db *sql.DB
}

// New opens the SQLite database at path, creates the students table if
// it does not already exist, and returns a ready-to-use *SQLite.
func New(path string) (*SQLite, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite.New: create dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite.New: open db: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS students (
			id    INTEGER PRIMARY KEY AUTOINCREMENT,
			name  TEXT    NOT NULL,
			email TEXT    NOT NULL,
			age   INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite.New: create table: %w", err)
	}

	return &SQLite{Db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLite) Close() error {
	return s.Db.Close()
}

func (s *SQLite) CreateStudent(ctx context.Context, student types.Student) (types.Student, error) {
	const op = "CreateStudent"

	result, err := s.Db.ExecContext(ctx,
		"INSERT INTO students (name, email, age) VALUES (?, ?, ?)",
		student.Name, student.Email, student.Age,
	)
	if err != nil {
		return types.Student{}, storage.ServerError(op, 0, fmt.Errorf("exec: %w", err))
	}

	lastID, err := result.LastInsertId()
	if err != nil {
		return types.Student{}, storage.ServerError(op, 0, fmt.Errorf("last insert id: %w", err))
	}

	student.ID = lastID
	return student, nil
}

func (s *SQLite) GetStudent(ctx context.Context, id int64) (types.Student, error) {
	const op = "GetStudent"

	var student types.Student
	err := s.Db.QueryRowContext(ctx,
		"SELECT id, name, email, age FROM students WHERE id = ? LIMIT 1", id,
	).Scan(&student.ID, &student.Name, &student.Email, &student.Age)
	if errors.Is(err, sql.ErrNoRows) {
		return types.Student{}, storage.ServerError(op, http.StatusNotFound,
			fmt.Errorf("%w: id %d", storage.ErrNotFound, id))
	}
	if err != nil {
		return types.Student{}, storage.ServerError(op, 0, fmt.Errorf("scan: %w", err))
	}

	return student, nil
}

// ListStudents returns rows in id order, which is insertion order.
func (s *SQLite) ListStudents(ctx context.Context) ([]types.Student, error) {
	const op = "ListStudents"

	rows, err := s.Db.QueryContext(ctx, "SELECT id, name, email, age FROM students ORDER BY id")
	if err != nil {
		return nil, storage.ServerError(op, 0, fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	students := make([]types.Student, 0)
	for rows.Next() {
		var student types.Student
		if err := rows.Scan(&student.ID, &student.Name, &student.Email, &student.Age); err != nil {
			return nil, storage.ServerError(op, 0, fmt.Errorf("scan row: %w", err))
		}
		students = append(students, student)
	}
	if err := rows.Err(); err != nil {
		return nil, storage.ServerError(op, 0, fmt.Errorf("rows iteration: %w", err))
	}

	return students, nil
}

func (s *SQLite) UpdateStudent(ctx context.Context, id int64, student types.Student) (types.Student, error) {
	const op = "UpdateStudent"

	result, err := s.Db.ExecContext(ctx,
		"UPDATE students SET name = ?, email = ?, age = ? WHERE id = ?",
		student.Name, student.Email, student.Age, id,
	)
	if err != nil {
		return types.Student{}, storage.ServerError(op, 0, fmt.Errorf("exec: %w", err))
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return types.Student{}, storage.ServerError(op, http.StatusNotFound,
			fmt.Errorf("%w: id %d", storage.ErrNotFound, id))
	}

	return s.GetStudent(ctx, id)
}

func (s *SQLite) DeleteStudent(ctx context.Context, id int64) error {
	if _, err := s.Db.ExecContext(ctx, "DELETE FROM students WHERE id = ?", id); err != nil {
		return storage.ServerError("DeleteStudent", 0, fmt.Errorf("exec: %w", err))
	}

	return nil
}
