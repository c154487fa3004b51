// Package storagetest provides an in-memory storage.Storage and a fake
// Students API built on it, for tests.
package storagetest

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
)

// Memory keeps students in insertion order and assigns ids from 1.
type Memory struct {
	// Before, when set, runs at the start of every operation with the
	// operation name. A non-nil result is returned instead of running it.
	Before func(op string) error

	mu       sync.Mutex
	nextID   int64
	students []types.Student
	calls    map[string]int
}

// NewMemory returns a store holding seed, which keep their ids.
func NewMemory(seed ...types.Student) *Memory {
	m := &Memory{calls: make(map[string]int)}
	for _, s := range seed {
		m.students = append(m.students, s)
		if s.ID > m.nextID {
			m.nextID = s.ID
		}
	}
	return m
}

// Calls returns how many times op ran (including failed runs).
func (m *Memory) Calls(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// All returns a copy of the stored students.
func (m *Memory) All() []types.Student {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]types.Student, len(m.students))
	copy(out, m.students)
	return out
}

func (m *Memory) enter(op string) error {
	m.mu.Lock()
	m.calls[op]++
	m.mu.Unlock()

	if m.Before != nil {
		return m.Before(op)
	}
	return nil
}

func notFound(op string, id int64) error {
	return storage.ServerError(op, http.StatusNotFound, fmt.Errorf("%w: id %d", storage.ErrNotFound, id))
}

func (m *Memory) ListStudents(_ context.Context) ([]types.Student, error) {
	if err := m.enter("ListStudents"); err != nil {
		return nil, err
	}
	return m.All(), nil
}

func (m *Memory) GetStudent(_ context.Context, id int64) (types.Student, error) {
	const op = "GetStudent"
	if err := m.enter(op); err != nil {
		return types.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.students {
		if s.ID == id {
			return s, nil
		}
	}
	return types.Student{}, notFound(op, id)
}

func (m *Memory) CreateStudent(_ context.Context, student types.Student) (types.Student, error) {
	if err := m.enter("CreateStudent"); err != nil {
		return types.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	student.ID = m.nextID
	m.students = append(m.students, student)
	return student, nil
}

func (m *Memory) UpdateStudent(_ context.Context, id int64, student types.Student) (types.Student, error) {
	const op = "UpdateStudent"
	if err := m.enter(op); err != nil {
		return types.Student{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			student.ID = id
			m.students[i] = student
			return student, nil
		}
	}
	return types.Student{}, notFound(op, id)
}

func (m *Memory) DeleteStudent(_ context.Context, id int64) error {
	if err := m.enter("DeleteStudent"); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.students {
		if m.students[i].ID == id {
			m.students = append(m.students[:i], m.students[i+1:]...)
			break
		}
	}
	return nil
}
