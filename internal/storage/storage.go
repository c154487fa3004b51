// Package storage defines the Storage interface — the contract every
// student backend satisfies — and the error kinds backends report.
//
// The console talks to the Students REST API through the remote package;
// the sqlite package implements the same contract against a local file.
// Handlers and the workspace only ever see this interface.
package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/aanand-mishra/students-admin/internal/types"
)

// Storage is the student backend contract. Each call is a single round
// trip: no batching, no pagination, no retries.
type Storage interface {
	// ListStudents returns every student in backend order.
	// Returns an empty slice (not nil) if there are none.
	ListStudents(ctx context.Context) ([]types.Student, error)

	// GetStudent fetches one student by id.
	GetStudent(ctx context.Context, id int64) (types.Student, error)

	// CreateStudent stores a new student and returns it with the id the
	// backend assigned.
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)

	// UpdateStudent replaces the fields of an existing student.
	UpdateStudent(ctx context.Context, id int64, student types.Student) (types.Student, error)

	// DeleteStudent removes a student permanently.
	DeleteStudent(ctx context.Context, id int64) error
}

// Kind classifies a backend failure.
type Kind int

const (
	// KindNetwork means the request never got a response.
	KindNetwork Kind = iota + 1
	// KindServer means the backend answered with a failure or with a body
	// that could not be used.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. Every *Error matches the sentinel of its Kind.
var (
	ErrNetwork  = errors.New("students backend unreachable")
	ErrServer   = errors.New("students backend error")
	ErrNotFound = errors.New("student not found")
)

// Error is returned by every Storage implementation.
type Error struct {
	Kind   Kind
	Op     string // e.g. "ListStudents"
	Status int    // HTTP status when the backend answered, 0 otherwise
	Err    error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s error (status %d): %v", e.Op, e.Kind, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrNetwork) / errors.Is(err, ErrServer) match on
// the kind without callers type-asserting.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrServer:
		return e.Kind == KindServer
	}
	return false
}

// NetworkError wraps err as a KindNetwork failure of op.
func NetworkError(op string, err error) error {
	return &Error{Kind: KindNetwork, Op: op, Err: err}
}

// ServerError wraps err as a KindServer failure of op.
func ServerError(op string, status int, err error) error {
	return &Error{Kind: KindServer, Op: op, Status: status, Err: err}
}
