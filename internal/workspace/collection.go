// Package workspace holds the list view's local copy of the student
// collection and folds the outcome of each remote call into it.
//
// The functions in this file are pure: they never modify their input
// slice and never talk to a backend. ListState (state.go) pairs them with
// a storage.Storage, and Manager (manager.go) keeps one ListState per
// browser session.
package workspace

import (
	"strings"

	"github.com/aanand-mishra/students-admin/internal/types"
)

// Filter returns the students whose name or email contains query,
// ignoring case, in their original order. An empty query returns the
// whole collection.
func Filter(students []types.Student, query string) []types.Student {
	if query == "" {
		return clone(students)
	}

	q := strings.ToLower(query)
	out := make([]types.Student, 0, len(students))
	for _, s := range students {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.Email), q) {
			out = append(out, s)
		}
	}

	return out
}

// Insert appends a newly created student at the end. Order is never
// re-sorted locally.
func Insert(students []types.Student, created types.Student) []types.Student {
	out := make([]types.Student, 0, len(students)+1)
	out = append(out, students...)
	return append(out, created)
}

// Replace merges patch over the student with the given id, keeping its
// position. An unknown id leaves the collection unchanged.
func Replace(students []types.Student, id int64, patch types.StudentPatch) []types.Student {
	out := clone(students)
	for i := range out {
		if out[i].ID == id {
			out[i] = Merge(out[i], patch)
		}
	}

	return out
}

// Remove drops the student with the given id. Removing an id that is not
// present returns an unchanged copy.
func Remove(students []types.Student, id int64) []types.Student {
	out := make([]types.Student, 0, len(students))
	for _, s := range students {
		if s.ID != id {
			out = append(out, s)
		}
	}

	return out
}

// Find returns the student with the given id.
func Find(students []types.Student, id int64) (types.Student, bool) {
	for _, s := range students {
		if s.ID == id {
			return s, true
		}
	}

	return types.Student{}, false
}

// Merge applies the set fields of patch over prev. The id is never
// touched.
func Merge(prev types.Student, patch types.StudentPatch) types.Student {
	if patch.Name != nil {
		prev.Name = *patch.Name
	}
	if patch.Email != nil {
		prev.Email = *patch.Email
	}
	if patch.Age != nil {
		prev.Age = *patch.Age
	}

	return prev
}

func clone(students []types.Student) []types.Student {
	out := make([]types.Student, len(students))
	copy(out, students)
	return out
}
