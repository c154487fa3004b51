package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
)

func openTemp(t *testing.T) *SQLite {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "nested", "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestCRUD(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	list, err := db.ListStudents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	ana, err := db.CreateStudent(ctx, types.Student{Name: "Ana", Email: "a@x.com", Age: 20})
	require.NoError(t, err)
	bob, err := db.CreateStudent(ctx, types.Student{Name: "Bob", Email: "b@y.org", Age: 30})
	require.NoError(t, err)
	assert.NotZero(t, ana.ID)
	assert.Greater(t, bob.ID, ana.ID)

	got, err := db.GetStudent(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, ana, got)

	updated, err := db.UpdateStudent(ctx, ana.ID, types.Student{Name: "Ana", Email: "ana@x.com", Age: 21})
	require.NoError(t, err)
	assert.Equal(t, types.Student{ID: ana.ID, Name: "Ana", Email: "ana@x.com", Age: 21}, updated)

	require.NoError(t, db.DeleteStudent(ctx, ana.ID))
	require.NoError(t, db.DeleteStudent(ctx, ana.ID), "deleting twice is not an error")

	list, err = db.ListStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []types.Student{bob}, list)
}

func TestNotFound(t *testing.T) {
	db := openTemp(t)
	ctx := context.Background()

	_, err := db.GetStudent(ctx, 42)
	require.ErrorIs(t, err, storage.ErrNotFound)
	require.ErrorIs(t, err, storage.ErrServer)

	_, err = db.UpdateStudent(ctx, 42, types.Student{Name: "x", Email: "y", Age: 1})
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	db, err := New(path)
	require.NoError(t, err)
	created, err := db.CreateStudent(ctx, types.Student{Name: "Ana", Email: "a@x.com", Age: 20})
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}
