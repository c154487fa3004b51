package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
)

// ListState is one session's list view: the collection from the last
// successful fetch, the search query and the transient loading/deleting
// markers.
//
// The mutex is never held across a backend call, so a concurrent render
// sees Loading and Deleting while a call is in flight. Mutations of the
// same id are not serialized; the last one to settle wins.
type ListState struct {
	store storage.Storage

	mu       sync.Mutex
	items    []types.Student
	query    string
	loaded   bool
	loading  bool
	deleting map[int64]struct{}
	lastSeen time.Time
}

// NewListState returns an empty, not yet loaded list backed by store.
func NewListState(store storage.Storage) *ListState {
	return &ListState{
		store:    store,
		items:    make([]types.Student, 0),
		deleting: make(map[int64]struct{}),
	}
}

// View is an immutable snapshot for rendering.
type View struct {
	Students []types.Student // filtered by Query
	Total    int             // size of the unfiltered collection
	Query    string
	Loading  bool
	Deleting map[int64]bool
}

// IsDeleting reports whether a delete of id is in flight.
func (v View) IsDeleting(id int64) bool {
	return v.Deleting[id]
}

// Snapshot returns the current view with the filter applied.
func (l *ListState) Snapshot() View {
	l.mu.Lock()
	defer l.mu.Unlock()

	deleting := make(map[int64]bool, len(l.deleting))
	for id := range l.deleting {
		deleting[id] = true
	}

	return View{
		Students: Filter(l.items, l.query),
		Total:    len(l.items),
		Query:    l.query,
		Loading:  l.loading,
		Deleting: deleting,
	}
}

// Find returns the locally held student with the given id.
func (l *ListState) Find(id int64) (types.Student, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Find(l.items, id)
}

// NeedsLoad reports whether the list has not been fetched since it was
// created or invalidated.
func (l *ListState) NeedsLoad() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return !l.loaded
}

// Invalidate forces the next mount to fetch the list again.
func (l *ListState) Invalidate() {
	l.mu.Lock()
	l.loaded = false
	l.mu.Unlock()
}

// SetQuery replaces the search text.
func (l *ListState) SetQuery(query string) {
	l.mu.Lock()
	l.query = query
	l.mu.Unlock()
}

// Load fetches the whole collection. On failure the previous collection
// is kept. A Load that finds another one in flight returns at once; the
// caller renders the loading state instead.
func (l *ListState) Load(ctx context.Context) error {
	l.mu.Lock()
	if l.loading {
		l.mu.Unlock()
		return nil
	}
	l.loading = true
	l.mu.Unlock()

	students, err := l.store.ListStudents(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.loading = false
	if err != nil {
		return err
	}
	l.items = clone(students)
	l.loaded = true

	return nil
}

// Create stores a new student and appends the backend's record,
// including its id, to the collection. On failure nothing changes.
func (l *ListState) Create(ctx context.Context, student types.Student) (types.Student, error) {
	student.ID = 0
	created, err := l.store.CreateStudent(ctx, student)
	if err != nil {
		return types.Student{}, err
	}

	l.mu.Lock()
	l.items = Insert(l.items, created)
	l.mu.Unlock()

	return created, nil
}

// Update sends the merge of patch over the current record and, on
// success, merges the same patch into the local copy in place. When the
// record is not held locally and the patch is partial, the current
// record is fetched first so the backend still receives every field.
func (l *ListState) Update(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error) {
	l.mu.Lock()
	prev, found := Find(l.items, id)
	l.mu.Unlock()

	if !found {
		prev = types.Student{ID: id}
		if !complete(patch) {
			fetched, err := l.store.GetStudent(ctx, id)
			if err != nil {
				return types.Student{}, err
			}
			prev = fetched
		}
	}

	next := Merge(prev, patch)
	if _, err := l.store.UpdateStudent(ctx, id, next); err != nil {
		return types.Student{}, err
	}

	l.mu.Lock()
	l.items = Replace(l.items, id, patch)
	l.mu.Unlock()

	return next, nil
}

// Delete removes the student remotely and then locally. While the call
// is in flight the id is marked as deleting; the mark is cleared either
// way. Deleting an id that is no longer held locally is not an error on
// this side.
func (l *ListState) Delete(ctx context.Context, id int64) error {
	l.mu.Lock()
	l.deleting[id] = struct{}{}
	l.mu.Unlock()

	err := l.store.DeleteStudent(ctx, id)

	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.deleting, id)
	if err != nil {
		return err
	}
	l.items = Remove(l.items, id)

	return nil
}

func (l *ListState) touch(now time.Time) {
	l.mu.Lock()
	l.lastSeen = now
	l.mu.Unlock()
}

func (l *ListState) idleSince() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.lastSeen
}

func complete(p types.StudentPatch) bool {
	return p.Name != nil && p.Email != nil && p.Age != nil
}
