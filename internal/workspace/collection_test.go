package workspace

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-admin/internal/types"
)

func sample() []types.Student {
	return []types.Student{
		{ID: 1, Name: "Ana Lima", Email: "ana@x.com", Age: 20},
		{ID: 2, Name: "Bob", Email: "bob@y.org", Age: 31},
		{ID: 3, Name: "Carla", Email: "carla@BANANA.io", Age: 25},
		{ID: 4, Name: "Dmitri", Email: "d@z.net", Age: 40},
	}
}

func ids(students []types.Student) []int64 {
	out := make([]int64, 0, len(students))
	for _, s := range students {
		out = append(out, s.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "empty query keeps everything in order", query: "", want: []int64{1, 2, 3, 4}},
		{name: "matches name", query: "bob", want: []int64{2}},
		{name: "case insensitive", query: "ANA", want: []int64{1, 3}},
		{name: "matches email", query: "z.net", want: []int64{4}},
		{name: "substring anywhere", query: "an", want: []int64{1, 3}},
		{name: "no match", query: "zzz", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(sample(), tt.query)))
		})
	}
}

func TestFilterExactlyMatchingElements(t *testing.T) {
	students := sample()
	for _, q := range []string{"", "a", "an", "O", "@", ".com", "x"} {
		got := Filter(students, q)

		var want []types.Student
		for _, s := range students {
			lq := strings.ToLower(q)
			if strings.Contains(strings.ToLower(s.Name), lq) || strings.Contains(strings.ToLower(s.Email), lq) {
				want = append(want, s)
			}
		}
		assert.ElementsMatch(t, want, got, "query %q", q)
		assert.Equal(t, got, Filter(got, q), "filter must be idempotent for %q", q)
	}
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	students := sample()
	got := Filter(students, "")
	got[0].Name = "changed"

	assert.Equal(t, "Ana Lima", students[0].Name)
}

func TestInsertAppends(t *testing.T) {
	students := sample()
	got := Insert(students, types.Student{ID: 9, Name: "Zed", Email: "z@z.z", Age: 18})

	assert.Equal(t, []int64{1, 2, 3, 4, 9}, ids(got))
	assert.Len(t, students, 4)
}

func TestReplacePartialMerge(t *testing.T) {
	age := 21
	got := Replace(sample(), 1, types.StudentPatch{Age: &age})

	s, ok := Find(got, 1)
	require.True(t, ok)
	assert.Equal(t, types.Student{ID: 1, Name: "Ana Lima", Email: "ana@x.com", Age: 21}, s)
	assert.Equal(t, []int64{1, 2, 3, 4}, ids(got), "position must not change")
}

func TestReplaceUnknownID(t *testing.T) {
	name := "nobody"
	got := Replace(sample(), 42, types.StudentPatch{Name: &name})

	assert.Equal(t, sample(), got)
}

func TestRemove(t *testing.T) {
	got := Remove(sample(), 2)
	assert.Equal(t, []int64{1, 3, 4}, ids(got))

	again := Remove(got, 2)
	assert.Equal(t, got, again, "removing a missing id leaves the collection unchanged")
}

func TestMergeKeepsID(t *testing.T) {
	prev := types.Student{ID: 7, Name: "A", Email: "a@a", Age: 1}
	next := Merge(prev, types.FullPatch(types.Student{ID: 99, Name: "B", Email: "b@b", Age: 2}))

	assert.Equal(t, types.Student{ID: 7, Name: "B", Email: "b@b", Age: 2}, next)
}
