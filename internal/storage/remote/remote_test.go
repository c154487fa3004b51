package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-admin/internal/config"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/storage/storagetest"
	"github.com/aanand-mishra/students-admin/internal/types"
)

func newClient(t *testing.T, mem *storagetest.Memory) *Client {
	t.Helper()
	srv := httptest.NewServer(storagetest.NewAPI(mem))
	t.Cleanup(srv.Close)

	client, err := New(config.StudentsAPI{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return client
}

func TestCRUDRoundTrip(t *testing.T) {
	mem := storagetest.NewMemory()
	client := newClient(t, mem)
	ctx := context.Background()

	list, err := client.ListStudents(ctx)
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	created, err := client.CreateStudent(ctx, types.Student{Name: "Ana", Email: "a@x.com", Age: 20})
	require.NoError(t, err)
	assert.Equal(t, types.Student{ID: 1, Name: "Ana", Email: "a@x.com", Age: 20}, created)

	got, err := client.GetStudent(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	updated, err := client.UpdateStudent(ctx, created.ID, types.Student{Name: "Ana", Email: "a@x.com", Age: 21})
	require.NoError(t, err)
	assert.Equal(t, 21, updated.Age)
	assert.Equal(t, created.ID, updated.ID)

	require.NoError(t, client.DeleteStudent(ctx, created.ID))

	list, err = client.ListStudents(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestRequestShape(t *testing.T) {
	var (
		method, path, contentType string
		body                      map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method, path, contentType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		body = nil
		_ = json.Unmarshal(raw, &body)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": 7, "name": "Ana", "email": "a@x.com", "age": 20}`))
	}))
	defer srv.Close()

	client := NewWithClient(srv.URL, srv.Client())

	_, err := client.UpdateStudent(context.Background(), 7, types.Student{ID: 99, Name: "Ana", Email: "a@x.com", Age: 20})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, method)
	assert.Equal(t, "/students/7", path)
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, map[string]any{"name": "Ana", "email": "a@x.com", "age": float64(20)}, body,
		"the id travels in the URL only")
}

func TestCreateFillsFieldsMissingFromAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id": 12}`))
	}))
	defer srv.Close()

	created, err := NewWithClient(srv.URL, srv.Client()).
		CreateStudent(context.Background(), types.Student{Name: "Ana", Email: "a@x.com", Age: 20})

	require.NoError(t, err)
	assert.Equal(t, types.Student{ID: 12, Name: "Ana", Email: "a@x.com", Age: 20}, created)
}

func TestCreateWithoutIDIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	_, err := NewWithClient(srv.URL, srv.Client()).
		CreateStudent(context.Background(), types.Student{Name: "Ana", Email: "a@x.com", Age: 20})

	require.ErrorIs(t, err, storage.ErrServer)
}

func TestServerErrors(t *testing.T) {
	mem := storagetest.NewMemory()
	client := newClient(t, mem)

	_, err := client.GetStudent(context.Background(), 404)
	require.ErrorIs(t, err, storage.ErrServer)
	require.ErrorIs(t, err, storage.ErrNotFound)
	assert.NotErrorIs(t, err, storage.ErrNetwork)

	var se *storage.Error
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Status)
	assert.Equal(t, "GetStudent", se.Op)

	mem.Before = func(string) error { return errors.New("disk on fire") }
	_, err = client.ListStudents(context.Background())
	require.ErrorIs(t, err, storage.ErrServer)
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.Status)
}

func TestMalformedBodyIsServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"students": `))
	}))
	defer srv.Close()

	_, err := NewWithClient(srv.URL, srv.Client()).ListStudents(context.Background())

	require.ErrorIs(t, err, storage.ErrServer)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	client := NewWithClient(url, &http.Client{Timeout: time.Second})

	_, err := client.ListStudents(context.Background())
	require.ErrorIs(t, err, storage.ErrNetwork)
	assert.NotErrorIs(t, err, storage.ErrServer)

	err = client.DeleteStudent(context.Background(), 1)
	require.ErrorIs(t, err, storage.ErrNetwork)
}

func TestNewRejectsEmptyBaseURL(t *testing.T) {
	_, err := New(config.StudentsAPI{})
	require.Error(t, err)
}
