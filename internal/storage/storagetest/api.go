package storagetest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
	"github.com/aanand-mishra/students-admin/internal/utils/response"
)

// NewAPI serves the Students REST API over m:
//
//	GET    /students        → list
//	GET    /students/{id}   → one student, 404 when unknown
//	POST   /students        → 201 with the created student
//	PUT    /students/{id}   → 200 with the updated student
//	DELETE /students/{id}   → 204
//
// A failure injected through m.Before answers 500.
func NewAPI(m *Memory) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /students", func(w http.ResponseWriter, r *http.Request) {
		students, err := m.ListStudents(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, students)
	})

	mux.HandleFunc("GET /students/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		student, err := m.GetStudent(r.Context(), id)
		if err != nil {
			writeError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, student)
	})

	mux.HandleFunc("POST /students", func(w http.ResponseWriter, r *http.Request) {
		var student types.Student
		if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		created, err := m.CreateStudent(r.Context(), student)
		if err != nil {
			writeError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusCreated, created)
	})

	mux.HandleFunc("PUT /students/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		var student types.Student
		if err := json.NewDecoder(r.Body).Decode(&student); err != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.GeneralError(err))
			return
		}
		updated, err := m.UpdateStudent(r.Context(), id, student)
		if err != nil {
			writeError(w, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, updated)
	})

	mux.HandleFunc("DELETE /students/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(w, r)
		if !ok {
			return
		}
		if err := m.DeleteStudent(r.Context(), id); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		response.WriteJSON(w, http.StatusBadRequest,
			response.GeneralError(errors.New("invalid id: must be an integer")))
		return 0, false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, storage.ErrNotFound) {
		status = http.StatusNotFound
	}
	response.WriteJSON(w, status, response.GeneralError(err))
}
