// Package student contains the HTTP handlers for the student pages.
//
// Handlers follow the factory pattern: each exported function receives
// its dependencies once at start-up and returns the http.HandlerFunc that
// serves every request:
//
//	protected.HandleFunc("/", student.List(workspaces, pages)).Methods("GET")
//
// Every handler here runs behind auth.Gate, so the session in the request
// context is signed in and its id keys the caller's workspace.
package student

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/http/views"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
	"github.com/aanand-mishra/students-admin/internal/utils/response"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

// User-facing notifications.
const (
	msgFetchFailed   = "Failed to fetch students. Please check your server connection."
	msgDetailsFailed = "Failed to fetch student details."
	msgSaveFailed    = "Failed to save student. Please try again."
	msgDeleteFailed  = "Failed to delete student. Please try again."
	msgAdded         = "Student added successfully"
	msgUpdated       = "Student updated successfully"
	msgDeleted       = "Student deleted successfully"
)

// ─────────────────────────────────────────────────────────────────────────────
// List handles GET /
//
// Query parameters:
//
//	q        — search text, kept for later renders of the same session
//	refresh  — "1" re-fetches the list
//	modal    — "add" or "edit" (with id) opens the dialog
//
// The list is fetched on the first visit of a session only; afterwards it
// is kept up to date by folding in the result of each change.
// ─────────────────────────────────────────────────────────────────────────────
func List(workspaces *workspace.Manager, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := workspaces.Get(sessionID(r))
		query := r.URL.Query()

		if query.Has("q") {
			state.SetQuery(query.Get("q"))
		}
		if query.Get("refresh") == "1" {
			state.Invalidate()
		}

		var extra []auth.Flash
		if state.NeedsLoad() {
			slog.Info("fetching students")
			if err := state.Load(r.Context()); err != nil {
				slog.Error("error fetching students", slog.String("error", err.Error()))
				extra = append(extra, auth.Flash{Kind: auth.FlashError, Message: msgFetchFailed})
			}
		}

		data := views.ListData{View: state.Snapshot()}

		switch query.Get("modal") {
		case "add":
			data.Modal = &views.FormData{}
		case "edit":
			id, err := strconv.ParseInt(query.Get("id"), 10, 64)
			if err != nil {
				break
			}
			if s, ok := state.Find(id); ok {
				data.Modal = &views.FormData{ID: s.ID, Values: formOf(s)}
			}
		}

		render(w, r, pages, http.StatusOK, views.PageList, "Students", data, extra...)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Create handles POST /students (the "Add Student" dialog).
//
// On success the student returned by the backend, id included, is
// appended to the session's list without re-fetching. On a validation
// failure or a backend error the dialog is shown again with what was
// entered and the list is left alone.
// ─────────────────────────────────────────────────────────────────────────────
func Create(workspaces *workspace.Manager, sessions *auth.Store, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")
		state := workspaces.Get(sessionID(r))

		form, student, errs := decodeForm(r)
		if errs != nil {
			renderModal(w, r, pages, state, http.StatusUnprocessableEntity,
				&views.FormData{Values: form, Errors: errs})
			return
		}

		created, err := state.Create(r.Context(), student)
		if err != nil {
			slog.Error("error creating student", slog.String("error", err.Error()))
			renderModal(w, r, pages, state, statusFor(err),
				&views.FormData{Values: form},
				auth.Flash{Kind: auth.FlashError, Message: msgSaveFailed})
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		sessions.AddFlash(w, r, auth.FlashSuccess, msgAdded)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles POST /students/{id} (the "Edit Student" dialog).
//
// The submitted fields are merged over the student in place; its position
// in the list does not change.
// ─────────────────────────────────────────────────────────────────────────────
func Update(workspaces *workspace.Manager, sessions *auth.Store, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}
		slog.Info("updating a student", slog.Int64("id", id))
		state := workspaces.Get(sessionID(r))

		form, student, errs := decodeForm(r)
		if errs != nil {
			renderModal(w, r, pages, state, http.StatusUnprocessableEntity,
				&views.FormData{ID: id, Values: form, Errors: errs})
			return
		}

		if _, err := state.Update(r.Context(), id, types.FullPatch(student)); err != nil {
			slog.Error("error updating student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			renderModal(w, r, pages, state, statusFor(err),
				&views.FormData{ID: id, Values: form},
				auth.Flash{Kind: auth.FlashError, Message: msgSaveFailed})
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		sessions.AddFlash(w, r, auth.FlashSuccess, msgUpdated)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ConfirmDelete handles GET /delete/{id}
// Nothing is deleted until the confirmation form is posted.
// ─────────────────────────────────────────────────────────────────────────────
func ConfirmDelete(workspaces *workspace.Manager, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		s, known := workspaces.Get(sessionID(r)).Find(id)
		render(w, r, pages, http.StatusOK, views.PageConfirm, "Delete student",
			views.ConfirmData{ID: id, Student: s, Known: known})
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles POST /students/{id}/delete
//
// Form value confirm=yes is required; anything else goes back to the list
// untouched. A student that is already gone from the list is not an error.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(workspaces *workspace.Manager, sessions *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r)
		if !ok {
			return
		}

		if r.PostFormValue("confirm") != "yes" {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		slog.Info("deleting a student", slog.Int64("id", id))
		state := workspaces.Get(sessionID(r))

		if err := state.Delete(r.Context(), id); err != nil {
			slog.Error("error deleting student",
				slog.Int64("id", id),
				slog.String("error", err.Error()))
			sessions.AddFlash(w, r, auth.FlashError, msgDeleteFailed)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		sessions.AddFlash(w, r, auth.FlashSuccess, msgDeleted)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func sessionID(r *http.Request) string {
	sess, _ := auth.FromContext(r.Context())
	return sess.ID
}

// pathID parses the {id} route variable, answering 400 when it is not an
// integer.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		http.Error(w, "invalid id: must be an integer", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// decodeForm reads and validates a student submission. errs is non-nil
// when a field is missing or malformed; no backend call may follow then.
func decodeForm(r *http.Request) (types.StudentForm, types.Student, response.FieldErrors) {
	form := types.StudentForm{
		Name:  r.PostFormValue("name"),
		Email: r.PostFormValue("email"),
		Age:   r.PostFormValue("age"),
	}

	if errs := response.Validate(form); errs != nil {
		return form, types.Student{}, errs
	}

	age, err := strconv.Atoi(form.Age)
	if err != nil {
		return form, types.Student{}, response.FieldErrors{"age": "field age must be a number"}
	}

	return form, types.Student{Name: form.Name, Email: form.Email, Age: age}, nil
}

func formOf(s types.Student) types.StudentForm {
	return types.StudentForm{Name: s.Name, Email: s.Email, Age: strconv.Itoa(s.Age)}
}

// statusFor maps a backend failure to the status of the re-rendered page.
func statusFor(err error) int {
	if errors.Is(err, storage.ErrNetwork) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func renderModal(w http.ResponseWriter, r *http.Request, pages *views.Renderer, state *workspace.ListState, status int, modal *views.FormData, extra ...auth.Flash) {
	data := views.ListData{View: state.Snapshot(), Modal: modal}
	render(w, r, pages, status, views.PageList, "Students", data, extra...)
}

func render(w http.ResponseWriter, r *http.Request, pages *views.Renderer, status int, page, title string, data any, extra ...auth.Flash) {
	if err := pages.Render(w, r, status, page, title, data, extra...); err != nil {
		slog.Error("error rendering page",
			slog.String("page", page),
			slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
