package student

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/http/views"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/types"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

// Form handles GET /add and GET /edit/{id}, the standalone form pages.
// With an id the form is pre-filled from the backend and submits an
// update; without one it submits a create.
func Form(store storage.Storage, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.FormData{}

		var extra []auth.Flash
		if _, editing := mux.Vars(r)["id"]; editing {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			data.ID = id

			slog.Info("getting a student", slog.Int64("id", id))
			s, err := store.GetStudent(r.Context(), id)
			if err != nil {
				slog.Error("error getting student",
					slog.Int64("id", id),
					slog.String("error", err.Error()))
				extra = append(extra, auth.Flash{Kind: auth.FlashError, Message: msgDetailsFailed})
			} else {
				data.Values = formOf(s)
			}
		}

		render(w, r, pages, http.StatusOK, views.PageForm, formTitle(data), data, extra...)
	}
}

// SubmitForm handles POST /add and POST /edit/{id}.
//
// Success goes back to the list, which fetches again on arrival. Failure
// stays on the form with the entered values so they can be corrected and
// sent again.
func SubmitForm(workspaces *workspace.Manager, sessions *auth.Store, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.FormData{}
		if _, editing := mux.Vars(r)["id"]; editing {
			id, ok := pathID(w, r)
			if !ok {
				return
			}
			data.ID = id
		}

		form, student, errs := decodeForm(r)
		data.Values = form
		if errs != nil {
			data.Errors = errs
			render(w, r, pages, http.StatusUnprocessableEntity, views.PageForm, formTitle(data), data)
			return
		}

		state := workspaces.Get(sessionID(r))

		var (
			err error
			msg string
		)
		if data.Editing() {
			slog.Info("updating a student", slog.Int64("id", data.ID))
			_, err = state.Update(r.Context(), data.ID, types.FullPatch(student))
			msg = msgUpdated
		} else {
			slog.Info("creating a student")
			_, err = state.Create(r.Context(), student)
			msg = msgAdded
		}
		if err != nil {
			slog.Error("error saving student",
				slog.Int64("id", data.ID),
				slog.String("error", err.Error()))
			render(w, r, pages, statusFor(err), views.PageForm, formTitle(data), data,
				auth.Flash{Kind: auth.FlashError, Message: msgSaveFailed})
			return
		}

		state.Invalidate()
		sessions.AddFlash(w, r, auth.FlashSuccess, msg)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func formTitle(data views.FormData) string {
	if data.Editing() {
		return "Edit student"
	}
	return "Add student"
}
