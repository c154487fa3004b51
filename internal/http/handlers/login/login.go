// Package login contains the handlers for signing in and out.
package login

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/http/views"
	"github.com/aanand-mishra/students-admin/internal/types"
	"github.com/aanand-mishra/students-admin/internal/utils/response"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

const (
	msgSuccess = "Login successful"
	msgInvalid = "Invalid credentials"
)

// Page handles GET /login. The next parameter set by the gate is carried
// through the form.
func Page(pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := views.LoginData{Next: r.URL.Query().Get("next")}
		render(w, r, pages, http.StatusOK, data)
	}
}

// Submit handles POST /login.
//
// Both fields are required; a missing one is reported next to the field
// and nothing is compared. A mismatch leaves the session as it was. A
// match sets the login flag and goes to the student list.
func Submit(creds auth.Credentials, sessions *auth.Store, pages *views.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form := types.LoginForm{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}
		data := views.LoginData{
			Username: form.Username,
			Next:     r.PostFormValue("next"),
		}

		if errs := response.Validate(form); errs != nil {
			data.Errors = errs
			render(w, r, pages, http.StatusUnprocessableEntity, data)
			return
		}

		if err := creds.Verify(form); err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				slog.Info("login rejected", slog.String("username", form.Username))
			}
			render(w, r, pages, http.StatusUnauthorized, data,
				auth.Flash{Kind: auth.FlashError, Message: msgInvalid})
			return
		}

		if err := sessions.SignIn(w, r); err != nil {
			slog.Error("failed to save session", slog.String("error", err.Error()))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		slog.Info("login succeeded", slog.String("username", form.Username))
		sessions.AddFlash(w, r, auth.FlashSuccess, msgSuccess)
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// Logout handles POST /logout: it clears the login flag, forgets the
// session's list and returns to the login page. The Students API is not
// contacted.
func Logout(workspaces *workspace.Manager, sessions *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := auth.FromContext(r.Context()); ok {
			workspaces.Drop(sess.ID)
		}

		if err := sessions.SignOut(w, r); err != nil {
			slog.Error("failed to clear session", slog.String("error", err.Error()))
		}

		slog.Info("logged out")
		http.Redirect(w, r, auth.LoginPath, http.StatusSeeOther)
	}
}

func render(w http.ResponseWriter, r *http.Request, pages *views.Renderer, status int, data views.LoginData, extra ...auth.Flash) {
	if err := pages.Render(w, r, status, views.PageLogin, "Login", data, extra...); err != nil {
		slog.Error("error rendering page",
			slog.String("page", views.PageLogin),
			slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
