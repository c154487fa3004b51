// Package router wires the console's routes.
//
// Route table:
//
//	GET  /healthz               → liveness probe (public)
//	GET  /login                 → login form (public)
//	POST /login                 → sign in (public)
//	POST /logout                → sign out (public)
//	GET  /                      → student list (q, refresh, modal)
//	POST /students              → create from the list dialog
//	POST /students/{id}         → update from the list dialog
//	GET  /delete/{id}           → delete confirmation
//	POST /students/{id}/delete  → delete
//	GET  /add, POST /add        → standalone create form
//	GET  /edit/{id}, POST ...   → standalone edit form
//
// Every route runs inside the session middleware; all but the public ones
// also run behind the gate.
package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/http/handlers/login"
	"github.com/aanand-mishra/students-admin/internal/http/handlers/student"
	"github.com/aanand-mishra/students-admin/internal/http/views"
	"github.com/aanand-mishra/students-admin/internal/storage"
	"github.com/aanand-mishra/students-admin/internal/utils/response"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

// Deps is everything the handlers need.
type Deps struct {
	Storage     storage.Storage
	Workspaces  *workspace.Manager
	Sessions    *auth.Store
	Pages       *views.Renderer
	Credentials auth.Credentials
}

// New returns the console's HTTP handler.
func New(d Deps) http.Handler {
	r := mux.NewRouter()
	r.Use(d.Sessions.Middleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		response.WriteJSON(w, http.StatusOK, response.Response{Status: response.StatusOK})
	}).Methods(http.MethodGet)

	r.HandleFunc(auth.LoginPath, login.Page(d.Pages)).Methods(http.MethodGet)
	r.HandleFunc(auth.LoginPath, login.Submit(d.Credentials, d.Sessions, d.Pages)).Methods(http.MethodPost)
	r.HandleFunc("/logout", login.Logout(d.Workspaces, d.Sessions)).Methods(http.MethodPost)

	protected := r.NewRoute().Subrouter()
	protected.Use(auth.Gate)

	protected.HandleFunc("/", student.List(d.Workspaces, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/students", student.Create(d.Workspaces, d.Sessions, d.Pages)).Methods(http.MethodPost)
	protected.HandleFunc("/students/{id:[0-9]+}", student.Update(d.Workspaces, d.Sessions, d.Pages)).Methods(http.MethodPost)
	protected.HandleFunc("/delete/{id:[0-9]+}", student.ConfirmDelete(d.Workspaces, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/students/{id:[0-9]+}/delete", student.Delete(d.Workspaces, d.Sessions)).Methods(http.MethodPost)

	protected.HandleFunc("/add", student.Form(d.Storage, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/add", student.SubmitForm(d.Workspaces, d.Sessions, d.Pages)).Methods(http.MethodPost)
	protected.HandleFunc("/edit/{id:[0-9]+}", student.Form(d.Storage, d.Pages)).Methods(http.MethodGet)
	protected.HandleFunc("/edit/{id:[0-9]+}", student.SubmitForm(d.Workspaces, d.Sessions, d.Pages)).Methods(http.MethodPost)

	return r
}
