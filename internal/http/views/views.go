// Package views renders the console's HTML pages. Templates are embedded
// into the binary; each page is parsed together with the shared layout
// once at start-up.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/aanand-mishra/students-admin/internal/auth"
	"github.com/aanand-mishra/students-admin/internal/types"
	"github.com/aanand-mishra/students-admin/internal/utils/response"
	"github.com/aanand-mishra/students-admin/internal/workspace"
)

//go:embed templates/*.html
var files embed.FS

// Page names.
const (
	PageLogin   = "login.html"
	PageList    = "list.html"
	PageForm    = "form.html"
	PageConfirm = "confirm.html"
)

// Page is what every template receives.
type Page struct {
	Title         string
	Authenticated bool
	Flashes       []auth.Flash
	Data          any
}

// LoginData backs the login page.
type LoginData struct {
	Username string
	Next     string
	Errors   response.FieldErrors
}

// ListData backs the list page. Modal is non-nil when the add/edit
// dialog is open.
type ListData struct {
	View  workspace.View
	Modal *FormData
}

// FormData backs the add/edit form, both the standalone page and the
// dialog on the list page.
type FormData struct {
	ID     int64
	Values types.StudentForm
	Errors response.FieldErrors
}

// Editing reports whether the form updates an existing student.
func (f FormData) Editing() bool { return f.ID != 0 }

// ConfirmData backs the delete confirmation.
type ConfirmData struct {
	ID      int64
	Student types.Student
	Known   bool
}

// Renderer executes the parsed pages. Flashes queued in the session are
// drained into every page it renders.
type Renderer struct {
	sessions *auth.Store
	pages    map[string]*template.Template
}

// New parses every page with the layout.
func New(sessions *auth.Store) (*Renderer, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{PageLogin, PageList, PageForm, PageConfirm} {
		tpl, err := template.New("layout.html").ParseFS(files, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("views.New: parse %s: %w", name, err)
		}
		pages[name] = tpl
	}

	return &Renderer{sessions: sessions, pages: pages}, nil
}

// Render writes the page with the given status. extra flashes are shown
// after the queued ones without passing through the session. The page is
// rendered into a buffer first so a template error never leaves a half
// written response.
func (v *Renderer) Render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any, extra ...auth.Flash) error {
	tpl, ok := v.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}

	sess, _ := auth.FromContext(r.Context())
	page := Page{
		Title:         title,
		Authenticated: sess.Authenticated(),
		Flashes:       append(v.sessions.Flashes(w, r), extra...),
		Data:          data,
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, page); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}
