// Package auth owns the login flag and everything that reads or writes
// it: the cookie-backed session store, the gate in front of protected
// pages and the credential check behind the login form.
//
// The flag is read once per request by Store.Middleware and handed to the
// rest of the request as an immutable Session value. Only SignIn writes
// it and only SignOut clears it. The gate is a convenience for the UI, not
// a security boundary: the Students API performs no authorization of its
// own.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"

	"github.com/aanand-mishra/students-admin/internal/config"
)

// The session keys. FlagKey holds FlagValue while signed in.
const (
	FlagKey   = "auth"
	FlagValue = "true"

	idKey = "sid"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
)

// Session is the per-request view of the cookie.
type Session struct {
	// ID identifies the browser session; it keys the workspace.
	ID string
	// Flag is the raw value stored under FlagKey, "" when absent.
	Flag string
}

// Authenticated reports whether the flag is exactly FlagValue.
func (s Session) Authenticated() bool {
	return s.Flag == FlagValue
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the Session placed by Store.Middleware.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// Flash is a one-shot notification shown on the next rendered page.
type Flash struct {
	Kind    string
	Message string
}

// Store wraps a gorilla/sessions store under a fixed cookie name.
type Store struct {
	store sessions.Store
	name  string
}

// NewStore builds a cookie store from the session config.
func NewStore(cfg config.Session) *Store {
	cookies := sessions.NewCookieStore([]byte(cfg.Secret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	return NewStoreWith(cookies, cfg.CookieName)
}

// NewStoreWith uses an existing gorilla/sessions store.
func NewStoreWith(store sessions.Store, name string) *Store {
	return &Store{store: store, name: name}
}

// get never fails: an unreadable cookie (bad signature, rotated secret)
// yields a fresh, unauthenticated session.
func (s *Store) get(r *http.Request) *sessions.Session {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		slog.Debug("discarding unreadable session cookie", slog.String("error", err.Error()))
	}
	return sess
}

// Middleware loads the session once and stores it in the request
// context. A session without an id gets a new one.
func (s *Store) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess := s.get(r)

		id, _ := sess.Values[idKey].(string)
		if id == "" {
			id = uuid.NewString()
			sess.Values[idKey] = id
			if err := sess.Save(r, w); err != nil {
				slog.Error("failed to save session", slog.String("error", err.Error()))
			}
		}

		// Anything other than a string counts as absent.
		flag, _ := sess.Values[FlagKey].(string)

		ctx := WithSession(r.Context(), Session{ID: id, Flag: flag})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SignIn sets the login flag.
func (s *Store) SignIn(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	sess.Values[FlagKey] = FlagValue
	return sess.Save(r, w)
}

// SignOut clears the login flag and the session id, so the next request
// starts a new session.
func (s *Store) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess := s.get(r)
	delete(sess.Values, FlagKey)
	delete(sess.Values, idKey)
	return sess.Save(r, w)
}

// AddFlash queues a notification for the next rendered page.
func (s *Store) AddFlash(w http.ResponseWriter, r *http.Request, kind, message string) {
	sess := s.get(r)
	sess.AddFlash(message, kind)
	if err := sess.Save(r, w); err != nil {
		slog.Error("failed to save flash", slog.String("error", err.Error()))
	}
}

// Flashes drains the queued notifications, successes first.
func (s *Store) Flashes(w http.ResponseWriter, r *http.Request) []Flash {
	sess := s.get(r)

	var out []Flash
	for _, kind := range []string{FlashSuccess, FlashError} {
		for _, v := range sess.Flashes(kind) {
			if msg, ok := v.(string); ok {
				out = append(out, Flash{Kind: kind, Message: msg})
			}
		}
	}
	if len(out) == 0 {
		return nil
	}

	if err := sess.Save(r, w); err != nil {
		slog.Error("failed to save session", slog.String("error", err.Error()))
	}

	return out
}
