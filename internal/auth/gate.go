package auth

import (
	"net/http"
	"net/url"
)

// LoginPath is where denied requests are sent.
const LoginPath = "/login"

// Decision is the gate's verdict for one request: either Allowed, or
// denied with the login redirect. Target is the location that was asked
// for, kept so a login can resume there.
type Decision struct {
	Allowed    bool
	Target     string
	RedirectTo string
}

// Allow is the verdict for a signed-in session.
func Allow(target string) Decision {
	return Decision{Allowed: true, Target: target}
}

// Deny is the verdict for everyone else.
func Deny(target string) Decision {
	redirect := LoginPath
	if target != "" && target != "/" {
		redirect += "?" + url.Values{"next": {target}}.Encode()
	}

	return Decision{Target: target, RedirectTo: redirect}
}

// Evaluate grants access iff flag is exactly FlagValue.
func Evaluate(flag, target string) Decision {
	if flag == FlagValue {
		return Allow(target)
	}
	return Deny(target)
}

// Gate serves next when the session in the request context is signed in
// and redirects to the login page otherwise. It must run after
// Store.Middleware; without a session in the context the request is
// treated as signed out.
func Gate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, _ := FromContext(r.Context())

		decision := Evaluate(sess.Flag, r.URL.RequestURI())
		if !decision.Allowed {
			http.Redirect(w, r, decision.RedirectTo, http.StatusFound)
			return
		}

		next.ServeHTTP(w, r)
	})
}
