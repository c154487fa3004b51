package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		flag    string
		allowed bool
	}{
		{flag: "true", allowed: true},
		{flag: "", allowed: false},
		{flag: "false", allowed: false},
		{flag: "TRUE", allowed: false},
		{flag: "True", allowed: false},
		{flag: " true", allowed: false},
		{flag: "true ", allowed: false},
		{flag: "1", allowed: false},
		{flag: "yes", allowed: false},
		{flag: "{\"auth\":true}", allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			d := Evaluate(tt.flag, "/edit/3")

			assert.Equal(t, tt.allowed, d.Allowed)
			assert.Equal(t, "/edit/3", d.Target)
			if tt.allowed {
				assert.Empty(t, d.RedirectTo)
			} else {
				assert.Equal(t, "/login?next=%2Fedit%2F3", d.RedirectTo)
			}
		})
	}
}

func TestDenyRoot(t *testing.T) {
	d := Deny("/")

	assert.False(t, d.Allowed)
	assert.Equal(t, "/", d.Target)
	assert.Equal(t, LoginPath, d.RedirectTo)
}

func TestGate(t *testing.T) {
	served := false
	h := Gate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = true
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("signed out", func(t *testing.T) {
		served = false
		req := httptest.NewRequest(http.MethodGet, "/add?x=1", nil)
		req = req.WithContext(WithSession(req.Context(), Session{ID: "s", Flag: "false"}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.False(t, served)
		assert.Equal(t, http.StatusFound, rec.Code)
		assert.Equal(t, "/login?next=%2Fadd%3Fx%3D1", rec.Header().Get("Location"))
	})

	t.Run("no session in context", func(t *testing.T) {
		served = false
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.False(t, served)
		assert.Equal(t, LoginPath, rec.Header().Get("Location"))
	})

	t.Run("signed in", func(t *testing.T) {
		served = false
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithSession(req.Context(), Session{ID: "s", Flag: FlagValue}))
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)

		assert.True(t, served)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}
