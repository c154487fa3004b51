package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/students-admin/internal/types"
)

func TestValidateStudentForm(t *testing.T) {
	tests := []struct {
		name string
		form types.StudentForm
		want FieldErrors
	}{
		{
			name: "valid",
			form: types.StudentForm{Name: "Ana", Email: "a@x.com", Age: "20"},
			want: nil,
		},
		{
			name: "all missing",
			form: types.StudentForm{},
			want: FieldErrors{
				"name":  "Please input the student name!",
				"email": "Please input the student email!",
				"age":   "Please input the student age!",
			},
		},
		{
			name: "age not a number",
			form: types.StudentForm{Name: "Ana", Email: "a@x.com", Age: "twenty"},
			want: FieldErrors{"age": "field age must be a number"},
		},
		{
			name: "email format is not checked",
			form: types.StudentForm{Name: "Ana", Email: "not-an-email", Age: "20"},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Validate(tt.form))
		})
	}
}

func TestValidateLoginForm(t *testing.T) {
	got := Validate(types.LoginForm{Username: "x"})

	assert.Equal(t, FieldErrors{"password": "Please input your password!"}, got)
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	require.NoError(t, WriteJSON(rec, http.StatusBadGateway, GeneralError(errors.New("upstream down"))))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, Response{Status: StatusError, Error: "upstream down"}, body)
}
