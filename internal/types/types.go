// Package types holds the data structures shared across the console.
// Keeping them in one place prevents import cycles — storage, workspace
// and the HTTP handlers can all import types without depending on each
// other.
package types

// Student is a record managed by the Students API.
//
// ID is assigned by the server on creation and is zero until then; the
// console never invents one. omitempty keeps it out of create/update
// request bodies.
type Student struct {
	ID    int64  `json:"id,omitempty"`
	Name  string `json:"name"  validate:"required"`
	Email string `json:"email" validate:"required"`
	Age   int    `json:"age"`
}

// StudentPatch carries the fields submitted for an update. A nil field
// keeps the previous value when the patch is merged.
type StudentPatch struct {
	Name  *string
	Email *string
	Age   *int
}

// FullPatch returns a patch that overwrites every field of a record with
// the values of s.
func FullPatch(s Student) StudentPatch {
	return StudentPatch{Name: &s.Name, Email: &s.Email, Age: &s.Age}
}

// StudentForm is the raw form submission for a student. Age arrives as
// text and is only converted after validation succeeds.
type StudentForm struct {
	Name  string `form:"name"  validate:"required"`
	Email string `form:"email" validate:"required"`
	Age   string `form:"age"   validate:"required,number"`
}

// LoginForm is the raw login submission.
type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
}
