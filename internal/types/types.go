// Package types holds the records stored by the application and the shapes
// used to query and modify them. Keeping them in one place prevents import
// cycles: handlers, storage, and validation can all import types without
// depending on each other.
//
// Struct tags carry the schema:
//
//  1. json:"..."     how the field appears in request/response bodies.
//  2. validate:"..."  rules checked before a write reaches storage.
package types

import "time"

// User is an account that can sign up and log in.
// The password is stored verbatim and never written to JSON.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username" validate:"required"`
	Password  string    `json:"-" validate:"required"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Student is a student record.
type Student struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Age       int       `json:"age" validate:"int32"`
	Grade     float64   `json:"grade"`
	Semester  int       `json:"semester" validate:"int32"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Teacher is a teacher record.
type Teacher struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name" validate:"required"`
	Age       int       `json:"age" validate:"int32"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserFilter selects users by equality on its non-nil fields.
// A filter with every field nil matches any record; so do the other filters.
type UserFilter struct {
	Username *string
	Password *string
}

// StudentFilter selects students by equality on its non-nil fields.
type StudentFilter struct {
	Name     *string
	Semester *int
}

// TeacherFilter selects teachers by equality on its non-nil fields.
type TeacherFilter struct {
	Name *string
	Age  *int
}

// UserPatch lists the fields an update overwrites. Nil fields are left as
// they are in storage; a supplied text field must not be empty.
type UserPatch struct {
	Username *string `validate:"omitnil,min=1"`
	Password *string `validate:"omitnil,min=1"`
}

// StudentPatch lists the student fields an update overwrites.
type StudentPatch struct {
	Name     *string `validate:"omitnil,min=1"`
	Age      *int     `validate:"omitnil,int32"`
	Grade    *float64
	Semester *int     `validate:"omitnil,int32"`
}

// TeacherPatch lists the teacher fields an update overwrites.
type TeacherPatch struct {
	Name *string `validate:"omitnil,min=1"`
	Age  *int    `validate:"omitnil,int32"`
}
