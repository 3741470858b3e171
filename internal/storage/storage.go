// Package storage defines the Storage interface: the contract every
// database backend satisfies so the HTTP layer never talks to a driver
// directly.
//
// Results come back as explicit variants rather than one opaque error:
//
//   - found / not found: lookups return (record, true, nil) or
//     (zero, false, nil). A miss is a normal outcome, not an error.
//   - ErrNotFound: Update*/Delete* were given a key no record has.
//   - *validation.Error: the write violates a schema constraint (missing
//     required field, duplicate username). Nothing is persisted.
//   - any other error: the store could not be reached or failed to execute.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/school-api/internal/types"
)

// ErrNotFound is returned by updates and deletes of a key that does not exist.
var ErrNotFound = errors.New("record not found")

// UserStorage persists users.
type UserStorage interface {
	CreateUser(ctx context.Context, user types.User) (types.User, error)
	FindUser(ctx context.Context, filter types.UserFilter) (types.User, bool, error)
	GetUsers(ctx context.Context) ([]types.User, error)
	GetUserByID(ctx context.Context, id int64) (types.User, bool, error)
	UpdateUserByID(ctx context.Context, id int64, patch types.UserPatch) (types.User, error)
	DeleteUserByID(ctx context.Context, id int64) error
}

// StudentStorage persists students.
type StudentStorage interface {
	CreateStudent(ctx context.Context, student types.Student) (types.Student, error)
	FindStudent(ctx context.Context, filter types.StudentFilter) (types.Student, bool, error)
	// GetStudents returns every student ordered by ID. Returns an empty
	// slice (not nil) if there are none.
	GetStudents(ctx context.Context) ([]types.Student, error)
	GetStudentByID(ctx context.Context, id int64) (types.Student, bool, error)
	// UpdateStudentByID overwrites only the non-nil fields of patch and
	// returns the stored record.
	UpdateStudentByID(ctx context.Context, id int64, patch types.StudentPatch) (types.Student, error)
	DeleteStudentByID(ctx context.Context, id int64) error
}

// TeacherStorage persists teachers.
type TeacherStorage interface {
	CreateTeacher(ctx context.Context, teacher types.Teacher) (types.Teacher, error)
	FindTeacher(ctx context.Context, filter types.TeacherFilter) (types.Teacher, bool, error)
	GetTeachers(ctx context.Context) ([]types.Teacher, error)
	GetTeacherByID(ctx context.Context, id int64) (types.Teacher, bool, error)
	UpdateTeacherByID(ctx context.Context, id int64, patch types.TeacherPatch) (types.Teacher, error)
	DeleteTeacherByID(ctx context.Context, id int64) error
}

// Storage is the full database contract, plus Close for shutdown.
type Storage interface {
	UserStorage
	StudentStorage
	TeacherStorage

	Close() error
}
