// Package student contains all HTTP handlers related to the Student resource.
//
// Each handler is a factory: it receives storage once at startup and returns
// the function the router calls on every request.
//
//	router.HandleFunc("POST /students", student.New(storage))
package student

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/school-api/internal/storage"
	"github.com/aanand-mishra/school-api/internal/types"
	"github.com/aanand-mishra/school-api/internal/utils/request"
	"github.com/aanand-mishra/school-api/internal/utils/response"
	"github.com/aanand-mishra/school-api/internal/validation"
)

const (
	MsgCreated  = "Student created successfully"
	MsgUpdated  = "Student updated successfully"
	MsgDeleted  = "Student deleted successfully"
	MsgNotFound = "Student not found"
)

// createRequest is the body of POST /students. Numeric fields are pointers so
// that an explicit 0 is accepted and only an absent field fails "required".
type createRequest struct {
	Name     string   `json:"name"     validate:"required"`
	Age      *int     `json:"age"      validate:"required,int32"`
	Grade    *float64 `json:"grade"    validate:"required"`
	Semester *int     `json:"semester" validate:"required,int32"`
}

// updateRequest is the body of PUT /students/{id}. Semester cannot be changed
// after creation.
type updateRequest struct {
	Name  string   `json:"name"  validate:"required"`
	Age   *int     `json:"age"   validate:"required,int32"`
	Grade *float64 `json:"grade" validate:"required"`
}

// envelope is the success body of create and update.
type envelope struct {
	Message string        `json:"message"`
	Student types.Student `json:"student"`
}

// writeErr answers a failed create or update: 400 for anything the client
// sent, 404 for a key that vanished mid-request, 500 for the rest.
func writeErr(w http.ResponseWriter, op string, err error) {
	var verr *validation.Error
	switch {
	case errors.Is(err, request.ErrEmptyBody):
		response.WriteMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, request.ErrTooLarge):
		response.WriteMessage(w, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &verr):
		response.WriteMessage(w, http.StatusBadRequest, verr.Error())
	case errors.Is(err, storage.ErrNotFound):
		response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
	default:
		response.InternalError(w, op, err)
	}
}

// New handles POST /students
//
// Request body:
//
//	{ "name": "Ana", "age": 20, "grade": 3.5, "semester": 2 }
//
// Responses:
//
//	201  { "message": "Student created successfully", "student": {...} }
//	400  empty body, malformed JSON, or a missing field
//	500  database error
func New(students storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a student")

		var req createRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			writeErr(w, "error decoding student", err)
			return
		}

		created, err := students.CreateStudent(r.Context(), types.Student{
			Name:     req.Name,
			Age:      *req.Age,
			Grade:    *req.Grade,
			Semester: *req.Semester,
		})
		if err != nil {
			writeErr(w, "error creating student", err)
			return
		}

		slog.Info("student created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, envelope{Message: MsgCreated, Student: created})
	}
}

// GetList handles GET /students
// Returns a JSON array of all students, [] (not null) when there are none.
func GetList(students storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all students")

		list, err := students.GetStudents(r.Context())
		if err != nil {
			response.InternalError(w, "error getting students", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, list)
	}
}

// GetByID handles GET /students/{id}
func GetByID(students storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("getting a student", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		found, exists, err := students.GetStudentByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting student", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, found)
	}
}

// Update handles PUT /students/{id}
//
// Overwrites name, age and grade; semester keeps its stored value. The
// student must exist before the body is even looked at, so an unknown id is
// always 404.
func Update(students storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("updating a student", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		_, exists, err := students.GetStudentByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting student", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		var req updateRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			writeErr(w, "error decoding student", err)
			return
		}

		updated, err := students.UpdateStudentByID(r.Context(), id, types.StudentPatch{
			Name:  &req.Name,
			Age:   req.Age,
			Grade: req.Grade,
		})
		if err != nil {
			writeErr(w, "error updating student", err)
			return
		}

		slog.Info("student updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, envelope{Message: MsgUpdated, Student: updated})
	}
}

// Delete handles DELETE /students/{id}
// Permanently removes a student record.
func Delete(students storage.StudentStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("deleting a student", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		_, exists, err := students.GetStudentByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting student", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		if err := students.DeleteStudentByID(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
				return
			}
			response.InternalError(w, "error deleting student", err)
			return
		}

		slog.Info("student deleted", slog.Int64("id", id))
		response.WriteMessage(w, http.StatusOK, MsgDeleted)
	}
}
