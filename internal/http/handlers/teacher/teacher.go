// Package teacher contains all HTTP handlers related to the Teacher resource.
// They mirror the student handlers with name and age as the only fields.
package teacher

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
	MsgCreated  = "Teacher created successfully"
	MsgUpdated  = "Teacher updated successfully"
	MsgDeleted  = "Teacher deleted successfully"
	MsgNotFound = "Teacher not found"
)

// teacherRequest is the body of both POST /teachers and PUT /teachers/{id}.
type teacherRequest struct {
	Name string `json:"name" validate:"required"`
	Age  *int   `json:"age"  validate:"required,int32"`
}

// envelope is the success body of create and update.
type envelope struct {
	Message string        `json:"message"`
	Teacher types.Teacher `json:"teacher"`
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

// New handles POST /teachers
//
//	{ "name": "Marta", "age": 41 }
func New(teachers storage.TeacherStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("creating a teacher")

		var req teacherRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			writeErr(w, "error decoding teacher", err)
			return
		}

		created, err := teachers.CreateTeacher(r.Context(), types.Teacher{
			Name: req.Name,
			Age:  *req.Age,
		})
		if err != nil {
			writeErr(w, "error creating teacher", err)
			return
		}

		slog.Info("teacher created", slog.Int64("id", created.ID))
		response.WriteJSON(w, http.StatusCreated, envelope{Message: MsgCreated, Teacher: created})
	}
}

// GetList handles GET /teachers
func GetList(teachers storage.TeacherStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slog.Info("getting all teachers")

		list, err := teachers.GetTeachers(r.Context())
		if err != nil {
			response.InternalError(w, "error getting teachers", err)
			return
		}

		response.WriteJSON(w, http.StatusOK, list)
	}
}

// GetByID handles GET /teachers/{id}
func GetByID(teachers storage.TeacherStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("getting a teacher", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		found, exists, err := teachers.GetTeacherByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting teacher", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		response.WriteJSON(w, http.StatusOK, found)
	}
}

// Update handles PUT /teachers/{id}
// Overwrites name and age of an existing teacher.
func Update(teachers storage.TeacherStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("updating a teacher", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		_, exists, err := teachers.GetTeacherByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting teacher", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		var req teacherRequest
		if err := request.DecodeJSON(w, r, &req); err != nil {
			writeErr(w, "error decoding teacher", err)
			return
		}

		updated, err := teachers.UpdateTeacherByID(r.Context(), id, types.TeacherPatch{
			Name: &req.Name,
			Age:  req.Age,
		})
		if err != nil {
			writeErr(w, "error updating teacher", err)
			return
		}

		slog.Info("teacher updated", slog.Int64("id", id))
		response.WriteJSON(w, http.StatusOK, envelope{Message: MsgUpdated, Teacher: updated})
	}
}

// Delete handles DELETE /teachers/{id}
func Delete(teachers storage.TeacherStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := request.PathID(r)
		slog.Info("deleting a teacher", slog.String("id", r.PathValue("id")))
		if !ok {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		_, exists, err := teachers.GetTeacherByID(r.Context(), id)
		if err != nil {
			response.InternalError(w, "error getting teacher", err)
			return
		}
		if !exists {
			response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
			return
		}

		if err := teachers.DeleteTeacherByID(r.Context(), id); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				response.WriteMessage(w, http.StatusNotFound, MsgNotFound)
				return
			}
			response.InternalError(w, "error deleting teacher", err)
			return
		}

		slog.Info("teacher deleted", slog.Int64("id", id))
		response.WriteMessage(w, http.StatusOK, MsgDeleted)
	}
}
