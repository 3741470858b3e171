// Package router maps every endpoint to its handler.
//
// Route table:
//
//	POST   /signup          → create a user
//	POST   /login           → check credentials
//	POST   /logout          → always succeeds
//	POST   /students        → create a student
//	GET    /students        → list all students
//	GET    /students/{id}   → get one student by ID
//	PUT    /students/{id}   → update name, age, grade
//	DELETE /students/{id}   → delete a student
//	(the same five routes exist under /teachers)
package router

import (
	"net/http"

	"github.com/aanand-mishra/school-api/internal/http/handlers/auth"
	"github.com/aanand-mishra/school-api/internal/http/handlers/student"
	"github.com/aanand-mishra/school-api/internal/http/handlers/teacher"
	"github.com/aanand-mishra/school-api/internal/http/middleware"
	"github.com/aanand-mishra/school-api/internal/storage"
)

// New returns the application's HTTP handler, wrapped with request id,
// access logging and panic recovery.
func New(s storage.Storage) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", auth.Signup(s))
	mux.HandleFunc("POST /login", auth.Login(s))
	mux.HandleFunc("POST /logout", auth.Logout())

	mux.HandleFunc("POST /students", student.New(s))
	mux.HandleFunc("GET /students", student.GetList(s))
	mux.HandleFunc("GET /students/{id}", student.GetByID(s))
	mux.HandleFunc("PUT /students/{id}", student.Update(s))
	mux.HandleFunc("DELETE /students/{id}", student.Delete(s))

	mux.HandleFunc("POST /teachers", teacher.New(s))
	mux.HandleFunc("GET /teachers", teacher.GetList(s))
	mux.HandleFunc("GET /teachers/{id}", teacher.GetByID(s))
	mux.HandleFunc("PUT /teachers/{id}", teacher.Update(s))
	mux.HandleFunc("DELETE /teachers/{id}", teacher.Delete(s))

	var h http.Handler = mux
	h = middleware.Recover(h)
	h = middleware.Logging(h)
	h = middleware.WithRequestID(h)
	return h
}
