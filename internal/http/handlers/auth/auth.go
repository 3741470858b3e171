// Package auth contains the signup, login and logout handlers.
//
// There are no sessions: login only reports whether the credentials match a
// stored user, and logout always succeeds.
package auth

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
	MsgUserCreated        = "User created successfully"
	MsgUserExists         = "User already exists"
	MsgLoginSuccessful    = "Login successful"
	MsgInvalidCredentials = "Invalid username or password"
	MsgLogoutSuccessful   = "Logout Successful"
)

type credentials struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Signup handles POST /signup
//
// Request body:
//
//	{ "username": "ana", "password": "secret" }
//
// Responses:
//
//	201  { "message": "User created successfully" }
//	400  username taken, or a field missing
//	500  database error
func Signup(users storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := request.DecodeJSON(w, r, &req); err != nil {
			if request.IsClientError(err) {
				response.WriteMessage(w, request.Status(err), err.Error())
				return
			}
			response.InternalError(w, "error decoding signup", err)
			return
		}

		slog.Info("signing up a user", slog.String("username", req.Username))

		_, exists, err := users.FindUser(r.Context(), types.UserFilter{Username: &req.Username})
		if err != nil {
			response.InternalError(w, "error looking up user", err)
			return
		}
		if exists {
			response.WriteMessage(w, http.StatusBadRequest, MsgUserExists)
			return
		}

		// The lookup above is not atomic with the insert; a concurrent signup
		// for the same name is caught by the unique index instead.
		user, err := users.CreateUser(r.Context(), types.User{Username: req.Username, Password: req.Password})
		if err != nil {
			var verr *validation.Error
			switch {
			case errors.As(err, &verr) && verr.Duplicate():
				response.WriteMessage(w, http.StatusBadRequest, MsgUserExists)
			case errors.As(err, &verr):
				response.WriteMessage(w, http.StatusBadRequest, verr.Error())
			default:
				response.InternalError(w, "error creating user", err)
			}
			return
		}

		slog.Info("user created", slog.Int64("id", user.ID))
		response.WriteMessage(w, http.StatusCreated, MsgUserCreated)
	}
}

// Login handles POST /login
//
// Username and password must both match the same stored user. Every kind of
// mismatch, including a malformed body, gets the same 400 message so a client
// cannot tell whether the username exists.
func Login(users storage.UserStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentials
		if err := request.DecodeJSON(w, r, &req); err != nil {
			if errors.Is(err, request.ErrTooLarge) {
				response.WriteMessage(w, http.StatusRequestEntityTooLarge, err.Error())
				return
			}
			if request.IsClientError(err) {
				response.WriteMessage(w, http.StatusBadRequest, MsgInvalidCredentials)
				return
			}
			response.InternalError(w, "error decoding login", err)
			return
		}

		slog.Info("logging in", slog.String("username", req.Username))

		_, found, err := users.FindUser(r.Context(), types.UserFilter{
			Username: &req.Username,
			Password: &req.Password,
		})
		if err != nil {
			response.InternalError(w, "error looking up user", err)
			return
		}
		if !found {
			response.WriteMessage(w, http.StatusBadRequest, MsgInvalidCredentials)
			return
		}

		response.WriteMessage(w, http.StatusOK, MsgLoginSuccessful)
	}
}

// Logout handles POST /logout. There is no session to end.
func Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteMessage(w, http.StatusOK, MsgLogoutSuccessful)
	}
}
