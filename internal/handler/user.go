package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flatforum/flatforum-go/internal/crypto"
	"github.com/flatforum/flatforum-go/internal/router"
	"github.com/flatforum/flatforum-go/internal/service"
)

// UserHandler implements the users resource. Registration is open; the
// read, update, and delete paths require a token header that verifies
// against the target user.
type UserHandler struct {
	users *service.UserService
	auth  *service.AuthService
}

func NewUserHandler(users *service.UserService, auth *service.AuthService) *UserHandler {
	return &UserHandler{users: users, auth: auth}
}

func (h *UserHandler) Handle(req *router.Request) router.Result {
	switch req.Method {
	case "post":
		return h.create(req)
	case "get":
		return h.read(req)
	case "put":
		return h.update(req)
	case "delete":
		return h.delete(req)
	default:
		return router.Status(http.StatusMethodNotAllowed)
	}
}

// create registers a new user.
// Required payload: user, password.
func (h *UserHandler) create(req *router.Request) router.Result {
	raw, _ := req.Payload.String("user")
	name, ok := userName(raw)
	password, _ := req.Payload.String("password")
	if !ok || len(password) <= crypto.MinPasswordLength {
		return router.Error(http.StatusBadRequest, "Missing required fields")
	}

	switch err := h.users.Register(name, password); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrUserExists):
		return router.Error(http.StatusBadRequest, "User already exists")
	case errors.Is(err, crypto.ErrPasswordTooShort):
		return router.Error(http.StatusBadRequest, "Missing required fields")
	default:
		slog.Error("creating user", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not create new user")
	}
}

// read returns the user record without the password digest.
// Required query: user. Required header: token, valid for that user.
func (h *UserHandler) read(req *router.Request) router.Result {
	name, ok := userName(req.Query["user"])
	if !ok {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}
	if !h.auth.Verify(req.Header.Get("token"), name) {
		return router.Error(http.StatusForbidden, "Missing or invalid token in header")
	}

	user, err := h.users.Get(name)
	switch {
	case err == nil:
		return router.OK(user)
	case errors.Is(err, service.ErrUserNotFound):
		return router.Status(http.StatusNotFound)
	default:
		slog.Error("reading user", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not read user")
	}
}

// update changes the user's password, the only mutable field.
// Required payload: user, password. Required header: token.
func (h *UserHandler) update(req *router.Request) router.Result {
	raw, _ := req.Payload.String("user")
	name, ok := userName(raw)
	if !ok {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}
	password, _ := req.Payload.String("password")
	if len(password) <= crypto.MinPasswordLength {
		return router.Error(http.StatusBadRequest, "Missing field to update")
	}
	if !h.auth.Verify(req.Header.Get("token"), name) {
		return router.Error(http.StatusForbidden, "Missing or invalid token in header")
	}

	switch err := h.users.ChangePassword(name, password); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrUserNotFound):
		return router.Error(http.StatusBadRequest, "Specified user does not exist")
	default:
		slog.Error("updating user", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not update user")
	}
}

// delete removes the account and cascades token revocation.
// Required query: user. Required header: token.
func (h *UserHandler) delete(req *router.Request) router.Result {
	name, ok := userName(req.Query["user"])
	if !ok {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}
	if !h.auth.Verify(req.Header.Get("token"), name) {
		return router.Error(http.StatusForbidden, "Missing or invalid token in header")
	}

	switch err := h.users.Delete(name); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrUserNotFound):
		return router.Error(http.StatusBadRequest, "Could not find specified user")
	default:
		slog.Error("deleting user", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not delete specified user")
	}
}

// userName trims and validates a user identifier from the payload or
// query string.
func userName(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if len(name) <= service.MinUserLength {
		return "", false
	}
	return name, true
}
