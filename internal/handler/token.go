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

// TokenHandler implements the tokens resource. None of its operations
// require a pre-existing token header: they manage tokens themselves.
type TokenHandler struct {
	auth *service.AuthService
}

func NewTokenHandler(auth *service.AuthService) *TokenHandler {
	return &TokenHandler{auth: auth}
}

func (h *TokenHandler) Handle(req *router.Request) router.Result {
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

// create is login: a correct password yields a fresh one-hour token.
// Required payload: user, password.
func (h *TokenHandler) create(req *router.Request) router.Result {
	raw, _ := req.Payload.String("user")
	name, ok := userName(raw)
	password, _ := req.Payload.String("password")
	if !ok || len(password) <= crypto.MinPasswordLength {
		return router.Error(http.StatusBadRequest, "Missing required fields")
	}

	token, err := h.auth.Issue(name, password)
	switch {
	case err == nil:
		return router.OK(token)
	case errors.Is(err, service.ErrUserNotFound):
		return router.Error(http.StatusBadRequest, "Could not find specified user")
	case errors.Is(err, service.ErrPasswordMismatch):
		return router.Error(http.StatusBadRequest, "Passwords do not match")
	default:
		slog.Error("creating token", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not create new token")
	}
}

// read looks up a token record by id.
// Required query: id.
func (h *TokenHandler) read(req *router.Request) router.Result {
	id, ok := tokenID(req.Query["id"])
	if !ok {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}

	token, err := h.auth.Lookup(id)
	switch {
	case err == nil:
		return router.OK(token)
	case errors.Is(err, service.ErrTokenNotFound):
		return router.Status(http.StatusNotFound)
	default:
		slog.Error("reading token", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not read token")
	}
}

// update renews an unexpired token for another hour.
// Required payload: id, extend (must be true).
func (h *TokenHandler) update(req *router.Request) router.Result {
	raw, _ := req.Payload.String("id")
	id, ok := tokenID(raw)
	extend, _ := req.Payload.Bool("extend")
	if !ok || !extend {
		return router.Error(http.StatusBadRequest, "Missing or invalid required field(s)")
	}

	switch err := h.auth.Renew(id); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrTokenNotFound):
		return router.Error(http.StatusBadRequest, "Specified token does not exist")
	case errors.Is(err, service.ErrTokenExpired):
		return router.Error(http.StatusBadRequest, "Token is expired")
	default:
		slog.Error("renewing token", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not update token")
	}
}

// delete revokes a token.
// Required query: id.
func (h *TokenHandler) delete(req *router.Request) router.Result {
	id, ok := tokenID(req.Query["id"])
	if !ok {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}

	switch err := h.auth.Revoke(id); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrTokenNotFound):
		return router.Error(http.StatusBadRequest, "Could not find specified token")
	default:
		slog.Error("revoking token", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not delete specified token")
	}
}

// tokenID trims and validates a token identifier.
func tokenID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	if len(id) < crypto.TokenLength {
		return "", false
	}
	return id, true
}
