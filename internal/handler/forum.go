package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/flatforum/flatforum-go/internal/router"
	"github.com/flatforum/flatforum-go/internal/service"
)

// ForumHandler implements the forums resource. Creation and mutation
// require a valid token; reads are public.
type ForumHandler struct {
	forums *service.ForumService
}

func NewForumHandler(forums *service.ForumService) *ForumHandler {
	return &ForumHandler{forums: forums}
}

func (h *ForumHandler) Handle(req *router.Request) router.Result {
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

// create stores a new post authored by the token's user.
// Required payload: title. Optional: description. Required header: token.
func (h *ForumHandler) create(req *router.Request) router.Result {
	rawTitle, _ := req.Payload.String("title")
	title := strings.TrimSpace(rawTitle)
	if title == "" {
		return router.Error(http.StatusBadRequest, "Missing or invalid required inputs")
	}
	rawDesc, _ := req.Payload.String("description")
	description := strings.TrimSpace(rawDesc)

	post, err := h.forums.Create(req.Header.Get("token"), title, description)
	switch {
	case err == nil:
		return router.OK(post)
	case errors.Is(err, service.ErrNotAuthorized):
		return router.Status(http.StatusForbidden)
	default:
		slog.Error("creating post", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not create new post")
	}
}

// read returns one post when an id is supplied, otherwise the full list.
// Optional query: id.
func (h *ForumHandler) read(req *router.Request) router.Result {
	id := strings.TrimSpace(req.Query["id"])
	if id == "" {
		posts, err := h.forums.ListPosts()
		if err != nil {
			slog.Error("listing posts", "error", err)
			return router.Error(http.StatusInternalServerError, "Could not list posts")
		}
		return router.OK(posts)
	}

	post, err := h.forums.Get(id)
	switch {
	case err == nil:
		return router.OK(post)
	case errors.Is(err, service.ErrPostNotFound):
		return router.Status(http.StatusNotFound)
	default:
		slog.Error("reading post", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not read post")
	}
}

// update edits a post's title and/or description on behalf of its
// author.
// Required payload: id, plus at least one of title, description.
func (h *ForumHandler) update(req *router.Request) router.Result {
	rawID, _ := req.Payload.String("id")
	id := strings.TrimSpace(rawID)
	if id == "" {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}

	var title, description *string
	if v, ok := req.Payload.String("title"); ok {
		if t := strings.TrimSpace(v); t != "" {
			title = &t
		}
	}
	if v, ok := req.Payload.String("description"); ok {
		d := strings.TrimSpace(v)
		description = &d
	}
	if title == nil && description == nil {
		return router.Error(http.StatusBadRequest, "Missing fields to update")
	}

	post, err := h.forums.Update(req.Header.Get("token"), id, title, description)
	switch {
	case err == nil:
		return router.OK(post)
	case errors.Is(err, service.ErrPostNotFound):
		return router.Error(http.StatusBadRequest, "Specified post does not exist")
	case errors.Is(err, service.ErrNotAuthorized):
		return router.Status(http.StatusForbidden)
	default:
		slog.Error("updating post", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not update post")
	}
}

// delete removes a post on behalf of its author.
// Required query: id.
func (h *ForumHandler) delete(req *router.Request) router.Result {
	id := strings.TrimSpace(req.Query["id"])
	if id == "" {
		return router.Error(http.StatusBadRequest, "Missing required field")
	}

	switch err := h.forums.Delete(req.Header.Get("token"), id); {
	case err == nil:
		return router.Status(http.StatusOK)
	case errors.Is(err, service.ErrPostNotFound):
		return router.Error(http.StatusBadRequest, "Could not find specified post")
	case errors.Is(err, service.ErrNotAuthorized):
		return router.Status(http.StatusForbidden)
	default:
		slog.Error("deleting post", "error", err)
		return router.Error(http.StatusInternalServerError, "Could not delete specified post")
	}
}
