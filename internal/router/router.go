// Package router normalizes inbound HTTP requests into a single shape
// and dispatches them to resource handlers by exact path match.
package router

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

const maxBodyBytes = 1 << 20 // 1MB

// Request is the normalized request shape every resource handler sees,
// regardless of which listener the request arrived on.
type Request struct {
	// Path is the URL path with leading and trailing slashes stripped.
	Path string
	// Method is the HTTP method, lower-cased.
	Method string
	// Query holds the query string as a flat map (first value wins).
	Query map[string]string
	// Header exposes the request headers; the bearer credential travels
	// in a bare "token" header.
	Header http.Header
	// Payload is the fault-tolerantly decoded JSON body.
	Payload Payload
}

// Result is the single completion value a handler produces. A zero
// Status means 200; a nil Payload serializes as {}.
type Result struct {
	Status  int
	Payload any
}

// Handler implements one resource entry point. Returning a Result is the
// completion protocol: a handler completes exactly once by construction.
type Handler func(*Request) Result

// ErrorBody is the error envelope for every failure response.
type ErrorBody struct {
	Error string `json:"Error"`
}

func OK(payload any) Result {
	return Result{Status: http.StatusOK, Payload: payload}
}

func Status(code int) Result {
	return Result{Status: code}
}

func Error(code int, msg string) Result {
	return Result{Status: code, Payload: ErrorBody{Error: msg}}
}

// Mux dispatches requests by exact match on the trimmed path against a
// static table. No patterns, no path parameters; anything unmatched goes
// to the not-found handler.
type Mux struct {
	routes   map[string]Handler
	notFound Handler
}

func NewMux() *Mux {
	return &Mux{
		routes: make(map[string]Handler),
		notFound: func(*Request) Result {
			return Status(http.StatusNotFound)
		},
	}
}

// Handle registers a resource handler for a trimmed path key.
func (m *Mux) Handle(path string, h Handler) {
	m.routes[strings.Trim(path, "/")] = h
}

func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		// An unreadable or oversized body degrades to an empty payload,
		// the same as a malformed one.
		body = nil
	}

	req := &Request{
		Path:    strings.Trim(r.URL.Path, "/"),
		Method:  strings.ToLower(r.Method),
		Query:   flattenQuery(r.URL.Query()),
		Header:  r.Header,
		Payload: decodePayload(body),
	}

	h, ok := m.routes[req.Path]
	if !ok {
		h = m.notFound
	}

	writeResult(w, h(req))
}

func flattenQuery(values url.Values) map[string]string {
	q := make(map[string]string, len(values))
	for key := range values {
		q[key] = values.Get(key)
	}
	return q
}

func writeResult(w http.ResponseWriter, res Result) {
	status := res.Status
	if status == 0 {
		status = http.StatusOK
	}

	payload := res.Payload
	if payload == nil {
		payload = struct{}{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		slog.Error("writing response", "error", err)
	}
}
