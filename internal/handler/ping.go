package handler

import (
	"net/http"

	"github.com/flatforum/flatforum-go/internal/router"
)

// Ping answers every method with 200 and an empty payload, with no auth
// and no side effects.
func Ping(*router.Request) router.Result {
	return router.Status(http.StatusOK)
}
