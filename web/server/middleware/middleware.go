package middleware

import (
	"net/http"
)

// Middleware is a function that wraps an http.Handler to provide additional
// functionality such as logging. It takes a handler and returns a new handler.
type Middleware func(http.Handler) http.Handler

// Chain wraps h with the middlewares in the order specified, so that the
// first middleware is the outermost, and runs first.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}

	return h
}
