// Package middleware holds the HTTP middleware used by the server.
//
// CORS and BodySizeLimit are plain net/http middleware that wrap the whole
// handler. The rest are Gin handlers installed on the engine or on a route
// group.
package middleware

import "net/http"

// Middleware wraps an http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Chain composes multiple middleware. The first in the list is the outermost
// (runs first on a request, last on a response).
func Chain(middlewares ...Middleware) Middleware {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}
