// package server contains middleware & handlers for local OAuth callbacks
package server

import (
	"net/http"
)

// Middleware decorates an [http.Handler] with cross-cutting behavior such as
// request logging.
type Middleware func(http.Handler) http.Handler

// Handler is an endpoint that knows its own route patterns, so callers can
// register it without repeating paths.
type Handler interface {
	http.Handler
	Routes() []string // path patterns this handler serves
}

// Router registers handlers behind a middleware chain and serves them.
type Router interface {
	Use(middleware ...Middleware)
	Handle(method, path string, handler http.Handler)
	Handler(handler Handler)
	ServeHTTP(w http.ResponseWriter, r *http.Request)
}
