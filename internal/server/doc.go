// Package server provides HTTP routing, middleware, and the OAuth callback
// endpoint used during Spotify authentication.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers so that requests pass through the chain in
// registration order before reaching the handler.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with
// method-qualified patterns.
//
// # OAuth Callback Handler
//
// OAuthHandler implements the OAuth2 authorization code callback flow.
//
// The handler validates the state parameter (CSRF protection), exchanges the
// authorization code for tokens, and sends the result through a channel.
//
// It only processes one callback to prevent replay attacks.
//
// # Usage
//
// When the user runs `l2s auth login`, a temporary HTTP server starts on the
// configured localhost port (8888 by default, matching the registered
// redirect URI), the browser opens to Spotify's consent page, the handler
// receives the callback, and the server shuts down once the token arrives.
package server
