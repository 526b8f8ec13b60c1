package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/athorsen/local2stream/internal/shared"
	"golang.org/x/oauth2"
)

// successPage is shown in the browser once the token exchange succeeds.
const successPage = `<!DOCTYPE html>
<html>
<head><title>local2stream</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 4rem;">
  <h1 style="color: #1DB954;">&#10003; Authorization successful</h1>
  <p>You can close this window and return to the terminal.</p>
</body>
</html>
`

// OAuthResult carries the outcome of one authorization-code flow.
type OAuthResult struct {
	Token *oauth2.Token
	err   error
}

func (o *OAuthResult) Error() error {
	return o.err
}

// OAuthHandler terminates the OAuth2 authorization-code flow: it validates
// the CSRF state, exchanges the code for a token, and delivers the outcome
// on a channel. A handler accepts exactly one callback; replays get a 400.
type OAuthHandler struct {
	config *oauth2.Config
	state  string

	mu      sync.Mutex
	claimed bool
	results chan OAuthResult
	once    sync.Once
}

// NewOAuthHandler creates a handler for one flow. state must be a fresh
// cryptographically random token, see [shared.GenerateState].
func NewOAuthHandler(config *oauth2.Config, state string) *OAuthHandler {
	return &OAuthHandler{
		config:  config,
		state:   state,
		results: make(chan OAuthResult, 1),
	}
}

// Routes implements [Handler]. The path matches the registered redirect URI.
func (h *OAuthHandler) Routes() []string {
	return []string{"/callback"}
}

// claim marks the flow as consumed. Only the first caller wins.
func (h *OAuthHandler) claim() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.claimed {
		return false
	}
	h.claimed = true
	return true
}

func (h *OAuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.claim() {
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}

	query := r.URL.Query()

	if query.Get("state") != h.state {
		h.Send(OAuthResult{err: fmt.Errorf("%w: state mismatch", shared.ErrAuthFailed)})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := query.Get("code")
	if code == "" {
		reason := query.Get("error")
		if reason == "" {
			reason = "no authorization code returned"
		}
		h.Send(OAuthResult{err: fmt.Errorf("%w: %s %s", shared.ErrAuthFailed, reason, query.Get("error_description"))})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(r.Context(), code)
	if err != nil {
		h.Send(OAuthResult{err: fmt.Errorf("%w: token exchange: %v", shared.ErrAuthFailed, err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.Send(OAuthResult{Token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// Send delivers the flow outcome. Later calls are dropped, so the channel
// carries exactly one result before closing.
func (h *OAuthHandler) Send(result OAuthResult) {
	h.once.Do(func() {
		h.results <- result
		close(h.results)
	})
}

// Result returns the channel the flow outcome arrives on.
func (h *OAuthHandler) Result() <-chan OAuthResult {
	return h.results
}

// WaitForCallback serves the handler's routes on addr until the authorization
// callback arrives or ctx expires, then shuts the server down and returns the
// exchanged token. addr must match the host and port of the redirect URI
// registered with the platform.
func WaitForCallback(ctx context.Context, addr string, handler *OAuthHandler, router Router) (*oauth2.Token, error) {
	if router == nil {
		router = NewBasicRouter()
	}
	router.Handler(handler)

	srv := &http.Server{Addr: addr, Handler: router}
	errChan := make(chan error, 1)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return nil, err
		}
		return result.Token, nil
	case err := <-errChan:
		return nil, fmt.Errorf("callback server failed: %w", err)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
