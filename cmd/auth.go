package main

import (
	"context"
	"fmt"
	"time"

	"github.com/athorsen/local2stream/internal/server"
	"github.com/athorsen/local2stream/internal/shared"
	"github.com/urfave/cli/v3"
)

// oauthTimeout bounds how long the callback server waits for the user to
// finish the browser flow.
const oauthTimeout = 2 * time.Minute

// AuthLogin runs the OAuth2 authorization-code flow against a local callback
// server and persists the issued token to the config file.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if r.service == nil {
		return fmt.Errorf("%w: Spotify credentials not configured, run 'l2s setup' first", shared.ErrMissingCredentials)
	}

	state, err := shared.GenerateState()
	if err != nil {
		return fmt.Errorf("failed to generate state token: %w", err)
	}

	authURL := r.service.GetAuthURL(state)

	r.writePlain("Opening browser for Spotify authorization...\n")
	r.writePlain("If the browser does not open, visit:\n\n  %s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warnf("could not open browser: %v", err)
	}

	handler := server.NewOAuthHandler(r.service.GetOAuthConfig(), state)
	router := server.NewBasicRouter()
	router.Use(server.LogRequests(r.logger))

	host := r.config.Server.Host
	if host == "" {
		host = "localhost"
	}
	port := r.config.Server.Port
	if port == 0 {
		port = 8888
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	r.logger.Info("waiting for OAuth callback", "addr", addr)

	waitCtx, cancel := context.WithTimeout(ctx, oauthTimeout)
	defer cancel()

	token, err := server.WaitForCallback(waitCtx, addr, handler, router)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.service.OAuthenticate(ctx, token); err != nil {
		return err
	}

	if err := r.config.Credentials.Spotify.Update(token); err != nil {
		return err
	}
	if err := shared.SaveConfig(configPath, r.config); err != nil {
		r.logger.Warnf("failed to save token to config: %v", err)
	} else {
		r.logger.Info("token saved", "path", configPath)
	}

	return r.writePlain("✓ Authentication successful\n")
}

// AuthStatus reports the saved credential and token state without calling the API.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	creds := r.config.Credentials.Spotify

	if creds.ClientID == "" || creds.ClientSecret == "" {
		r.writePlain("✗ No Spotify credentials configured\n")
		r.writePlain("Run 'l2s setup' to configure them.\n")
		return nil
	}

	r.writePlain("✓ Spotify credentials configured\n")

	if creds.AccessToken == "" {
		r.writePlain("Authentication: ✗ Not authenticated (run 'l2s auth login')\n")
		return nil
	}

	token := creds.Token()
	switch {
	case token.Expiry.IsZero():
		r.writePlain("Authentication: ✓ Token saved (expiry unknown)\n")
	case token.Expiry.Before(time.Now()):
		if creds.RefreshToken != "" {
			r.writePlain("Authentication: ✓ Token expired, refresh token available\n")
		} else {
			r.writePlain("Authentication: ✗ Token expired (run 'l2s auth login')\n")
		}
	default:
		r.writePlain("Authentication: ✓ Token valid until %s\n", token.Expiry.Format(time.RFC1123))
	}

	return nil
}
