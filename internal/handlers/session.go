// internal/handlers/session.go
package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/brnbmbr/button-game/internal/auth"
)

const sessionCookieName = "session_token"

// EnsureSession returns the stable connection id for this client. A client
// presenting a valid session cookie keeps its id across reconnects; anyone
// else gets a fresh id minted and set as a signed cookie. Must be called
// before the websocket upgrade so the Set-Cookie header rides the 101.
func EnsureSession(w http.ResponseWriter, r *http.Request) (string, error) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if connID, err := auth.AuthenticateSessionToken(cookie.Value); err == nil {
			return connID, nil
		}
		// Fall through on a stale or tampered token and mint a new session.
	}

	connID := uuid.NewString()
	token, err := auth.CreateSessionToken(connID)
	if err != nil {
		return "", err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    token,
		HttpOnly: true,
		Path:     "/",
	})
	return connID, nil
}
