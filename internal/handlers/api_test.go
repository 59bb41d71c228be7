// internal/handlers/api_test.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brnbmbr/button-game/internal/auth"
	"github.com/brnbmbr/button-game/internal/lobby"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestHealthz(t *testing.T) {
	require.NoError(t, auth.Init())
	router := NewRouter(testLogger(), lobby.NewStore(), nil)

	req := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListLobbies(t *testing.T) {
	require.NoError(t, auth.Init())
	store := lobby.NewStore()
	router := NewRouter(testLogger(), store, nil)

	req := httptest.NewRequest("GET", "/lobbies", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var empty []lobby.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &empty))
	assert.Empty(t, empty)

	conn := &lobby.Conn{ID: "host", OutChan: make(chan map[string]interface{}, 1)}
	_, _, err := store.Create("gold-rush", "hostess", conn)
	require.NoError(t, err)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/lobbies", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var listed []lobby.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	assert.Equal(t, "gold-rush", listed[0].Keyphrase)
	assert.Equal(t, 1, listed[0].Players)
	assert.Equal(t, "forming", listed[0].Phase)
}

func TestEnsureSessionMintsAndKeepsIdentity(t *testing.T) {
	require.NoError(t, auth.Init())

	req := httptest.NewRequest("GET", "/ws", nil)
	w := httptest.NewRecorder()
	connID, err := EnsureSession(w, req)
	require.NoError(t, err)
	require.NotEmpty(t, connID)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, sessionCookieName, cookies[0].Name)

	// Presenting the minted cookie keeps the same identity.
	req2 := httptest.NewRequest("GET", "/ws", nil)
	req2.AddCookie(cookies[0])
	w2 := httptest.NewRecorder()
	again, err := EnsureSession(w2, req2)
	require.NoError(t, err)
	assert.Equal(t, connID, again)
	assert.Empty(t, w2.Result().Cookies())
}
