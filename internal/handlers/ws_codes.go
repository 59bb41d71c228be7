// internal/handlers/ws_codes.go
package handlers

// Custom WebSocket close codes used by the lobby handler. These provide
// more specific reasons for closure than standard codes. Session failures
// are reported over plain HTTP before the upgrade, so they need no code here.
const (
	BadSubprotocolError = 3000 // Client connected with an unsupported subprotocol.
)
