// internal/lobby/conn.go
package lobby

import "context"

// Conn is a single client's presence in a lobby. The websocket layer owns
// the socket itself; the lobby only sees the identity and the outbound
// channel its write pump drains.
type Conn struct {
	ID       string
	Nickname string
	Cancel   context.CancelFunc
	OutChan  chan map[string]interface{}
}

// Write pushes a message onto the connection's out-channel without blocking.
// A consumer that cannot keep up loses messages rather than holding every
// other member of the lobby hostage.
func (c *Conn) Write(msg map[string]interface{}) {
	select {
	case c.OutChan <- msg:
	default:
	}
}

// WriteError sends the standard error unicast for a failed action.
func (c *Conn) WriteError(action, reason string) {
	c.Write(map[string]interface{}{
		"type":   "error",
		"action": action,
		"reason": reason,
	})
}
