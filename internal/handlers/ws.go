// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"github.com/brnbmbr/button-game/internal/audit"
	"github.com/brnbmbr/button-game/internal/board"
	"github.com/brnbmbr/button-game/internal/lobby"
	"github.com/brnbmbr/button-game/internal/middleware"
)

const lobbySubprotocol = "button-game"

// clientMessage is the envelope for every inbound action. Field names match
// the client wire protocol; unused fields stay zero for a given action.
type clientMessage struct {
	Type      string            `json:"type"`
	Keyphrase string            `json:"keyphrase"`
	Nickname  string            `json:"nickname"`
	Button    int               `json:"button"`
	Config    *lobby.GameConfig `json:"config"`
}

// LobbyWSHandler upgrades the connection and runs the session dispatch loop:
// each inbound named action maps to exactly one directory/lobby call, and
// the call's result fans out as room broadcasts and unicasts. A closed
// connection triggers the same leave path as an explicit departure.
func LobbyWSHandler(logger *logrus.Logger, store *lobby.Store, aud *audit.Publisher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		remoteAddr := r.RemoteAddr

		// The session cookie must be set before Accept writes the 101.
		connID, err := EnsureSession(w, r)
		if err != nil {
			logger.Warnf("failed to establish session for %s: %v", remoteAddr, err)
			http.Error(w, "failed to establish session", http.StatusInternalServerError)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{lobbySubprotocol},
			OriginPatterns: []string{"*"}, // Adjust in production
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != lobbySubprotocol {
			c.Close(BadSubprotocolError, "client must speak the button-game subprotocol")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()
		conn := &lobby.Conn{
			ID:      connID,
			Cancel:  cancel,
			OutChan: make(chan map[string]interface{}, 16),
		}

		middleware.LogWebSocketConnect(logger, remoteAddr, connID)
		go writePump(ctx, c, conn, logger)

		readErr := readPump(ctx, c, conn, store, aud, logger)
		middleware.LogWebSocketDisconnect(logger, remoteAddr, connID, readErr)

		// The connection is gone; apply the leave to whichever lobby owned
		// it. If the lobby survived, the room hears the same updates as any
		// other membership change. If it closed, there is nobody to tell.
		if l, res, ok := store.RemoveConnection(connID); ok {
			if res.Closed {
				logger.Infof("Lobby %q closed after %s disconnected", l.Keyphrase, connID)
			} else {
				l.Broadcast(joinedMessage(res.Players))
				l.Broadcast(remainingPicksMessage(res.RemainingPicks))
			}
		}
		c.Close(websocket.StatusNormalClosure, "bye")
	}
}

// readPump decodes inbound frames and hands each action to dispatch.
// Returns nil on a clean close.
func readPump(ctx context.Context, c *websocket.Conn, conn *lobby.Conn, store *lobby.Store, aud *audit.Publisher, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return nil
			}
			if strings.Contains(err.Error(), "context canceled") {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg clientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.WriteError("", "invalid JSON payload")
			continue
		}
		dispatch(msg, conn, store, aud, logger)
	}
}

// dispatch routes one decoded action. Failures surface only to the
// requesting connection; no other member ever hears about them.
func dispatch(msg clientMessage, conn *lobby.Conn, store *lobby.Store, aud *audit.Publisher, logger *logrus.Logger) {
	switch msg.Type {
	case "createLobby":
		if msg.Keyphrase == "" || msg.Nickname == "" {
			conn.WriteError(msg.Type, "keyphrase and nickname are required")
			return
		}
		l, players, err := store.Create(msg.Keyphrase, msg.Nickname, conn)
		if err != nil {
			conn.WriteError(msg.Type, err.Error())
			return
		}
		logger.Infof("Lobby %q created by %s (%s)", l.Keyphrase, msg.Nickname, conn.ID)
		l.Broadcast(joinedMessage(players))

	case "joinLobby":
		if msg.Keyphrase == "" || msg.Nickname == "" {
			conn.WriteError(msg.Type, "keyphrase and nickname are required")
			return
		}
		l, players, err := store.Join(msg.Keyphrase, msg.Nickname, conn)
		if err != nil {
			conn.WriteError(msg.Type, err.Error())
			return
		}
		logger.Infof("%s (%s) joined lobby %q", msg.Nickname, conn.ID, l.Keyphrase)
		l.Broadcast(joinedMessage(players))

	case "startGame":
		l, ok := store.Get(msg.Keyphrase)
		if !ok {
			conn.WriteError(msg.Type, lobby.ErrLobbyNotFound.Error())
			return
		}
		if msg.Config == nil {
			conn.WriteError(msg.Type, lobby.ErrInvalidConfig.Error())
			return
		}
		picks, err := l.Start(conn.ID, *msg.Config)
		if err != nil {
			conn.WriteError(msg.Type, err.Error())
			return
		}
		logger.Infof("Lobby %q started: %d grand, %d consolation, %d picks each",
			l.Keyphrase, len(msg.Config.GrandPrizes), len(msg.Config.ConsolationPrizes), msg.Config.Picks)
		l.Broadcast(remainingPicksMessage(picks))
		l.Broadcast(map[string]interface{}{"type": "startCountdown"})

	case "pickButton":
		l, ok := store.Get(msg.Keyphrase)
		if !ok {
			conn.WriteError(msg.Type, lobby.ErrLobbyNotFound.Error())
			return
		}
		res, err := l.Pick(conn.ID, msg.Button)
		if err != nil {
			conn.WriteError(msg.Type, err.Error())
			return
		}
		// The room only ever learns the button number, never the prize.
		l.Broadcast(map[string]interface{}{
			"type":         "boardUpdate",
			"buttonNumber": res.Slot,
		})
		conn.Write(prizeWonMessage(res))
		l.Broadcast(remainingPicksMessage(res.RemainingPicks))
		l.Broadcast(map[string]interface{}{
			"type":        "leaderboardUpdate",
			"leaderboard": res.Leaderboard,
		})
		if res.Won {
			publishClaim(aud, logger, l.Keyphrase, conn.Nickname, res)
		}

	default:
		conn.WriteError(msg.Type, fmt.Sprintf("unknown action type: %q", msg.Type))
	}
}

// publishClaim pushes the win onto the audit queue without holding up the
// dispatch loop.
func publishClaim(aud *audit.Publisher, logger *logrus.Logger, keyphrase, nickname string, res lobby.PickResult) {
	rec := audit.ClaimRecord{
		Keyphrase: keyphrase,
		Nickname:  nickname,
		Slot:      res.Slot,
		Tier:      string(res.Tier),
		Label:     res.Label,
		ClaimCode: res.ClaimCode,
		Timestamp: time.Now().Unix(),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := aud.PublishClaim(ctx, rec); err != nil {
			logger.Warnf("failed to publish claim record for lobby %q: %v", keyphrase, err)
		}
	}()
}

func joinedMessage(players []lobby.PlayerSummary) map[string]interface{} {
	return map[string]interface{}{
		"type":    "joined",
		"players": players,
	}
}

func remainingPicksMessage(picks map[string]int) map[string]interface{} {
	return map[string]interface{}{
		"type":  "updateRemainingPicks",
		"picks": picks,
	}
}

func prizeWonMessage(res lobby.PickResult) map[string]interface{} {
	msg := map[string]interface{}{
		"type":      "prizeWon",
		"won":       res.Won,
		"picksLeft": res.PicksLeft,
		"message":   outcomeMessage(res),
	}
	if res.Won {
		msg["code"] = res.ClaimCode
	}
	return msg
}

// outcomeMessage renders the player-facing result line for a pick.
func outcomeMessage(res lobby.PickResult) string {
	switch {
	case res.Won && res.Tier == board.TierGrand:
		return fmt.Sprintf("🎉 GRAND PRIZE! You've Won %s!", res.Label)
	case res.Won:
		return fmt.Sprintf("You won a booby prize! Please enjoy %s!", res.Label)
	default:
		return fmt.Sprintf("Sorry, Better Luck Next Time! You still have %d more tries!", res.PicksLeft)
	}
}

// writePump drains the connection's out-channel onto the socket and keeps
// the connection alive with periodic pings.
func writePump(ctx context.Context, c *websocket.Conn, conn *lobby.Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(msg)
			if err != nil {
				logger.Warnf("failed to marshal outgoing msg for %s: %v", conn.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for %s, assuming disconnect: %v", conn.ID, err)
				return
			}
		}
	}
}
