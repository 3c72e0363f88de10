// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scrawl-live/scrawl/internal/auth"
	"github.com/scrawl-live/scrawl/internal/config"
	"github.com/scrawl-live/scrawl/internal/game"
)

// ClientMessage is the wire envelope for everything a client sends.
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GameServer owns the room registry and the table of live connections, and
// routes inbound events to room logic.
type GameServer struct {
	Registry *game.Registry

	mu      sync.RWMutex
	clients map[uuid.UUID]*client

	logger *logrus.Logger
}

func NewGameServer(cfg config.Settings, logger *logrus.Logger) *GameServer {
	gs := &GameServer{
		clients: make(map[uuid.UUID]*client),
		logger:  logger,
	}
	words := game.NewWordBank(cfg.WordBankPath)
	gs.Registry = game.NewRegistry(cfg, words, gs.sendToConn)
	return gs
}

// sendToConn is the single delivery primitive injected into the registry.
// It never blocks; events for connections that have gone away are dropped.
func (gs *GameServer) sendToConn(connID uuid.UUID, ev game.Event) {
	gs.mu.RLock()
	cl, ok := gs.clients[connID]
	gs.mu.RUnlock()
	if !ok {
		return
	}
	cl.enqueue(ev, gs.logger)
}

func (gs *GameServer) addClient(cl *client) {
	gs.mu.Lock()
	gs.clients[cl.id] = cl
	gs.mu.Unlock()
}

func (gs *GameServer) removeClient(cl *client) {
	gs.mu.Lock()
	// A reconnect under the same session token replaces the table entry;
	// only remove it if it is still ours.
	if cur, ok := gs.clients[cl.id]; ok && cur == cl {
		delete(gs.clients, cl.id)
	}
	gs.mu.Unlock()
}

// WSHandler upgrades the connection, assigns it a session identity and runs
// the read loop until the client goes away.
func (gs *GameServer) WSHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"scrawl"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			gs.logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "scrawl" {
			c.Close(websocket.StatusPolicyViolation, "client must use the 'scrawl' subprotocol")
			return
		}

		connID, token := gs.resolveSession(r)
		ctx, cancel := context.WithCancel(r.Context())
		cl := newClient(connID, c, cancel)
		gs.addClient(cl)
		gs.logger.Infof("client %s connected from %s", connID, r.RemoteAddr)

		go cl.writePump(ctx, gs.logger)
		cl.enqueue(game.Event{Type: game.EventSession, Data: map[string]string{
			"connectionId": connID.String(),
			"token":        token,
		}}, gs.logger)

		gs.readLoop(ctx, c, cl)

		gs.logger.Infof("client %s read loop exited", connID)
		cl.close()
		gs.removeClient(cl)
		gs.Registry.HandleDisconnect(connID)
	}
}

// resolveSession recovers the connection identity from a presented session
// token, or mints a fresh identity. Invalid tokens silently fall back to a
// new identity; re-joining a room by username restores the seat either way.
func (gs *GameServer) resolveSession(r *http.Request) (uuid.UUID, string) {
	if tok := r.URL.Query().Get("token"); tok != "" {
		if sub, err := auth.VerifySessionToken(tok); err == nil {
			if id, err := uuid.Parse(sub); err == nil {
				return id, tok
			}
		}
	}
	id := uuid.New()
	tok, err := auth.CreateSessionToken(id.String())
	if err != nil {
		gs.logger.Errorf("failed to mint session token for %s: %v", id, err)
	}
	return id, tok
}

// readLoop dispatches inbound events until the connection closes.
func (gs *GameServer) readLoop(ctx context.Context, c *websocket.Conn, cl *client) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway ||
				strings.Contains(err.Error(), "context canceled") {
				return
			}
			gs.logger.Debugf("client %s: read error: %v", cl.id, err)
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			gs.logger.Warnf("client %s: invalid JSON: %v", cl.id, err)
			gs.sendError(cl, "invalid message")
			continue
		}
		gs.dispatch(cl, msg)
	}
}

// dispatch routes one inbound event to the registry or room logic. Missing
// rooms are an error notice for lobby/game events and a silent no-op for
// canvas events, whose sender is already desynchronized.
func (gs *GameServer) dispatch(cl *client, msg ClientMessage) {
	switch msg.Type {
	case "create-room":
		var req struct {
			Username string `json:"username"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		gs.Registry.CreateRoom(cl.id, req.Username)

	case "check-room":
		var req struct {
			RoomID string `json:"roomId"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if _, ok := gs.Registry.GetRoom(req.RoomID); !ok {
			gs.sendError(cl, "Room does not exist.")
			return
		}
		cl.enqueue(game.Event{Type: game.EventRoomOK, Data: game.RoomOK{RoomID: req.RoomID}}, gs.logger)

	case "join-room":
		var req struct {
			Username string `json:"username"`
			RoomID   string `json:"roomId"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		r, ok := gs.Registry.GetRoom(req.RoomID)
		if !ok {
			gs.sendError(cl, "Room does not exist.")
			return
		}
		if err := r.Join(cl.id, req.Username); err != nil {
			gs.sendError(cl, err.Error())
		}

	case "start-game":
		var req struct {
			RoomID string `json:"roomId"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if r, ok := gs.Registry.GetRoom(req.RoomID); ok {
			r.HandleStartGame(cl.id)
		}

	case "word-selected":
		var req struct {
			RoomID string `json:"roomId"`
			Word   string `json:"word"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if r, ok := gs.Registry.GetRoom(req.RoomID); ok {
			r.HandleWordSelected(cl.id, req.Word)
		}

	case "send-message":
		var req struct {
			RoomID   string `json:"roomId"`
			Username string `json:"username"`
			Message  string `json:"message"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if r, ok := gs.Registry.GetRoom(req.RoomID); ok {
			r.HandleChatMessage(cl.id, req.Message)
		}

	case "drawing":
		var req struct {
			RoomID string `json:"roomId"`
			game.Stroke
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if r, ok := gs.Registry.GetRoom(req.RoomID); ok {
			r.HandleStroke(cl.id, req.Stroke)
		}

	case "clear-canvas":
		var req struct {
			RoomID string `json:"roomId"`
		}
		if !gs.decode(cl, msg.Data, &req) {
			return
		}
		if r, ok := gs.Registry.GetRoom(req.RoomID); ok {
			r.HandleClearCanvas()
		}

	case "request-canvas-history":
		// The payload is the bare room id string.
		var roomID string
		if !gs.decode(cl, msg.Data, &roomID) {
			return
		}
		if r, ok := gs.Registry.GetRoom(roomID); ok {
			r.HandleCanvasHistoryRequest(cl.id)
		}

	default:
		gs.logger.Warnf("client %s: unknown event type %q", cl.id, msg.Type)
		gs.sendError(cl, "unknown event type: "+msg.Type)
	}
}

func (gs *GameServer) decode(cl *client, data json.RawMessage, v interface{}) bool {
	if err := json.Unmarshal(data, v); err != nil {
		gs.logger.Warnf("client %s: bad payload: %v", cl.id, err)
		gs.sendError(cl, "invalid payload")
		return false
	}
	return true
}

func (gs *GameServer) sendError(cl *client, msg string) {
	cl.enqueue(game.Event{Type: game.EventErrorMsg, Data: msg}, gs.logger)
}
