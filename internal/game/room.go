// internal/game/room.go
package game

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/scrawl-live/scrawl/internal/config"
)

// Player is one seat in a room. The durable identity is Username; ConnID is
// rebound whenever the same player reconnects under a new connection.
type Player struct {
	ConnID     uuid.UUID `json:"id"`
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	HasGuessed bool      `json:"hasGuessed"`
	IsDrawing  bool      `json:"isDrawing"`
}

// Stroke is one drawing operation: a brush/eraser segment or a shape. The
// server never interprets the geometry, it only logs and relays it.
type Stroke struct {
	Tool     string  `json:"tool"`
	Fill     bool    `json:"fill,omitempty"`
	StartX   float64 `json:"startX"`
	StartY   float64 `json:"startY"`
	CurrentX float64 `json:"currentX"`
	CurrentY float64 `json:"currentY"`
	Color    string  `json:"color"`
	Width    float64 `json:"width"`
}

// Room holds the entire state for one game session in memory. All state is
// guarded by mu; the exported Handle* methods acquire it, the *Locked helpers
// assume it is held.
type Room struct {
	ID      string
	HostID  uuid.UUID
	Players []*Player

	DrawingHistory     []Stroke
	CurrentDrawerIndex int
	CurrentWord        string
	Round              int
	TimerValue         int
	GameOver           bool

	// turnSerial increments on every turn transition so a stale timer
	// callback can detect it fired for a turn that already ended.
	turnSerial   int
	countdown    *time.Timer
	intermission *time.Timer
	graceTimers  map[uuid.UUID]*time.Timer

	cfg   config.Settings
	words *WordBank

	// send delivers one event to one connection. It must not block; room
	// methods call it while holding mu.
	send SendFunc

	// onDelete removes the room from the registry. Set by the registry at
	// creation time.
	onDelete func(roomID string)

	mu sync.Mutex
}

func newRoom(id string, hostID uuid.UUID, cfg config.Settings, words *WordBank, send SendFunc) *Room {
	return &Room{
		ID:                 id,
		HostID:             hostID,
		CurrentDrawerIndex: -1,
		TimerValue:         cfg.DrawSeconds,
		graceTimers:        make(map[uuid.UUID]*time.Timer),
		cfg:                cfg,
		words:              words,
		send:               send,
	}
}

// broadcastLocked sends ev to every player in the room.
func (r *Room) broadcastLocked(ev Event) {
	for _, p := range r.Players {
		r.send(p.ConnID, ev)
	}
}

// broadcastExceptLocked sends ev to every player except the given connection.
func (r *Room) broadcastExceptLocked(except uuid.UUID, ev Event) {
	for _, p := range r.Players {
		if p.ConnID == except {
			continue
		}
		r.send(p.ConnID, ev)
	}
}

func (r *Room) sendToLocked(connID uuid.UUID, ev Event) {
	r.send(connID, ev)
}

func (r *Room) serverNoticeLocked(message string) {
	r.broadcastLocked(Event{Type: EventChatMessage, Data: ChatMessage{
		Message: message,
		Type:    ChatTypeServer,
	}})
}

// playersSnapshotLocked copies the roster so it can be marshaled after the
// lock is released.
func (r *Room) playersSnapshotLocked() []Player {
	players := make([]Player, len(r.Players))
	for i, p := range r.Players {
		players[i] = *p
	}
	return players
}

func (r *Room) broadcastPlayerListLocked() {
	r.broadcastLocked(Event{Type: EventUpdatePlayerList, Data: r.playersSnapshotLocked()})
}

func (r *Room) playerByConnLocked(connID uuid.UUID) *Player {
	for _, p := range r.Players {
		if p.ConnID == connID {
			return p
		}
	}
	return nil
}

func (r *Room) playerByUsernameLocked(username string) *Player {
	for _, p := range r.Players {
		if p.Username == username {
			return p
		}
	}
	return nil
}

func (r *Room) currentDrawerLocked() *Player {
	if r.CurrentDrawerIndex < 0 || r.CurrentDrawerIndex >= len(r.Players) {
		return nil
	}
	return r.Players[r.CurrentDrawerIndex]
}

// Join adds a new player, or rebinds an existing player's connection when the
// username is already present (reconnection). The caller receives the current
// roster and a full drawing-history replay.
func (r *Room) Join(connID uuid.UUID, username string) error {
	if strings.TrimSpace(username) == "" {
		return ErrInvalidUsername
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return ErrRoomNotFound
	}

	if existing := r.playerByUsernameLocked(username); existing != nil {
		// Reconnection: a pending grace-period removal keyed by the old
		// connection would otherwise still fire against this seat.
		r.cancelGraceLocked(existing.ConnID)
		r.cancelGraceLocked(connID)
		existing.ConnID = connID
		log.Infof("room %s: %s re-joined as %s", r.ID, username, connID)
		r.serverNoticeLocked(username + " has re-joined the game.")
	} else {
		r.Players = append(r.Players, &Player{ConnID: connID, Username: username})
		log.Infof("room %s: %s joined as %s", r.ID, username, connID)
		r.serverNoticeLocked(username + " has joined the game!")
	}

	r.sendToLocked(connID, Event{Type: EventJoinedRoom, Data: RoomInfo{
		RoomID:  r.ID,
		HostID:  r.HostID,
		Players: r.playersSnapshotLocked(),
	}})
	r.broadcastPlayerListLocked()
	r.replayCanvasLocked(connID)
	return nil
}

// shutdownLocked cancels every outstanding timer and marks the room dead so
// stale callbacks cannot resurrect it.
func (r *Room) shutdownLocked() {
	r.GameOver = true
	r.turnSerial++
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
	if r.intermission != nil {
		r.intermission.Stop()
		r.intermission = nil
	}
	for id, t := range r.graceTimers {
		t.Stop()
		delete(r.graceTimers, id)
	}
}

// deleteLocked tears the room down and removes it from the registry.
func (r *Room) deleteLocked() {
	r.shutdownLocked()
	if r.onDelete != nil {
		r.onDelete(r.ID)
	}
	log.Infof("room %s deleted", r.ID)
}

func (r *Room) cancelGraceLocked(connID uuid.UUID) {
	if t, ok := r.graceTimers[connID]; ok {
		t.Stop()
		delete(r.graceTimers, connID)
	}
}

// maskWord derives the hidden display form: every rune of the word becomes a
// placeholder plus separator, spaces included. Multi-word answers therefore
// leak no word boundaries; kept for client compatibility.
func maskWord(word string) string {
	var b strings.Builder
	for range word {
		b.WriteString("_ ")
	}
	return b.String()
}
