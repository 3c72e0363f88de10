// internal/game/registry.go
package game

import (
	"crypto/rand"
	"math/big"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/scrawl-live/scrawl/internal/config"
)

// roomCodeAlphabet is the character set for generated room codes.
const roomCodeAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// Registry creates, looks up and deletes rooms. The registry lock guards only
// the room table; each room carries its own mutex so independent rooms
// proceed in parallel.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	cfg   config.Settings
	words *WordBank
	send  SendFunc
}

func NewRegistry(cfg config.Settings, words *WordBank, send SendFunc) *Registry {
	return &Registry{
		rooms: make(map[string]*Room),
		cfg:   cfg,
		words: words,
		send:  send,
	}
}

// CreateRoom generates a unique room code, creates the room with the caller
// as host and first player, and acknowledges the creator.
func (reg *Registry) CreateRoom(connID uuid.UUID, username string) *Room {
	if username == "" {
		username = "Host"
	}

	reg.mu.Lock()
	id := reg.newRoomCodeLocked()
	r := newRoom(id, connID, reg.cfg, reg.words, reg.send)
	r.onDelete = reg.remove
	reg.rooms[id] = r
	reg.mu.Unlock()
	log.Infof("room %s created by %s", id, username)

	r.mu.Lock()
	r.Players = append(r.Players, &Player{ConnID: connID, Username: username})
	r.sendToLocked(connID, Event{Type: EventRoomCreated, Data: RoomInfo{
		RoomID:  id,
		HostID:  connID,
		Players: r.playersSnapshotLocked(),
	}})
	r.broadcastPlayerListLocked()
	r.mu.Unlock()

	return r
}

// GetRoom looks up a live room by code.
func (reg *Registry) GetRoom(id string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	r, ok := reg.rooms[id]
	return r, ok
}

// DeleteRoom tears down a room and removes it from the table. Idempotent.
func (reg *Registry) DeleteRoom(id string) {
	reg.mu.Lock()
	r, ok := reg.rooms[id]
	delete(reg.rooms, id)
	reg.mu.Unlock()
	if !ok {
		return
	}
	r.mu.Lock()
	r.shutdownLocked()
	r.mu.Unlock()
}

// HandleDisconnect locates the room holding the dropped connection, if any,
// and lets its reconciler take over. A connection belongs to at most one room.
func (reg *Registry) HandleDisconnect(connID uuid.UUID) {
	for _, r := range reg.snapshot() {
		r.mu.Lock()
		found := r.playerByConnLocked(connID) != nil
		r.mu.Unlock()
		if found {
			r.HandleDisconnect(connID)
			return
		}
	}
}

// remove drops the table entry only; the room tears itself down under its own
// lock before calling this.
func (reg *Registry) remove(id string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	delete(reg.rooms, id)
}

// snapshot returns the current rooms without holding the registry lock while
// the caller inspects them, avoiding registry/room lock nesting.
func (reg *Registry) snapshot() []*Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	rooms := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		rooms = append(rooms, r)
	}
	return rooms
}

// newRoomCodeLocked generates a short code, retrying on the (unlikely)
// collision with a live room.
func (reg *Registry) newRoomCodeLocked() string {
	for {
		code := make([]byte, reg.cfg.RoomCodeLength)
		for i := range code {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(roomCodeAlphabet))))
			if err != nil {
				// crypto/rand only fails if the platform source is broken.
				panic(err)
			}
			code[i] = roomCodeAlphabet[n.Int64()]
		}
		if _, exists := reg.rooms[string(code)]; !exists {
			return string(code)
		}
	}
}
