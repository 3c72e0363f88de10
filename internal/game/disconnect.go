// internal/game/disconnect.go
package game

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HandleDisconnect keeps a dropped player's seat for the grace period. The
// room announces the drop, force-ends the turn if the drawer vanished, and
// schedules a removal keyed by the connection id captured now: if the player
// re-joins in the interim the id is rebound and the removal is cancelled.
func (r *Room) HandleDisconnect(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return
	}
	p := r.playerByConnLocked(connID)
	if p == nil {
		return
	}
	log.Infof("room %s: %s disconnected, holding seat for %s", r.ID, p.Username, r.cfg.GracePeriod)
	r.serverNoticeLocked(p.Username + " has disconnected (waiting for reconnect...).")

	// Do not leave the room stuck waiting on an absent drawer.
	if p.IsDrawing {
		r.endTurnLocked()
	}

	r.cancelGraceLocked(connID)
	r.graceTimers[connID] = time.AfterFunc(r.cfg.GracePeriod, func() {
		r.removeAfterGrace(connID)
	})
}

// removeAfterGrace fires when the grace period elapses. It re-resolves the
// player by the original connection id; a reconnection rebinds the id, making
// this a no-op.
func (r *Room) removeAfterGrace(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.graceTimers, connID)
	if r.GameOver {
		return
	}

	idx := -1
	for i, p := range r.Players {
		if p.ConnID == connID {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}

	removed := r.Players[idx]
	r.Players = append(r.Players[:idx], r.Players[idx+1:]...)
	log.Infof("room %s: %s removed after grace period", r.ID, removed.Username)
	r.serverNoticeLocked(removed.Username + " has been permanently removed due to timeout.")
	r.broadcastPlayerListLocked()

	if len(r.Players) == 0 {
		r.deleteLocked()
		return
	}

	// A player who disconnected while waiting for their turn may have been
	// rotated into the drawer seat in the meantime; without this the room
	// would idle forever on a drawer who can never pick a word.
	if removed.IsDrawing {
		r.endTurnLocked()
	}
}
