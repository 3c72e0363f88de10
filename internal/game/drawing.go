// internal/game/drawing.go
package game

import "github.com/google/uuid"

// HandleStroke appends a stroke/shape to the per-turn drawing log and relays
// it to every other connection in the room, preserving emission order.
func (r *Room) HandleStroke(connID uuid.UUID, s Stroke) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return
	}
	r.DrawingHistory = append(r.DrawingHistory, s)
	r.broadcastExceptLocked(connID, Event{Type: EventDraw, Data: s})
}

// HandleClearCanvas empties the drawing log and tells everyone to wipe their
// canvas.
func (r *Room) HandleClearCanvas() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return
	}
	r.DrawingHistory = nil
	r.broadcastLocked(Event{Type: EventClearCanvas})
}

// HandleCanvasHistoryRequest unicasts the full drawing log to one connection
// so a late joiner can reconstruct the canvas by replaying it in order.
func (r *Room) HandleCanvasHistoryRequest(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return
	}
	r.replayCanvasLocked(connID)
}

func (r *Room) replayCanvasLocked(connID uuid.UUID) {
	history := make([]Stroke, len(r.DrawingHistory))
	copy(history, r.DrawingHistory)
	r.sendToLocked(connID, Event{Type: EventCanvasHistory, Data: history})
}
