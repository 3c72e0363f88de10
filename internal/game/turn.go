// internal/game/turn.go
package game

import (
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// HandleStartGame begins round 1. Only the host may start; anyone else gets
// an error notice and no state changes.
func (r *Room) HandleStartGame(connID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver {
		return
	}
	if connID != r.HostID {
		r.sendToLocked(connID, Event{Type: EventErrorMsg, Data: ErrNotHost.Error()})
		return
	}
	// No started-guard: re-sending start-game is how the host resumes a
	// room that stalled waiting for players.
	r.Round = 1
	r.advanceTurnLocked()
}

// advanceTurnLocked moves the rotation to the next drawer, handling round
// wrap-around, end of game, and the not-enough-players stall.
//
// The index and round are mutated before the player-count checks run, so a
// bail-out here leaves the rotation mid-cycle; the next successful advancement
// resumes from the already-advanced position rather than re-running the
// skipped draw.
func (r *Room) advanceTurnLocked() {
	if r.GameOver {
		return
	}
	r.turnSerial++

	for _, p := range r.Players {
		p.HasGuessed = false
	}

	r.CurrentDrawerIndex++
	if r.CurrentDrawerIndex >= len(r.Players) {
		r.CurrentDrawerIndex = 0
		r.Round++
	}

	if r.Round > r.cfg.Rounds {
		if len(r.Players) >= 2 {
			r.endGameLocked()
		} else {
			r.deleteLocked()
		}
		return
	}

	if len(r.Players) < 2 {
		log.Infof("room %s: waiting for players (have %d)", r.ID, len(r.Players))
		r.serverNoticeLocked("Not enough players to continue. Waiting for more...")
		return
	}

	drawer := r.Players[r.CurrentDrawerIndex]
	for _, p := range r.Players {
		p.IsDrawing = p.ConnID == drawer.ConnID
	}
	log.Infof("room %s: round %d/%d, drawer %s", r.ID, r.Round, r.cfg.Rounds, drawer.Username)

	r.broadcastLocked(Event{Type: EventNewTurn, Data: NewTurn{
		DrawerID:    drawer.ConnID,
		Round:       r.Round,
		TotalRounds: r.cfg.Rounds,
	}})
	r.broadcastPlayerListLocked()
	r.sendToLocked(drawer.ConnID, Event{Type: EventWordChoices, Data: r.words.Choices(r.cfg.WordChoices)})
}

// HandleWordSelected sets the current word and starts the countdown. Only the
// current drawer may select.
func (r *Room) HandleWordSelected(connID uuid.UUID, word string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver || word == "" {
		return
	}
	drawer := r.currentDrawerLocked()
	if drawer == nil || drawer.ConnID != connID {
		r.sendToLocked(connID, Event{Type: EventErrorMsg, Data: ErrNotDrawer.Error()})
		return
	}

	r.CurrentWord = word
	r.broadcastLocked(Event{Type: EventTurnStart, Data: TurnStart{HiddenWord: maskWord(word)}})
	r.startTurnTimerLocked()
}

// startTurnTimerLocked resets the countdown to the configured draw duration,
// broadcasts it immediately, then ticks once per interval until zero.
func (r *Room) startTurnTimerLocked() {
	if r.countdown != nil {
		r.countdown.Stop()
	}
	r.TimerValue = r.cfg.DrawSeconds
	r.broadcastLocked(Event{Type: EventUpdateTimer, Data: TimerUpdate{Seconds: r.TimerValue}})

	serial := r.turnSerial
	r.countdown = time.AfterFunc(r.cfg.TickInterval, func() { r.tick(serial) })
}

// tick decrements the countdown and either rebroadcasts it or ends the turn.
// The serial check discards callbacks that outlived their turn.
func (r *Room) tick(serial int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver || r.turnSerial != serial || r.CurrentWord == "" {
		return
	}

	r.TimerValue--
	r.broadcastLocked(Event{Type: EventUpdateTimer, Data: TimerUpdate{Seconds: r.TimerValue}})

	if r.TimerValue <= 0 {
		r.endTurnLocked()
		return
	}
	r.countdown = time.AfterFunc(r.cfg.TickInterval, func() { r.tick(serial) })
}

// endTurnLocked stops the countdown, reveals the word, clears per-turn state
// and schedules the next advancement after the intermission.
func (r *Room) endTurnLocked() {
	r.turnSerial++
	if r.countdown != nil {
		r.countdown.Stop()
		r.countdown = nil
	}
	if r.intermission != nil {
		r.intermission.Stop()
	}

	r.broadcastLocked(Event{Type: EventRevealWord, Data: RevealWord{Word: r.CurrentWord}})
	r.CurrentWord = ""
	r.DrawingHistory = nil
	for _, p := range r.Players {
		p.IsDrawing = false
	}

	r.intermission = time.AfterFunc(r.cfg.Intermission, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.GameOver {
			return
		}
		r.intermission = nil
		r.advanceTurnLocked()
	})
}

// endGameLocked broadcasts the final scores and deletes the room.
func (r *Room) endGameLocked() {
	log.Infof("room %s: game over after %d rounds", r.ID, r.cfg.Rounds)
	r.broadcastLocked(Event{Type: EventGameEnd, Data: GameEnd{FinalScores: r.playersSnapshotLocked()}})
	r.deleteLocked()
}
