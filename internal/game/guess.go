// internal/game/guess.go
package game

import (
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// closeGuessDistance is the Levenshtein threshold under which an incorrect
// guess earns the guesser a private "close" hint.
const closeGuessDistance = 2

// HandleChatMessage evaluates a chat line as a guess. A correct guess scores
// and is announced; anything else is relayed verbatim as ordinary chat.
func (r *Room) HandleChatMessage(connID uuid.UUID, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.GameOver || message == "" {
		return
	}

	sender := r.playerByConnLocked(connID)
	drawer := r.currentDrawerLocked()

	if r.CurrentWord != "" && strings.EqualFold(message, r.CurrentWord) {
		if sender != nil && !sender.HasGuessed && drawer != nil && sender.ConnID != drawer.ConnID {
			r.scoreGuessLocked(sender, drawer)
		}
		// A correct guess never reaches the chat stream, even a repeated
		// one, so the answer is not revealed to the rest of the room.
		return
	}

	if sender != nil && r.isCloseGuessLocked(sender, drawer, message) {
		dist := levenshtein.ComputeDistance(strings.ToLower(message), strings.ToLower(r.CurrentWord))
		r.sendToLocked(connID, Event{Type: EventCloseGuess, Data: CloseGuess{
			Guess:    message,
			Distance: dist,
		}})
	}

	username := ""
	if sender != nil {
		username = sender.Username
	}
	r.broadcastLocked(Event{Type: EventChatMessage, Data: ChatMessage{
		Username: username,
		Message:  message,
		Type:     ChatTypeChat,
	}})
}

// scoreGuessLocked awards the guesser the remaining seconds on the clock and
// the drawer a flat bonus, then ends the turn early once everyone has guessed.
func (r *Room) scoreGuessLocked(sender, drawer *Player) {
	sender.Score += r.TimerValue
	drawer.Score += r.cfg.DrawerBonus
	sender.HasGuessed = true
	log.Infof("room %s: %s guessed the word (%d points)", r.ID, sender.Username, r.TimerValue)

	r.broadcastLocked(Event{Type: EventChatMessage, Data: ChatMessage{
		Message: sender.Username + " has guessed the word!",
		Type:    ChatTypeCorrect,
	}})
	r.broadcastPlayerListLocked()

	for _, p := range r.Players {
		if !p.HasGuessed && p.ConnID != drawer.ConnID {
			return
		}
	}
	r.endTurnLocked()
}

func (r *Room) isCloseGuessLocked(sender, drawer *Player, message string) bool {
	if r.CurrentWord == "" || sender.HasGuessed {
		return false
	}
	if drawer == nil || sender.ConnID == drawer.ConnID {
		return false
	}
	dist := levenshtein.ComputeDistance(strings.ToLower(message), strings.ToLower(r.CurrentWord))
	return dist > 0 && dist <= closeGuessDistance
}
