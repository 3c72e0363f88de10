// internal/game/events.go
package game

import "github.com/google/uuid"

// EventType names an outbound server -> client event.
type EventType string

const (
	EventRoomCreated      EventType = "room-created"
	EventRoomOK           EventType = "room-ok"
	EventJoinedRoom       EventType = "joined-room"
	EventUpdatePlayerList EventType = "update-player-list"
	EventChatMessage      EventType = "chat-message"
	EventErrorMsg         EventType = "error-msg"
	EventNewTurn          EventType = "new-turn"
	EventWordChoices      EventType = "word-choices"
	EventTurnStart        EventType = "turn-start"
	EventUpdateTimer      EventType = "update-timer"
	EventRevealWord       EventType = "reveal-word"
	EventDraw             EventType = "draw"
	EventCanvasHistory    EventType = "canvas-history"
	EventClearCanvas      EventType = "clear-canvas"
	EventGameEnd          EventType = "game-end"
	EventCloseGuess       EventType = "close-guess"
	EventSession          EventType = "session"
)

// Chat message categories carried in ChatMessage.Type. The client renders
// server notices and correct-guess announcements differently from plain chat.
const (
	ChatTypeChat    = "chat"
	ChatTypeServer  = "server"
	ChatTypeCorrect = "correct"
)

// Event is the wire envelope for everything the server sends.
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// SendFunc delivers one event to one connection. Implementations must not
// block: room logic calls this while holding the room lock.
type SendFunc func(connID uuid.UUID, ev Event)

// ChatMessage is the payload for chat-message events.
type ChatMessage struct {
	Username string `json:"username,omitempty"`
	Message  string `json:"message"`
	Type     string `json:"type"`
}

// RoomInfo is the payload for room-created and joined-room events.
type RoomInfo struct {
	RoomID  string    `json:"roomId"`
	HostID  uuid.UUID `json:"hostId"`
	Players []Player  `json:"players"`
}

// RoomOK is the payload for room-ok events.
type RoomOK struct {
	RoomID string `json:"roomId"`
}

// NewTurn is the payload for new-turn events.
type NewTurn struct {
	DrawerID    uuid.UUID `json:"drawerId"`
	Round       int       `json:"round"`
	TotalRounds int       `json:"totalRounds"`
}

// TurnStart is the payload for turn-start events.
type TurnStart struct {
	HiddenWord string `json:"hiddenWord"`
}

// TimerUpdate is the payload for update-timer events.
type TimerUpdate struct {
	Seconds int `json:"seconds"`
}

// RevealWord is the payload for reveal-word events.
type RevealWord struct {
	Word string `json:"word"`
}

// CloseGuess is the payload for the private close-guess hint.
type CloseGuess struct {
	Guess    string `json:"guess"`
	Distance int    `json:"distance"`
}

// GameEnd is the payload for game-end events.
type GameEnd struct {
	FinalScores []Player `json:"finalScores"`
}
