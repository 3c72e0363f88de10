package game

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scrawl-live/scrawl/internal/config"
)

// mockSender collects events per connection instead of writing to sockets.
type mockSender struct {
	mu     sync.Mutex
	events map[uuid.UUID][]Event
}

func newMockSender() *mockSender {
	return &mockSender{events: make(map[uuid.UUID][]Event)}
}

func (m *mockSender) send(connID uuid.UUID, ev Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[connID] = append(m.events[connID], ev)
}

func (m *mockSender) eventsFor(connID uuid.UUID) []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events[connID]))
	copy(out, m.events[connID])
	return out
}

func (m *mockSender) ofType(connID uuid.UUID, t EventType) []Event {
	var out []Event
	for _, ev := range m.eventsFor(connID) {
		if ev.Type == t {
			out = append(out, ev)
		}
	}
	return out
}

func (m *mockSender) lastOfType(connID uuid.UUID, t EventType) (Event, bool) {
	evs := m.ofType(connID, t)
	if len(evs) == 0 {
		return Event{}, false
	}
	return evs[len(evs)-1], true
}

func (m *mockSender) countOfType(connID uuid.UUID, t EventType) int {
	return len(m.ofType(connID, t))
}

func (m *mockSender) clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = make(map[uuid.UUID][]Event)
}

// testSettings uses a huge tick interval so the countdown never fires unless
// a test shrinks it, and short grace/intermission delays to keep timer-driven
// tests fast.
func testSettings() config.Settings {
	return config.Settings{
		DrawSeconds:    45,
		Rounds:         3,
		WordChoices:    3,
		DrawerBonus:    20,
		RoomCodeLength: 5,
		GracePeriod:    40 * time.Millisecond,
		Intermission:   20 * time.Millisecond,
		TickInterval:   time.Hour,
	}
}

// setupRoom builds a registry with one room holding numPlayers players.
// players[0] is the host.
func setupRoom(t *testing.T, numPlayers int, cfg config.Settings) (*Registry, *Room, []uuid.UUID, *mockSender) {
	t.Helper()
	mock := newMockSender()
	reg := NewRegistry(cfg, NewWordBank(""), mock.send)

	conns := make([]uuid.UUID, numPlayers)
	conns[0] = uuid.New()
	r := reg.CreateRoom(conns[0], "player0")
	for i := 1; i < numPlayers; i++ {
		conns[i] = uuid.New()
		require.NoError(t, r.Join(conns[i], fmt.Sprintf("player%d", i)))
	}
	return reg, r, conns, mock
}

func TestCreateRoomAddsHost(t *testing.T) {
	mock := newMockSender()
	reg := NewRegistry(testSettings(), NewWordBank(""), mock.send)

	host := uuid.New()
	r := reg.CreateRoom(host, "alice")

	assert.Len(t, r.ID, 5)
	assert.Equal(t, host, r.HostID)
	require.Len(t, r.Players, 1)
	assert.Equal(t, "alice", r.Players[0].Username)
	assert.Equal(t, -1, r.CurrentDrawerIndex)
	assert.Equal(t, 0, r.Round)

	ev, ok := mock.lastOfType(host, EventRoomCreated)
	require.True(t, ok)
	info := ev.Data.(RoomInfo)
	assert.Equal(t, r.ID, info.RoomID)
	assert.Equal(t, host, info.HostID)

	got, ok := reg.GetRoom(r.ID)
	require.True(t, ok)
	assert.Same(t, r, got)
}

func TestCreateRoomDefaultsUsername(t *testing.T) {
	mock := newMockSender()
	reg := NewRegistry(testSettings(), NewWordBank(""), mock.send)

	r := reg.CreateRoom(uuid.New(), "")
	assert.Equal(t, "Host", r.Players[0].Username)
}

func TestRoomCodesUnique(t *testing.T) {
	mock := newMockSender()
	reg := NewRegistry(testSettings(), NewWordBank(""), mock.send)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		r := reg.CreateRoom(uuid.New(), "u")
		assert.False(t, seen[r.ID], "duplicate room code %s", r.ID)
		seen[r.ID] = true
	}
}

func TestJoinBroadcastsRosterAndReplaysCanvas(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 1, testSettings())

	joiner := uuid.New()
	require.NoError(t, r.Join(joiner, "bob"))

	ev, ok := mock.lastOfType(joiner, EventJoinedRoom)
	require.True(t, ok)
	info := ev.Data.(RoomInfo)
	assert.Equal(t, r.ID, info.RoomID)
	assert.Len(t, info.Players, 2)

	// Both connections see the updated roster and the join notice.
	for _, c := range []uuid.UUID{conns[0], joiner} {
		_, ok := mock.lastOfType(c, EventUpdatePlayerList)
		assert.True(t, ok)
		chat, ok := mock.lastOfType(c, EventChatMessage)
		require.True(t, ok)
		assert.Equal(t, "bob has joined the game!", chat.Data.(ChatMessage).Message)
		assert.Equal(t, ChatTypeServer, chat.Data.(ChatMessage).Type)
	}

	// Only the joiner gets the canvas replay.
	assert.Equal(t, 1, mock.countOfType(joiner, EventCanvasHistory))
	assert.Equal(t, 0, mock.countOfType(conns[0], EventCanvasHistory))
}

func TestRejoinRebindsConnectionAndKeepsScore(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 2, testSettings())

	r.mu.Lock()
	r.Players[1].Score = 77
	r.mu.Unlock()

	newConn := uuid.New()
	require.NoError(t, r.Join(newConn, "player1"))

	require.Len(t, r.Players, 2, "rejoin must not add a seat")
	assert.Equal(t, newConn, r.Players[1].ConnID)
	assert.Equal(t, 77, r.Players[1].Score)

	chat, ok := mock.lastOfType(conns[0], EventChatMessage)
	require.True(t, ok)
	assert.Equal(t, "player1 has re-joined the game.", chat.Data.(ChatMessage).Message)
}

func TestJoinRejectsBlankUsername(t *testing.T) {
	_, r, _, _ := setupRoom(t, 1, testSettings())

	assert.ErrorIs(t, r.Join(uuid.New(), ""), ErrInvalidUsername)
	assert.ErrorIs(t, r.Join(uuid.New(), "   "), ErrInvalidUsername)
	assert.Len(t, r.Players, 1)
}

func TestDeleteRoomIsIdempotent(t *testing.T) {
	reg, r, _, _ := setupRoom(t, 2, testSettings())

	reg.DeleteRoom(r.ID)
	_, ok := reg.GetRoom(r.ID)
	assert.False(t, ok)

	reg.DeleteRoom(r.ID) // second delete is a no-op
}

func TestMaskWord(t *testing.T) {
	assert.Equal(t, "_ _ _ _ _ ", maskWord("T-Rex"))
	assert.Equal(t, "", maskWord(""))
	// Spaces in multi-word answers are masked like any other character.
	assert.Equal(t, "_ _ _ _ _ _ _ _ _ ", maskWord("ice cream"))
}
