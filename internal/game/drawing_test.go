package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrokeRelayExcludesSender(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 3, testSettings())
	mock.clear()

	s := Stroke{Tool: "brush", StartX: 10, StartY: 20, CurrentX: 30, CurrentY: 40, Color: "#ff0000", Width: 5}
	r.HandleStroke(conns[0], s)

	assert.Equal(t, 0, mock.countOfType(conns[0], EventDraw), "the artist already has the stroke locally")
	for _, c := range conns[1:] {
		ev, ok := mock.lastOfType(c, EventDraw)
		require.True(t, ok)
		assert.Equal(t, s, ev.Data.(Stroke))
	}
	assert.Len(t, r.DrawingHistory, 1)
}

func TestCanvasReplayPreservesOrder(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 2, testSettings())

	strokes := []Stroke{
		{Tool: "brush", StartX: 1, CurrentX: 2, Color: "#000000", Width: 5},
		{Tool: "rectangle", Fill: true, StartX: 3, CurrentX: 4, Color: "#00ff00", Width: 2},
		{Tool: "circle", StartX: 5, CurrentX: 6, Color: "#0000ff", Width: 8},
	}
	for _, s := range strokes {
		r.HandleStroke(conns[0], s)
	}
	mock.clear()

	r.HandleCanvasHistoryRequest(conns[1])

	ev, ok := mock.lastOfType(conns[1], EventCanvasHistory)
	require.True(t, ok)
	assert.Equal(t, strokes, ev.Data.([]Stroke))
	assert.Equal(t, 0, mock.countOfType(conns[0], EventCanvasHistory))
}

func TestLateJoinerReceivesCanvas(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 2, testSettings())
	r.HandleStroke(conns[0], Stroke{Tool: "brush", StartX: 1, CurrentX: 2, Color: "#000000", Width: 5})
	mock.clear()

	late := uuid.New()
	require.NoError(t, r.Join(late, "latecomer"))

	ev, ok := mock.lastOfType(late, EventCanvasHistory)
	require.True(t, ok)
	assert.Len(t, ev.Data.([]Stroke), 1)
}

func TestClearCanvas(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 2, testSettings())
	r.HandleStroke(conns[0], Stroke{Tool: "brush", Color: "#000000", Width: 5})
	mock.clear()

	r.HandleClearCanvas()

	assert.Empty(t, r.DrawingHistory)
	for _, c := range conns {
		assert.Equal(t, 1, mock.countOfType(c, EventClearCanvas))
	}
}

func TestTurnEndWipesDrawingLog(t *testing.T) {
	_, r, conns, mock := setupRoom(t, 2, testSettings())
	r.HandleStartGame(conns[0])
	r.HandleWordSelected(conns[0], "Star")
	r.HandleStroke(conns[0], Stroke{Tool: "brush", Color: "#000000", Width: 5})
	require.Len(t, r.DrawingHistory, 1)

	r.HandleChatMessage(conns[1], "Star")

	assert.Empty(t, r.DrawingHistory, "the next drawer starts on a blank canvas")
	mock.clear()
	r.HandleCanvasHistoryRequest(conns[1])
	ev, ok := mock.lastOfType(conns[1], EventCanvasHistory)
	require.True(t, ok)
	assert.Empty(t, ev.Data.([]Stroke))
}
