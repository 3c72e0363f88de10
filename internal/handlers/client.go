// internal/handlers/client.go
package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scrawl-live/scrawl/internal/game"
)

// writeTimeout bounds a single websocket write so one dead client cannot
// stall the write pump.
const writeTimeout = 5 * time.Second

// client is one live websocket connection. Outbound events are queued on out
// and written by a dedicated pump so per-connection ordering is preserved.
type client struct {
	id     uuid.UUID
	conn   *websocket.Conn
	out    chan game.Event
	cancel context.CancelFunc
	once   sync.Once
}

func newClient(id uuid.UUID, conn *websocket.Conn, cancel context.CancelFunc) *client {
	return &client{
		id:     id,
		conn:   conn,
		out:    make(chan game.Event, 256),
		cancel: cancel,
	}
}

// enqueue pushes an event onto the client's send queue without blocking.
// Room logic calls this while holding a room lock, so dropping is the only
// acceptable failure mode for a full queue.
func (cl *client) enqueue(ev game.Event, logger *logrus.Logger) {
	select {
	case cl.out <- ev:
	default:
		logger.Warnf("client %s: send queue full, dropped %s", cl.id, ev.Type)
	}
}

// writePump drains the send queue onto the wire until the context ends.
func (cl *client) writePump(ctx context.Context, logger *logrus.Logger) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-cl.out:
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Errorf("client %s: marshal %s: %v", cl.id, ev.Type, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
			err = cl.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Debugf("client %s: write failed: %v", cl.id, err)
				cl.close()
				return
			}
		}
	}
}

func (cl *client) close() {
	cl.once.Do(func() {
		cl.cancel()
		cl.conn.Close(websocket.StatusNormalClosure, "")
	})
}
