package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/veilmon/veilmon-server/internal/constants"
	"github.com/veilmon/veilmon-server/internal/game"
	"github.com/veilmon/veilmon-server/internal/logging"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The demo UI is served from a different origin during development.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Hub fans battle snapshots out to the WebSocket subscribers of each
// session. Connections that fail a write are dropped.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*websocket.Conn]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*websocket.Conn]struct{})}
}

func (h *Hub) add(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[code]
	if !ok {
		room = make(map[*websocket.Conn]struct{})
		h.rooms[code] = room
	}
	room[conn] = struct{}{}
}

// send writes one snapshot under the hub lock so it cannot interleave
// with a broadcast.
func (h *Hub) send(conn *websocket.Conn, snapshot game.Battle) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return conn.WriteJSON(snapshot)
}

func (h *Hub) remove(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if room, ok := h.rooms[code]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(h.rooms, code)
		}
	}
}

// Broadcast pushes a snapshot to every subscriber of the session. The
// hub lock is held across the writes so a connection never sees two
// concurrent writers.
func (h *Hub) Broadcast(code string, snapshot game.Battle) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[code]
	for conn := range room {
		if err := conn.WriteJSON(snapshot); err != nil {
			logging.Debug("dropping websocket subscriber", logging.Fields{constants.LogFieldSession: code})
			delete(room, conn)
			conn.Close()
		}
	}
	if len(room) == 0 {
		delete(h.rooms, code)
	}
}

// ServeWS upgrades the connection, sends the current snapshot and keeps
// the subscriber registered until the peer goes away.
func (h *BattleHandler) ServeWS(c *gin.Context) {
	code, ok := h.sessionCode(c)
	if !ok {
		return
	}
	snap, err := h.sessions.GetBattle(code)
	if err != nil {
		h.writeError(c, err, constants.ErrBattleNotFound)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldSession: code})
		return
	}
	h.hub.add(code, conn)
	if err := h.hub.send(conn, snap); err != nil {
		h.hub.remove(code, conn)
		conn.Close()
		return
	}

	// Drain the read side so close frames and pings are processed; the
	// server never expects client messages.
	go func() {
		defer func() {
			h.hub.remove(code, conn)
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
