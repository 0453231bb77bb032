package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Pusher delivers best-effort live updates to a user's open sessions.
type Pusher interface {
	Push(userID string, payload interface{})
}

// pushConn is the subset of *websocket.Conn the hub needs.
type pushConn interface {
	WriteJSON(v interface{}) error
	Close() error
}

// Hub tracks open websocket sessions per user. A user may hold several
// sessions at once; a push to a user with none is silently discarded.
type Hub struct {
	mutex    sync.RWMutex
	sessions map[string]map[pushConn]struct{}
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		sessions: make(map[string]map[pushConn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		log: log,
	}
}

// ServeHTTP upgrades the request and keeps the session registered until
// the peer goes away. The user id comes from the userID query parameter;
// authenticating it is the gateway's job.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userID")
	if userID == "" {
		http.Error(w, "missing userID", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	h.register(userID, conn)
	h.log.Infof("User %s connected", userID)

	defer func() {
		h.unregister(userID, conn)
		conn.Close()
		h.log.Infof("User %s disconnected", userID)
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) register(userID string, conn pushConn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[pushConn]struct{})
	}
	h.sessions[userID][conn] = struct{}{}
}

func (h *Hub) unregister(userID string, conn pushConn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	conns := h.sessions[userID]
	delete(conns, conn)
	if len(conns) == 0 {
		delete(h.sessions, userID)
	}
}

// Push writes the payload to every open session of the user. Delivery is
// best-effort: no sessions means the update is dropped, and a write error
// only logs.
func (h *Hub) Push(userID string, payload interface{}) {
	h.mutex.RLock()
	conns := make([]pushConn, 0, len(h.sessions[userID]))
	for conn := range h.sessions[userID] {
		conns = append(conns, conn)
	}
	h.mutex.RUnlock()

	for _, conn := range conns {
		if err := conn.WriteJSON(payload); err != nil {
			h.log.WithError(err).Debugf("Push to user %s failed", userID)
		}
	}
}

// Online reports whether the user has at least one open session.
func (h *Hub) Online(userID string) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.sessions[userID]) > 0
}
