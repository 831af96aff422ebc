package delivery

import (
	"sync"

	"github.com/gorilla/websocket"
)

// StatusEvent is pushed to every watcher of an order whenever its
// status changes.
type StatusEvent struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status"`
}

// watcher wraps one websocket connection. gorilla/websocket allows at
// most one concurrent writer per connection, so every outbound event
// goes through the watcher's mutex.
type watcher struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *watcher) send(event StatusEvent) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteJSON(event)
}

// StatusHub fans out order status events to websocket watchers. An
// order can have several watchers at once (customer tab plus staff
// board).
type StatusHub struct {
	watchers map[int64]map[*websocket.Conn]*watcher
	mutex    sync.RWMutex
}

func NewStatusHub() *StatusHub {
	return &StatusHub{
		watchers: make(map[int64]map[*websocket.Conn]*watcher),
	}
}

func (h *StatusHub) Register(orderID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.watchers[orderID] == nil {
		h.watchers[orderID] = make(map[*websocket.Conn]*watcher)
	}
	h.watchers[orderID][conn] = &watcher{conn: conn}
}

func (h *StatusHub) Unregister(orderID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if conns, exists := h.watchers[orderID]; exists {
		if _, ok := conns[conn]; ok {
			_ = conn.Close()
			delete(conns, conn)
		}
		if len(conns) == 0 {
			delete(h.watchers, orderID)
		}
	}
}

// Broadcast writes the event to every watcher of the order, dropping
// connections that fail.
func (h *StatusHub) Broadcast(orderID int64, event StatusEvent) {
	h.mutex.RLock()
	targets := make([]*watcher, 0, len(h.watchers[orderID]))
	for _, w := range h.watchers[orderID] {
		targets = append(targets, w)
	}
	h.mutex.RUnlock()

	for _, w := range targets {
		if err := w.send(event); err != nil {
			h.Unregister(orderID, w.conn)
		}
	}
}

func (h *StatusHub) WatcherCount(orderID int64) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.watchers[orderID])
}

func (h *StatusHub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for orderID, conns := range h.watchers {
		for conn := range conns {
			_ = conn.Close()
		}
		delete(h.watchers, orderID)
	}
}
