// Package ws pushes sync and data-change events to connected UIs over
// WebSocket, replacing the need to poll the sync status endpoint.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"clinic-sync-backend/internal/service"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"
)

// writeTimeout bounds a single client write so one dead connection
// cannot stall the broadcast loop.
const writeTimeout = 5 * time.Second

// Hub fans Notifier events out to every connected WebSocket client.
type Hub struct {
	notifier *service.Notifier
	log      *logrus.Logger

	clientsMu sync.RWMutex
	clients   map[*websocket.Conn]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewHub(notifier *service.Notifier, log *logrus.Logger) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		notifier: notifier,
		log:      log,
		clients:  make(map[*websocket.Conn]bool),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to the notifier and begins broadcasting.
func (h *Hub) Start() {
	events, unsubscribe := h.notifier.Subscribe()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer unsubscribe()
		for {
			select {
			case <-h.ctx.Done():
				return
			case ev, ok := <-events:
				if !ok {
					return
				}
				h.broadcast(ev)
			}
		}
	}()
}

// Stop disconnects all clients and halts the broadcast loop.
func (h *Hub) Stop() {
	h.cancel()

	h.clientsMu.Lock()
	for conn := range h.clients {
		_ = conn.Close(websocket.StatusGoingAway, "Server shutting down")
		delete(h.clients, conn)
	}
	h.clientsMu.Unlock()

	h.wg.Wait()
}

// HandleWebSocket upgrades the request and registers the client.
func (h *Hub) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		h.log.Warnf("WebSocket upgrade failed: %+v", err)
		return
	}

	h.clientsMu.Lock()
	h.clients[conn] = true
	clientCount := len(h.clients)
	h.clientsMu.Unlock()

	h.log.Debugf("WebSocket client connected (total: %d)", clientCount)

	go h.readLoop(conn)
}

func (h *Hub) broadcast(ev service.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Warnf("Failed to marshal event: %+v", err)
		return
	}

	h.clientsMu.RLock()
	clients := make([]*websocket.Conn, 0, len(h.clients))
	for conn := range h.clients {
		clients = append(clients, conn)
	}
	h.clientsMu.RUnlock()

	for _, conn := range clients {
		ctx, cancel := context.WithTimeout(h.ctx, writeTimeout)
		err := conn.Write(ctx, websocket.MessageText, data)
		cancel()
		if err != nil {
			h.removeClient(conn)
		}
	}
}

// readLoop drains client frames so disconnects are noticed; inbound
// messages are otherwise ignored.
func (h *Hub) readLoop(conn *websocket.Conn) {
	defer h.removeClient(conn)
	for {
		if _, _, err := conn.Read(h.ctx); err != nil {
			return
		}
	}
}

func (h *Hub) removeClient(conn *websocket.Conn) {
	h.clientsMu.Lock()
	if _, exists := h.clients[conn]; exists {
		delete(h.clients, conn)
		clientCount := len(h.clients)
		h.clientsMu.Unlock()
		_ = conn.Close(websocket.StatusNormalClosure, "")
		h.log.Debugf("WebSocket client disconnected (total: %d)", clientCount)
		return
	}
	h.clientsMu.Unlock()
}
