// Package stream pushes decisions and grid marks to websocket clients, such
// as a browser overlay that paints them onto the marketplace page.
package stream

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/luticapital/arbitrage-helper/internal/metrics"
	domain "github.com/luticapital/arbitrage-helper/pkg/types"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Event types.
const (
	TypeHello    = "hello"
	TypeDecision = "decision"
	TypeGridMark = "grid_mark"
	TypeFilter   = "filter"
)

// Event is one message sent to clients.
type Event struct {
	Type      string                `json:"type"`
	Decision  *domain.DecisionView  `json:"decision,omitempty"`
	Mark      *domain.GridMark      `json:"mark,omitempty"`
	Decisions []domain.DecisionView `json:"decisions,omitempty"`
	Marks     []domain.GridMark     `json:"marks,omitempty"`
	Types     []string              `json:"types,omitempty"`
	At        time.Time             `json:"at"`
}

// Snapshot returns the state replayed to a client when it connects.
type Snapshot func() ([]domain.DecisionView, []domain.GridMark)

// subscribeMsg lets a client narrow the event types it receives.
type subscribeMsg struct {
	Action string   `json:"action"`
	Types  []string `json:"types"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The overlay runs inside the marketplace origin.
	CheckOrigin: func(*http.Request) bool { return true },
}

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	mu    sync.RWMutex
	types map[string]bool
}

// Hub tracks connected clients and broadcasts rendering events to them. It
// implements surface.Surface.
type Hub struct {
	log      *slog.Logger
	snapshot Snapshot
	nowFunc  func() time.Time

	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Hub) {
		h.log = l
	}
}

// WithSnapshot sets the state replayed to new clients.
func WithSnapshot(s Snapshot) Option {
	return func(h *Hub) {
		h.snapshot = s
	}
}

// NewHub creates an empty Hub.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		log:     slog.Default(),
		nowFunc: time.Now,
		clients: make(map[*client]struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// ShowDecision broadcasts a decision view.
func (h *Hub) ShowDecision(_ context.Context, v *domain.DecisionView) error {
	h.broadcast(TypeDecision, &Event{Type: TypeDecision, Decision: v, At: h.nowFunc()})
	return nil
}

// MarkGridItem broadcasts a grid mark.
func (h *Hub) MarkGridItem(_ context.Context, m *domain.GridMark) error {
	h.broadcast(TypeGridMark, &Event{Type: TypeGridMark, Mark: m, At: h.nowFunc()})
	return nil
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.StreamClients.Set(0)
}

func (h *Hub) broadcast(typ string, ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encoding stream event", "type", typ, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		if !c.wants(typ) {
			continue
		}
		select {
		case c.send <- data:
		default:
			h.log.Warn("dropping stream event for slow client", "type", typ)
		}
	}
}

// ServeHTTP upgrades the request to a websocket and streams events until
// the client disconnects. GET /ws
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "stream closed", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := &client{
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	if !h.register(c) {
		_ = conn.Close()
		return
	}

	go c.writePump()
	go c.readPump()
}

// register queues the hello event and adds c in one step, so the client
// sees every event after its snapshot and none before it.
func (h *Hub) register(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	c.hello()
	h.clients[c] = struct{}{}
	metrics.StreamClients.Set(float64(len(h.clients)))
	h.log.Debug("stream client connected", "clients", len(h.clients))
	return true
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.StreamClients.Set(float64(len(h.clients)))
	h.log.Debug("stream client disconnected", "clients", len(h.clients))
}

// hello queues the current state so the client can paint immediately.
// The send buffer is still empty when it runs.
func (c *client) hello() {
	ev := &Event{Type: TypeHello, At: c.hub.nowFunc()}
	if c.hub.snapshot != nil {
		ev.Decisions, ev.Marks = c.hub.snapshot()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		c.hub.log.Error("encoding stream hello", "error", err)
		return
	}
	c.send <- data
}

// sendTo queues ev for c alone, unless c has already been dropped.
func (h *Hub) sendTo(c *client, ev *Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		h.log.Error("encoding stream event", "type", ev.Type, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// filter returns the subscribed event types, empty meaning all of them.
func (c *client) filter() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	types := make([]string, 0, len(c.types))
	for t := range c.types {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}

func (c *client) wants(typ string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.types) == 0 || c.types[typ]
}

func (c *client) subscribe(msg subscribeMsg) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch msg.Action {
	case "subscribe":
		if c.types == nil {
			c.types = make(map[string]bool)
		}
		for _, t := range msg.Types {
			c.types[t] = true
		}
	case "unsubscribe":
		for t := range c.types {
			if slices.Contains(msg.Types, t) {
				delete(c.types, t)
			}
		}
	}
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.log.Warn("stream client closed unexpectedly", "error", err)
			}
			return
		}

		var sub subscribeMsg
		if err := json.Unmarshal(message, &sub); err == nil && sub.Action != "" {
			c.subscribe(sub)
			c.hub.sendTo(c, &Event{Type: TypeFilter, Types: c.filter(), At: c.hub.nowFunc()})
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
