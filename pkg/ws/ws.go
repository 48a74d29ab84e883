// Package ws provides the realtime channel over gorilla/websocket.
//
// Clients connect to /ws, send a {"event":"join","userId":...} envelope to
// enter their own room, and from then on receive every event emitted to
// that user ID. The hub holds no state beyond live connections; chat
// history is REST-backed.
//
//	hub := ws.NewHub()
//	go hub.Run()
//	hub.OnEvent = chatRelay(hub)
//	router.Get("/ws", "ws", func(w http.ResponseWriter, r *http.Request) {
//	    ws.Upgrade(w, r, hub)
//	})
//
// Emitting from anywhere (e.g. the chat REST handler):
//
//	hub.EmitToUser(receiverID, "newMessage", message)
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/lekhanhduy0411/tiemlen/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// Envelope is the wire format for every event in both directions.
type Envelope struct {
	Event  string          `json:"event"`
	UserID string          `json:"userId,omitempty"`
	Data   json.RawMessage `json:"data,omitempty"`
}

// Client represents a single connected WebSocket client.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string // set once the client joins its room
}

// UserID returns the room this client joined ("" before join).
func (c *Client) UserID() string { return c.userID }

// readPump pumps messages from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}

		var env Envelope
		if err := json.Unmarshal(msg, &env); err != nil {
			continue // ignore malformed frames
		}
		c.hub.inbound <- inboundEvent{client: c, env: env}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type inboundEvent struct {
	client *Client
	env    Envelope
}

type emit struct {
	userID string
	data   []byte
}

// Hub maintains all active WebSocket connections grouped into per-user rooms.
type Hub struct {
	clients    map[*Client]bool
	rooms      map[string]map[*Client]bool
	inbound    chan inboundEvent
	emits      chan emit
	register   chan *Client
	unregister chan *Client

	// OnEvent is called for every inbound envelope except "join",
	// which the hub handles itself (optional).
	OnEvent func(hub *Hub, client *Client, env Envelope)
}

// NewHub creates a new Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		inbound:    make(chan inboundEvent, 256),
		emits:      make(chan emit, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// EmitToUser sends an event envelope to every connection in the user's room.
// Drops silently when the user has no live connection (history is fetched
// over REST on next load).
func (h *Hub) EmitToUser(userID, eventName string, data interface{}) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(Envelope{Event: eventName, Data: raw})
	if err != nil {
		return
	}

	select {
	case h.emits <- emit{userID: userID, data: payload}:
	default:
		// Emit buffer full — drop the message rather than block the caller.
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			logger.Info("ws: client connected", "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.leaveRoom(client)
				delete(h.clients, client)
				close(client.send)
				logger.Info("ws: client disconnected", "total", len(h.clients))
			}

		case e := <-h.emits:
			for client := range h.rooms[e.userID] {
				select {
				case client.send <- e.data:
				default:
					// Slow consumer: drop the connection rather than block the hub.
					h.leaveRoom(client)
					delete(h.clients, client)
					close(client.send)
				}
			}

		case in := <-h.inbound:
			if in.env.Event == "join" {
				h.joinRoom(in.client, in.env.UserID)
				continue
			}
			if h.OnEvent != nil {
				h.OnEvent(h, in.client, in.env)
			}
		}
	}
}

func (h *Hub) joinRoom(c *Client, userID string) {
	if userID == "" {
		return
	}
	h.leaveRoom(c)
	c.userID = userID
	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[*Client]bool)
	}
	h.rooms[userID][c] = true
	logger.Info("ws: user joined room", "user_id", userID)
}

func (h *Hub) leaveRoom(c *Client) {
	if c.userID == "" {
		return
	}
	if room, ok := h.rooms[c.userID]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.userID)
		}
	}
	c.userID = ""
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int { return len(h.clients) }

// Upgrade upgrades an HTTP connection to a WebSocket and registers the
// resulting client with the given hub.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256)}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
