// Package websocket - Realtime Notification Feed
// Pushes stored notifications to connected clients over per-user streams.
package websocket

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"animehub/pkg/models"
)

const (
	writeWait       = 10 * time.Second    // Time allowed to write a message
	pongWait        = 60 * time.Second    // Time allowed to read the next pong
	pingPeriod      = (pongWait * 9) / 10 // Send pings to client
	sendQueueSize   = 64                  // Bounded per-client send queue
	maxUserStreams  = 8                   // Max concurrent connections per user
	cleanupInterval = 5 * time.Minute     // Stale stream sweep interval
)

// Event is the wire frame pushed to clients
type Event struct {
	Type         string               `json:"type"` // "notification", "connected"
	Notification *models.Notification `json:"notification,omitempty"`
	Timestamp    time.Time            `json:"timestamp"`
}

// Hub fans stored notifications out to each recipient's open connections.
// Publish never blocks: a client whose send queue is full is dropped.
type Hub struct {
	streamsMu sync.RWMutex
	streams   map[string]map[*Client]bool // user_id -> connections
	stop      chan struct{}
	wg        sync.WaitGroup
}

// Client is one authenticated websocket connection. The send channel is
// closed exactly once, under sendMu, so concurrent publishes can never hit
// a closed channel.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	userID   string
	username string

	sendMu sync.Mutex
	send   chan *Event
	closed bool

	lastActive atomic.Int64 // unix nanos, written by the read pump
}

// trySend queues an event without blocking. Returns false when the queue is
// full or the stream is already closed.
func (c *Client) trySend(event *Event) bool {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- event:
		return true
	default:
		return false
	}
}

// closeSend closes the send channel exactly once
func (c *Client) closeSend() {
	c.sendMu.Lock()
	defer c.sendMu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) touch() {
	c.lastActive.Store(time.Now().UnixNano())
}

func (c *Client) activeAt() time.Time {
	return time.Unix(0, c.lastActive.Load())
}

// NewHub creates the notification hub and starts its sweep routine
func NewHub() *Hub {
	hub := &Hub{
		streams: make(map[string]map[*Client]bool),
		stop:    make(chan struct{}),
	}

	hub.wg.Add(1)
	go hub.sweepStale()

	return hub
}

// Publish pushes a notification to every open connection of the recipient.
// Implements core.NotificationPublisher; a user with no connections is a
// no-op, the database row is the source of truth.
func (h *Hub) Publish(userID string, notification *models.Notification) {
	event := &Event{
		Type:         "notification",
		Notification: notification,
		Timestamp:    time.Now(),
	}

	h.streamsMu.RLock()
	clients := make([]*Client, 0, len(h.streams[userID]))
	for client := range h.streams[userID] {
		clients = append(clients, client)
	}
	h.streamsMu.RUnlock()

	for _, client := range clients {
		if !client.trySend(event) {
			logrus.Warnf("Send queue full, dropping client %s", userID)
			h.unregister(client)
		}
	}
}

// ConnectionCount returns the number of open connections for a user
func (h *Hub) ConnectionCount(userID string) int {
	h.streamsMu.RLock()
	defer h.streamsMu.RUnlock()
	return len(h.streams[userID])
}

// Close stops the hub and disconnects all clients
func (h *Hub) Close() {
	close(h.stop)
	h.wg.Wait()

	h.streamsMu.Lock()
	var clients []*Client
	for _, streams := range h.streams {
		for client := range streams {
			clients = append(clients, client)
		}
	}
	h.streams = make(map[string]map[*Client]bool)
	h.streamsMu.Unlock()

	for _, client := range clients {
		client.closeSend()
	}
}

func (h *Hub) register(client *Client) bool {
	h.streamsMu.Lock()
	defer h.streamsMu.Unlock()

	if len(h.streams[client.userID]) >= maxUserStreams {
		logrus.Warnf("Stream limit reached for user %s, rejecting connection", client.userID)
		return false
	}

	if h.streams[client.userID] == nil {
		h.streams[client.userID] = make(map[*Client]bool)
	}
	h.streams[client.userID][client] = true

	logrus.Debugf("✅ Notification stream opened for %s", client.username)
	return true
}

func (h *Hub) unregister(client *Client) {
	h.streamsMu.Lock()
	clients, ok := h.streams[client.userID]
	if !ok || !clients[client] {
		h.streamsMu.Unlock()
		return
	}
	delete(clients, client)
	if len(clients) == 0 {
		delete(h.streams, client.userID)
	}
	h.streamsMu.Unlock()

	client.closeSend()

	logrus.Debugf("Notification stream closed for %s", client.username)
}

// sweepStale drops connections that stopped answering pings
func (h *Hub) sweepStale() {
	defer h.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			cutoff := time.Now().Add(-2 * pongWait)

			h.streamsMu.RLock()
			var stale []*Client
			for _, clients := range h.streams {
				for client := range clients {
					if client.activeAt().Before(cutoff) {
						stale = append(stale, client)
					}
				}
			}
			h.streamsMu.RUnlock()

			for _, client := range stale {
				logrus.Infof("🧹 Dropping stale stream for user %s", client.userID)
				client.conn.Close()
				h.unregister(client)
			}

		case <-h.stop:
			return
		}
	}
}

// readPump drains the connection. Clients only send pongs; any payload is
// discarded, but a read error tears the stream down.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.touch()
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logrus.Debugf("Unexpected close for user %s: %v", c.userID, err)
			}
			return
		}
		c.touch()
	}
}

// writePump serializes events to the connection and keeps it alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case event, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(event); err != nil {
				logrus.Debugf("Write failed for user %s: %v", c.userID, err)
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
