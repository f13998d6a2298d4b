package server

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageType is the type of a notification.
type MessageType string

const (
	MessageReload MessageType = "reload"
	MessageError  MessageType = "error"
)

// Message is sent to WebSocket clients.
type Message struct {
	Type        MessageType `json:"type"`
	Fingerprint string      `json:"fingerprint,omitempty"`
	Generation  int64       `json:"generation,omitempty"`
	Entries     int         `json:"entries,omitempty"`
	Error       string      `json:"error,omitempty"`
}

// Notifier manages WebSocket connections that follow table reloads.
type Notifier struct {
	clients      map[*websocket.Conn]bool
	mu           sync.RWMutex
	writeMu      sync.Mutex
	writeTimeout time.Duration
	upgrader     websocket.Upgrader
}

// NewNotifier creates a notifier. checkOrigin validates the upgrade origin;
// writeTimeout bounds each send, and a client that misses it is dropped.
func NewNotifier(checkOrigin func(r *http.Request) bool, writeTimeout time.Duration) *Notifier {
	if writeTimeout <= 0 {
		writeTimeout = 10 * time.Second
	}
	return &Notifier{
		clients:      make(map[*websocket.Conn]bool),
		writeTimeout: writeTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
	}
}

// HandleWebSocket upgrades the connection and holds it until the client
// disconnects.
func (n *Notifier) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := n.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	n.mu.Lock()
	n.clients[conn] = true
	n.mu.Unlock()

	// Clients never send; reading detects the disconnect.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	n.remove(conn)
}

// NotifyReload tells every client that a new table is in service.
func (n *Notifier) NotifyReload(fingerprint string, generation int64, entries int) {
	n.broadcast(Message{
		Type:        MessageReload,
		Fingerprint: fingerprint,
		Generation:  generation,
		Entries:     entries,
	})
}

// NotifyError tells every client that a reload failed.
func (n *Notifier) NotifyError(errMsg string) {
	n.broadcast(Message{Type: MessageError, Error: errMsg})
}

func (n *Notifier) broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	n.mu.RLock()
	clients := make([]*websocket.Conn, 0, len(n.clients))
	for client := range n.clients {
		clients = append(clients, client)
	}
	n.mu.RUnlock()

	// gorilla/websocket allows one concurrent writer per connection.
	n.writeMu.Lock()
	defer n.writeMu.Unlock()

	deadline := time.Now().Add(n.writeTimeout)
	var wg sync.WaitGroup
	for _, client := range clients {
		wg.Add(1)
		go func(client *websocket.Conn) {
			defer wg.Done()
			if err := n.send(client, data, deadline); err != nil {
				n.remove(client)
			}
		}(client)
	}
	wg.Wait()
}

func (n *Notifier) send(conn *websocket.Conn, data []byte, deadline time.Time) error {
	if err := conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, data)
}

func (n *Notifier) remove(conn *websocket.Conn) {
	n.mu.Lock()
	delete(n.clients, conn)
	n.mu.Unlock()
	conn.Close()
}

// ClientCount returns the number of connected clients.
func (n *Notifier) ClientCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

// Close closes all client connections.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()

	for client := range n.clients {
		client.Close()
		delete(n.clients, client)
	}
}
