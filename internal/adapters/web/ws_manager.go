package web

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Gennadyy7/rssi-analyzer/internal/core/domain"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/ports"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/analysis"
	"github.com/Gennadyy7/rssi-analyzer/internal/core/services/syncengine"
	"github.com/Gennadyy7/rssi-analyzer/internal/telemetry"
)

// DefaultAllowedOrigins are accepted when no origin list is configured.
var DefaultAllowedOrigins = []string{
	"http://localhost:8080",
	"http://127.0.0.1:8080",
	"http://[::1]:8080",
}

type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// WSManager streams the engine's publications to WebSocket clients.
type WSManager struct {
	Source   ports.StateSource
	Settings *domain.SettingsStore
	Clients  map[*websocket.Conn]string
	mu       sync.Mutex
	upgrader websocket.Upgrader
}

func NewWSManager(source ports.StateSource, settings *domain.SettingsStore, allowedOrigins []string) *WSManager {
	if len(allowedOrigins) == 0 {
		allowedOrigins = DefaultAllowedOrigins
	}
	m := &WSManager{
		Source:   source,
		Settings: settings,
		Clients:  make(map[*websocket.Conn]string),
	}
	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")

			// Allow same-origin (no Origin header)
			if origin == "" {
				return true
			}
			if slices.Contains(allowedOrigins, origin) {
				return true
			}

			log.Printf("WebSocket: Rejected origin: %s", origin)
			return false
		},
	}
	return m
}

// Start follows the source in the background until ctx is done.
func (m *WSManager) Start(ctx context.Context) {
	go func() {
		if err := m.Run(ctx); err != nil {
			log.Printf("WebSocket stream stopped: %v", err)
		}
	}()
}

// Run broadcasts every observed publication. It returns nil when ctx is done.
func (m *WSManager) Run(ctx context.Context) error {
	defer m.closeAll()
	return syncengine.Follow(ctx, m.Source, func(v domain.StateView) error {
		m.broadcastRound(v)
		return nil
	})
}

func (m *WSManager) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("Upgrade error:", err)
		return
	}

	id := uuid.NewString()

	// The first frame is the current state so clients do not wait a round.
	data, err := m.roundMessage(m.Source.Latest())
	if err == nil {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		err = conn.WriteMessage(websocket.TextMessage, data)
	}
	if err != nil {
		conn.Close()
		return
	}

	m.mu.Lock()
	m.Clients[conn] = id
	telemetry.StreamClients.WithLabelValues("ws").Set(float64(len(m.Clients)))
	m.mu.Unlock()

	log.Printf("WebSocket connected: client=%s remote=%s", id, r.RemoteAddr)

	// Clean up on disconnect
	go func() {
		defer m.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
	}()
}

// ClientCount returns the number of connected stream clients.
func (m *WSManager) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Clients)
}

func (m *WSManager) remove(conn *websocket.Conn) {
	m.mu.Lock()
	id, ok := m.Clients[conn]
	delete(m.Clients, conn)
	telemetry.StreamClients.WithLabelValues("ws").Set(float64(len(m.Clients)))
	m.mu.Unlock()

	conn.Close()
	if ok {
		log.Printf("WebSocket disconnected: client=%s", id)
	}
}

func (m *WSManager) closeAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.Clients {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
		delete(m.Clients, conn)
	}
	telemetry.StreamClients.WithLabelValues("ws").Set(0)
}

func (m *WSManager) roundMessage(v domain.StateView) ([]byte, error) {
	return json.Marshal(WSMessage{
		Type:    "round",
		Payload: analysis.Summarize(v, m.Settings.Get()),
	})
}

func (m *WSManager) broadcastRound(v domain.StateView) {
	data, err := m.roundMessage(v)
	if err != nil {
		log.Println("JSON marshal error:", err)
		return
	}
	m.broadcastMessage(data)
}

func (m *WSManager) broadcastMessage(data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for conn := range m.Clients {
		conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(m.Clients, conn)
		}
	}
	telemetry.StreamClients.WithLabelValues("ws").Set(float64(len(m.Clients)))
}
