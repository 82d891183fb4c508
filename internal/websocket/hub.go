package websocket

import (
	"encoding/json"
	"sync"

	"ai-papergen-be/internal/dto"
	"ai-papergen-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Hub fans ingestion progress out to WebSocket subscribers. Clients
// subscribe per document, multiple tabs watching the same upload each
// get their own connection.
type Hub struct {
	// DocumentID -> connected clients
	clients map[uuid.UUID][]*Client

	// Register requests from the clients.
	register chan *Client

	// Unregister requests from clients.
	unregister chan *Client

	mu sync.RWMutex

	logger logger.ILogger
}

func NewHub(log logger.ILogger) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[uuid.UUID][]*Client),
		logger:     log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.DocumentID] = append(h.clients[client.DocumentID], client)
			h.mu.Unlock()
			h.logger.Info("Hub", "Client registered", map[string]interface{}{"document_id": client.DocumentID})

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.DocumentID]; ok {
				for i, c := range clients {
					if c == client {
						h.clients[client.DocumentID] = append(clients[:i], clients[i+1:]...)
						close(client.Send)
						break
					}
				}
				if len(h.clients[client.DocumentID]) == 0 {
					delete(h.clients, client.DocumentID)
				}
			}
			h.mu.Unlock()
		}
	}
}

// BroadcastProgress pushes one progress update to everyone watching
// the document. Slow clients are dropped rather than blocking the
// ingestion consumer.
func (h *Hub) BroadcastProgress(progress dto.IngestProgressMessage) {
	data, _ := json.Marshal(map[string]interface{}{
		"type": "ingest_progress",
		"data": progress,
	})

	h.mu.RLock()
	clients := h.clients[progress.DocumentId]
	h.mu.RUnlock()

	for _, client := range clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{
				"document_id": progress.DocumentId,
			})
			go func(c *Client) { h.unregister <- c }(client)
		}
	}
}
