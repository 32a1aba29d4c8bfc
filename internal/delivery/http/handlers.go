package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/mahendraputra/bisik/internal/config"
	"github.com/mahendraputra/bisik/internal/delivery/ws"
)

// isOriginAllowed checks if the origin is in the allowed list
func isOriginAllowed(origin string) bool {
	// Empty origin is allowed (same-origin requests)
	if origin == "" {
		return true
	}

	for _, allowed := range config.AppConfig.AllowedOrigins {
		if allowed == "*" || origin == allowed {
			return true
		}
	}
	return false
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return isOriginAllowed(r.Header.Get("Origin"))
	},
}

// Handler routes HTTP requests into the chat hub
type Handler struct {
	hub *ws.Hub
}

// NewHandler creates a Handler over the given hub
func NewHandler(hub *ws.Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleHealth reports service liveness and current presence count
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": "ok",
		"online": len(h.hub.Service().ListOnline()),
	})
}

// HandleWebSocket upgrades the connection and starts the client pumps.
// The client is anonymous until it sends a join request.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	client := ws.NewClient(h.hub, conn)

	go client.WritePump()
	go client.ReadPump()
}
