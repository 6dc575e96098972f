package demo

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/blogseo/blogseo/internal/optimizer"
	"github.com/blogseo/blogseo/internal/server"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsRequest is the incoming WebSocket message format.
type wsRequest struct {
	Type string `json:"type"` // "optimize"
	optimizer.Request
}

// wsResponse is the outgoing WebSocket message format.
type wsResponse struct {
	Type   string    `json:"type"` // "status", "result" or "error"
	Status string    `json:"status,omitempty"`
	Result *Response `json:"result,omitempty"`
	Error  string    `json:"error,omitempty"`
}

func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientID := server.ClientID(r)

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("demo: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	// The HTTP request deadline does not apply to a long-lived socket.
	ctx := optimizer.WithClientID(context.WithoutCancel(r.Context()), clientID)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("demo: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			send(conn, wsResponse{Type: "error", Error: "invalid message format"})
			continue
		}
		if req.Type != "optimize" {
			send(conn, wsResponse{Type: "error", Error: "unknown message type: " + req.Type})
			continue
		}
		if err := req.Validate(); err != nil {
			send(conn, wsResponse{Type: "error", Error: optimizer.ValidationNotice})
			continue
		}

		h.optimizeOverSocket(ctx, conn, clientID, req.Request)
	}
}

func (h *Handler) optimizeOverSocket(ctx context.Context, conn *websocket.Conn, clientID string, req optimizer.Request) {
	if !h.acquire(clientID) {
		send(conn, wsResponse{Type: "error", Error: BusyNotice})
		return
	}
	defer h.release(clientID)

	send(conn, wsResponse{Type: "status", Status: "optimizing"})
	resp := newResponse(h.svc.Optimize(ctx, req))
	send(conn, wsResponse{Type: "result", Result: &resp})
}

func send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("demo: websocket write: %v", err)
	}
}
