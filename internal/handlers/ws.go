package handlers

import (
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glory-summit/summit/internal/types"
	"github.com/gorilla/websocket"
)

var (
	chatClients   = make(map[*websocket.Conn]bool)
	chatClientsMu sync.RWMutex
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// BroadcastRefresh nudges every connected client to refetch the message
// list. The payload carries no message data: the HTTP list endpoint stays
// the single ordering authority.
func BroadcastRefresh() {
	chatClientsMu.RLock()
	if len(chatClients) == 0 {
		chatClientsMu.RUnlock()
		return
	}

	clientsCopy := make([]*websocket.Conn, 0, len(chatClients))
	for conn := range chatClients {
		clientsCopy = append(clientsCopy, conn)
	}
	chatClientsMu.RUnlock()

	for _, conn := range clientsCopy {
		if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("Failed to set write deadline for broadcast: %v", err)
			continue
		}

		err := conn.WriteJSON(map[string]string{
			"type":    "refresh",
			"message": "Group chat updated",
		})

		if err != nil {
			log.Printf("Failed to broadcast refresh to client: %v", err)
			chatClientsMu.Lock()
			delete(chatClients, conn)
			chatClientsMu.Unlock()
			conn.Close()
		}
	}
}

func WebSocket(c *gin.Context) {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			for _, allowed := range types.AllowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Printf("Failed to set initial read deadline: %v", err)
		return
	}
	conn.SetPongHandler(func(string) error {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline in pong handler: %v", err)
		}
		return nil
	})

	chatClientsMu.Lock()
	chatClients[conn] = true
	chatClientsMu.Unlock()

	defer func() {
		chatClientsMu.Lock()
		delete(chatClients, conn)
		chatClientsMu.Unlock()
		conn.Close()

		log.Println("WebSocket connection closed")
	}()

	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		log.Printf("Failed to set write deadline for welcome message: %v", err)
		return
	}

	err = conn.WriteJSON(map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	})

	if err != nil {
		log.Printf("Failed to send welcome message: %v", err)
		return
	}

	ticker := time.NewTicker(pingPeriod)
	pingDone := make(chan struct{})

	defer func() {
		ticker.Stop()
		close(pingDone)
	}()

	go func() {
		// Send pings periodically until the read loop tears the
		// connection down. A stopped ticker never fires, so the done
		// channel is the exit path.
		for {
			select {
			case <-pingDone:
				return
			case <-ticker.C:
				if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Printf("Failed to set write deadline: %v", err)
					return
				}
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					log.Printf("Ping failed: %v", err)
					return
				}
			}
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			log.Printf("Failed to set read deadline: %v", err)
			break
		}

		messageType, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		switch messageType {
		case websocket.TextMessage:
			log.Printf("Received message from chat client: %s", string(message))
		case websocket.PongMessage:
			log.Println("Received pong from chat client")
		}
	}
}
