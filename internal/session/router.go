package session

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// upgradeRateLimit throttles handshake attempts, not in-game traffic;
// established connections are unaffected.
const (
	upgradeRatePerMin = 60
	upgradeBurst      = 30
)

func newUpgrader(allowedOrigins string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigins == "" || allowedOrigins == "*" {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					return true
				}
			}
			return false
		},
	}
}

// SetupRouter builds the Gin engine: the /game websocket endpoint and a
// health probe. allowedOrigins is a comma-separated list; empty or "*"
// allows everything.
func SetupRouter(s *Session, allowedOrigins string) *gin.Engine {
	r := gin.Default()

	upgrader := newUpgrader(allowedOrigins)
	limiter := NewRateLimiter(upgradeRatePerMin, upgradeBurst)

	r.GET("/game", limiter.Middleware(), func(c *gin.Context) {
		if !validUpgradeRequest(c.Request) {
			c.String(http.StatusBadRequest, "bad websocket handshake")
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("Failed to upgrade websocket: %v", err)
			return
		}

		client := newClient(conn)
		go client.writePump()
		s.Register(client)

		go func() {
			defer func() {
				s.Unregister(client)
				conn.Close()
			}()
			for {
				_, data, err := conn.ReadMessage()
				if err != nil {
					if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
						log.Printf("WebSocket error: %v", err)
					}
					return
				}
				s.HandleMessage(data, client)
			}
		}()
	})

	r.GET("/health", func(c *gin.Context) {
		s.mu.Lock()
		clients := len(s.clients)
		active := s.game != nil
		s.mu.Unlock()

		c.JSON(http.StatusOK, gin.H{
			"status":      "operational",
			"game_active": active,
			"clients":     clients,
		})
	})

	return r
}

// validUpgradeRequest checks the handshake headers before handing the
// request to the upgrader, so malformed requests get a clean 400.
func validUpgradeRequest(r *http.Request) bool {
	if !strings.EqualFold(r.Header.Get("Upgrade"), "websocket") {
		return false
	}
	if !headerContainsToken(r.Header.Get("Connection"), "upgrade") {
		return false
	}
	if r.Header.Get("Sec-WebSocket-Key") == "" {
		return false
	}
	return r.Header.Get("Sec-WebSocket-Version") == "13"
}

func headerContainsToken(header, token string) bool {
	for _, part := range strings.Split(header, ",") {
		if strings.EqualFold(strings.TrimSpace(part), token) {
			return true
		}
	}
	return false
}
