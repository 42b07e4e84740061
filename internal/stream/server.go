package stream

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/san-kum/piblocks/internal/config"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 25 * time.Second
)

// Server exposes a running hub over HTTP: a small JSON API plus a
// websocket feed of state snapshots.
type Server struct {
	hub *Hub
	cfg *config.ServeConfig
}

func NewServer(hub *Hub, cfg *config.ServeConfig) *Server {
	return &Server{hub: hub, cfg: cfg}
}

// Router builds the gin engine with all routes attached.
func (s *Server) Router() *gin.Engine {
	if s.cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	api := r.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.GET("/state", s.handleState)

	r.GET("/ws", s.handleWS)
	return r
}

// ListenAndServe starts the hub loop and serves until the listener fails.
func (s *Server) ListenAndServe() error {
	go s.hub.Run()
	defer s.hub.Stop()

	log.Printf("listening on :%s (ws endpoint: /ws)", s.cfg.Port)
	return s.Router().Run(":" + s.cfg.Port)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "piblocks",
	})
}

func (s *Server) handleState(c *gin.Context) {
	reply := make(chan StateMsg, 1)
	select {
	case s.hub.Inbox <- Query{Reply: reply}:
	case <-time.After(time.Second):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hub busy"})
		return
	}
	select {
	case state := <-reply:
		c.JSON(http.StatusOK, state)
	case <-time.After(time.Second):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "hub busy"})
	}
}

func (s *Server) upgrader() websocket.Upgrader {
	origin := s.cfg.AllowedOrigin
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			return origin == "*" || r.Header.Get("Origin") == origin
		},
	}
}

func (s *Server) handleWS(c *gin.Context) {
	up := s.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("upgrade:", err)
		return
	}

	client := newWSClient(conn)
	s.hub.Inbox <- Join{Conn: client}

	go client.writePump()
	s.readPump(client)
}

// readPump parses client commands until the socket dies, then tells the
// hub to drop the subscriber.
func (s *Server) readPump(client *wsClient) {
	defer func() {
		s.hub.Inbox <- Leave{Conn: client}
	}()

	client.conn.SetReadLimit(1 << 16)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var cmd ClientCommand
		if err := client.conn.ReadJSON(&cmd); err != nil {
			return
		}
		switch cmd.Op {
		case "pause":
			s.hub.Inbox <- Pause{}
		case "resume":
			s.hub.Inbox <- Resume{}
		case "reset":
			s.hub.Inbox <- Reset{}
		case "speed":
			s.hub.Inbox <- SetSpeed{EventsPerTick: cmd.Value}
		}
	}
}

// wsClient adapts a websocket connection to the hub Conn interface. The
// hub never blocks on a slow socket: sends go through a buffered channel
// drained by writePump, and a full buffer counts as a failed send.
type wsClient struct {
	conn *websocket.Conn
	out  chan []byte
	done chan struct{}
}

func newWSClient(conn *websocket.Conn) *wsClient {
	return &wsClient{
		conn: conn,
		out:  make(chan []byte, 16),
		done: make(chan struct{}),
	}
}

func (w *wsClient) Send(b []byte) error {
	select {
	case w.out <- b:
		return nil
	case <-w.done:
		return websocket.ErrCloseSent
	default:
		return websocket.ErrCloseSent
	}
}

func (w *wsClient) Close() error {
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	return w.conn.Close()
}

func (w *wsClient) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case b := <-w.out:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.TextMessage, b); err != nil {
				return
			}
		case <-ticker.C:
			_ = w.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := w.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-w.done:
			return
		}
	}
}
