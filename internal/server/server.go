package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/feltworks/casino/internal/poker"
)

// Server hosts the room over WebSocket
type Server struct {
	cfg         *Config
	upgrader    websocket.Upgrader
	connections map[*Connection]bool
	register    chan *Connection
	unregister  chan *Connection
	logger      *log.Logger
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	room        *Room
}

// NewServer creates a WebSocket server around a single room
func NewServer(cfg *Config, logger *log.Logger, rng *rand.Rand, opts ...poker.SessionOption) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// For development, allow all origins
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		logger:      logger.WithPrefix("server"),
		ctx:         ctx,
		cancel:      cancel,
	}

	room, err := NewRoom(cfg, logger, rng, s, opts...)
	if err != nil {
		cancel()
		return nil, err
	}
	s.room = room
	go s.run()
	return s, nil
}

// Room returns the server's single room.
func (s *Server) Room() *Room { return s.room }

// Handler returns the HTTP handler serving /ws and /health.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start starts the WebSocket server
func (s *Server) Start() error {
	addr := s.cfg.Address()
	s.logger.Info("Starting WebSocket server", "addr", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// Stop stops the WebSocket server
func (s *Server) Stop() error {
	s.cancel()
	s.room.Close()

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	return nil
}

// run handles connection lifecycle
func (s *Server) run() {
	for {
		select {
		case conn := <-s.register:
			s.mu.Lock()
			s.connections[conn] = true
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client connected", "total", total)

		case conn := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.connections[conn]; ok {
				delete(s.connections, conn)
				s.room.Leave(conn)
				_ = conn.Close()
			}
			total := len(s.connections)
			s.mu.Unlock()
			s.logger.Info("Client disconnected", "total", total)

		case <-s.ctx.Done():
			return
		}
	}
}

// handleWebSocket handles WebSocket upgrade requests
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, s.logger, s.room)
	s.register <- client
	client.Start()

	go func() {
		<-client.Done()
		select {
		case s.unregister <- client:
		case <-s.ctx.Done():
		}
	}()
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "OK")
}

// Broadcast sends a message to every connected client
func (s *Server) Broadcast(msg *Message) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for conn := range s.connections {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Failed to broadcast", "error", err)
		}
	}
}
