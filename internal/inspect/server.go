// Package inspect is a debug-only WebSocket server that streams periodic
// JSON snapshots of a running engine. It is a development aid; nothing in
// the engine depends on it.
package inspect

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/VeerOneGPT/galileo-motion/internal/core/animation"
	"github.com/VeerOneGPT/galileo-motion/internal/core/observability/log"
	"github.com/VeerOneGPT/galileo-motion/internal/core/physics"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Debug tooling: any origin may connect.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Snapshot is one frame of engine state pushed to every connected client.
type Snapshot struct {
	Time       time.Time                      `json:"time"`
	Bodies     []physics.BodyState            `json:"bodies"`
	Transforms map[string]animation.Transform `json:"transforms,omitempty"`
}

// SnapshotFunc captures the current engine state. It is called on the
// broadcast goroutine, so it must do its own synchronization with the
// simulation loop.
type SnapshotFunc func() Snapshot

// Server streams snapshots at a fixed interval to every client connected to
// /ws.
type Server struct {
	addr     string
	interval time.Duration
	snapshot SnapshotFunc
	logger   log.Log

	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewServer creates an inspector bound to addr, snapshotting every interval.
func NewServer(addr string, interval time.Duration, snapshot SnapshotFunc, logger log.Log) *Server {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if logger == nil {
		logger = log.Nop()
	}
	return &Server{
		addr:     addr,
		interval: interval,
		snapshot: snapshot,
		logger:   logger.With(log.String("component", "inspect.server")),
		clients:  make(map[*websocket.Conn]struct{}),
	}
}

// Run serves until the context is cancelled, then shuts down gracefully and
// closes every client connection.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)

	srv := &http.Server{
		Addr:    s.addr,
		Handler: mux,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("inspector listening", log.String("addr", s.addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.broadcastLoop(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := srv.Shutdown(shutdownCtx)
		s.closeAll()
		return err
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// ClientCount reports how many inspectors are attached.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", log.Err(err))
		return
	}
	s.logger.Info("inspector client connected", log.String("remote", conn.RemoteAddr().String()))

	s.mu.Lock()
	s.clients[conn] = struct{}{}
	s.mu.Unlock()

	// Inbound traffic is ignored; the read loop only detects disconnects.
	go func() {
		defer s.drop(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.broadcast(s.snapshot())
		}
	}
}

func (s *Server) broadcast(snap Snapshot) {
	s.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(s.clients))
	for c := range s.clients {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.SetWriteDeadline(time.Now().Add(time.Second))
		if err := c.WriteJSON(snap); err != nil {
			s.logger.Debug("dropping slow inspector client", log.Err(err))
			s.drop(c)
		}
	}
}

func (s *Server) drop(conn *websocket.Conn) {
	s.mu.Lock()
	_, known := s.clients[conn]
	delete(s.clients, conn)
	s.mu.Unlock()
	if known {
		_ = conn.Close()
	}
}

func (s *Server) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		_ = c.Close()
	}
	s.clients = make(map[*websocket.Conn]struct{})
}
