package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/pthm-cable/stablefluids/config"
	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/telemetry"
)

const writeWait = 2 * time.Second

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex // serializes writes
}

// Hub fans frames out to websocket clients and queues their force events
// for the simulation loop. Broadcast and Drain are called from the loop;
// connection handlers run on the HTTP server's goroutines.
type Hub struct {
	cfg      config.StreamConfig
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}

	forces  chan fluid.Force
	reset   atomic.Bool
	dropped atomic.Int64

	ln  net.Listener
	srv *http.Server

	frame Frame // reused between broadcasts
}

// NewHub creates a hub. It does not listen until Start.
func NewHub(cfg config.StreamConfig) *Hub {
	if cfg.Interval < 1 {
		cfg.Interval = 1
	}
	if cfg.Queue < 1 {
		cfg.Queue = 1
	}
	return &Hub{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
		forces:  make(chan fluid.Force, cfg.Queue),
	}
}

// Start listens on the configured address and serves /ws until ctx ends.
func (h *Hub) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", h.cfg.Addr)
	if err != nil {
		return fmt.Errorf("stream: listen %s: %w", h.cfg.Addr, err)
	}
	h.ln = ln

	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	h.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := h.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("stream server stopped", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		h.shutdown()
	}()

	slog.Info("stream listening", "addr", ln.Addr().String(), "interval", h.cfg.Interval)
	return nil
}

// Addr returns the bound listen address, or "" before Start.
func (h *Hub) Addr() string {
	if h.ln == nil {
		return ""
	}
	return h.ln.Addr().String()
}

func (h *Hub) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), writeWait)
	defer cancel()
	if err := h.srv.Shutdown(ctx); err != nil {
		slog.Warn("stream shutdown", "error", err)
	}

	// Hijacked connections are not closed by Shutdown
	h.mu.Lock()
	for c := range h.clients {
		c.conn.Close()
		delete(h.clients, c)
	}
	h.mu.Unlock()
}

// ServeHTTP upgrades the request and reads client commands until the
// connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("websocket upgrade", "error", err)
		return
	}
	c := &client{conn: conn}

	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	slog.Debug("stream client connected", "remote", r.RemoteAddr)

	defer func() {
		h.mu.Lock()
		delete(h.clients, c)
		h.mu.Unlock()
		conn.Close()
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read", "error", err)
			}
			return
		}
		cmd, err := DecodeCommand(data)
		if err != nil {
			slog.Debug("ignoring message", "error", err)
			continue
		}
		h.handle(cmd)
	}
}

func (h *Hub) handle(cmd Command) {
	switch cmd.Type {
	case TypeForce:
		select {
		case h.forces <- cmd.Force:
		default:
			h.dropped.Add(1)
		}
	case TypeReset:
		h.reset.Store(true)
	}
}

// Drain appends every queued force to dst without blocking.
func (h *Hub) Drain(dst []fluid.Force) []fluid.Force {
	for {
		select {
		case f := <-h.forces:
			dst = append(dst, f)
		default:
			return dst
		}
	}
}

// TakeReset reports and clears a pending reset request.
func (h *Hub) TakeReset() bool {
	return h.reset.Swap(false)
}

// Dropped returns the number of force events lost to a full queue.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ShouldBroadcast reports whether tick is a broadcast tick.
func (h *Hub) ShouldBroadcast(tick int) bool {
	return tick%h.cfg.Interval == 0
}

// Broadcast sends one frame to every client. Clients whose write fails are
// dropped.
func (h *Hub) Broadcast(snap fluid.Snapshot, stats telemetry.StepStats) {
	h.mu.RLock()
	n := len(h.clients)
	h.mu.RUnlock()
	if n == 0 {
		return
	}

	h.frame.Type = TypeFrame
	h.frame.Tick = snap.Tick
	h.frame.Dim = snap.Field.Dim
	h.frame.Stats = stats
	h.frame.Particles = Subsample(h.frame.Particles[:0], snap.Particles, h.cfg.MaxParticles)

	data, err := json.Marshal(&h.frame)
	if err != nil {
		slog.Warn("encoding frame", "tick", snap.Tick, "error", err)
		return
	}

	var failed []*client
	h.mu.RLock()
	for c := range h.clients {
		c.mu.Lock()
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := c.conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			slog.Debug("websocket write", "error", err)
			failed = append(failed, c)
		}
	}
	h.mu.RUnlock()

	if len(failed) > 0 {
		h.mu.Lock()
		for _, c := range failed {
			c.conn.Close()
			delete(h.clients, c)
		}
		h.mu.Unlock()
	}
}
