// Package livereload pushes page change notifications to browsers over a
// websocket, so pages served in watch mode refresh when their implementors
// change.
package livereload

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/net/websocket"
)

// Event is the frame sent to every connected browser.
type Event struct {
	Type  string `json:"type"`
	Trait string `json:"trait,omitempty"`
}

type peer struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func (p *peer) write(ev Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.encoder.Encode(ev)
}

// Hub tracks connected browsers.
type Hub struct {
	logger *slog.Logger

	mu    sync.Mutex
	peers map[*peer]struct{}
}

// NewHub returns an empty hub logging to logger.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{logger: logger, peers: make(map[*peer]struct{})}
}

// Len returns the number of connected browsers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.peers)
}

// Broadcast sends a reload event for trait to every connected browser.
// Browsers that fail to receive it are dropped.
func (h *Hub) Broadcast(trait string) {
	h.mu.Lock()
	peers := make([]*peer, 0, len(h.peers))
	for p := range h.peers {
		peers = append(peers, p)
	}
	h.mu.Unlock()

	ev := Event{Type: "reload", Trait: trait}
	for _, p := range peers {
		if err := p.write(ev); err != nil {
			h.logger.Debug("Dropping live reload peer.", "error", err)
			h.leave(p)
		}
	}
	h.logger.Debug("Live reload broadcast.", "trait", trait, "peers", len(peers))
}

func (h *Hub) join(p *peer) {
	h.mu.Lock()
	h.peers[p] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) leave(p *peer) {
	h.mu.Lock()
	delete(h.peers, p)
	h.mu.Unlock()
}

// Handler returns the websocket endpoint browsers connect to.
func (h *Hub) Handler() http.Handler {
	return websocket.Handler(func(conn *websocket.Conn) {
		defer func() {
			_ = conn.Close()
		}()

		p := &peer{encoder: json.NewEncoder(conn)}
		h.join(p)
		defer h.leave(p)
		h.logger.Debug("Live reload peer connected.", "remote_addr", conn.Request().RemoteAddr)
		if err := p.write(Event{Type: "hello"}); err != nil {
			return
		}

		// Browsers never send anything; block until they go away.
		_, err := io.Copy(io.Discard, conn)
		if err != nil && !errors.Is(err, io.EOF) {
			h.logger.Debug("Live reload peer read failed.", "error", err)
		}
	})
}
