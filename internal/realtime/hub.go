package realtime

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/domain/design"
)

// Event is one message pushed to gallery clients. Every event carries
// the complete catalog state; clients replace, never merge.
type Event struct {
	Type    string           `json:"type"`
	Designs []*design.Design `json:"designs"`
	Likes   map[int64]int64  `json:"likes"`
}

const eventCatalogSnapshot = "catalog_snapshot"

// Connection represents one connected gallery client
type Connection struct {
	Conn *websocket.Conn
	Send chan []byte
}

// SnapshotSource supplies the current catalog state for new clients
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*design.Snapshot, error)
}

// Hub fans catalog snapshots out to connected clients. It holds one
// subscription against the catalog watcher regardless of how many
// clients are attached.
type Hub struct {
	watcher     *design.Watcher
	source      SnapshotSource
	connections map[*Connection]bool
	mu          sync.RWMutex

	register   chan *Connection
	unregister chan *Connection

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
}

// NewHub creates a catalog fan-out hub
func NewHub(watcher *design.Watcher, source SnapshotSource) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		watcher:     watcher,
		source:      source,
		connections: make(map[*Connection]bool),
		register:    make(chan *Connection),
		unregister:  make(chan *Connection),
		ctx:         ctx,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
}

// Run processes connection churn and snapshot fan-out until Shutdown
func (h *Hub) Run() {
	defer close(h.done)

	snapshots, unsubscribe, err := h.watcher.Subscribe(h.ctx)
	if err != nil {
		// Clients can still connect; they get the initial snapshot
		// and simply miss live updates
		log.Error().Err(err).Msg("Catalog subscription unavailable; live updates disabled")
		snapshots = nil
	} else {
		defer unsubscribe()
	}

	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.connections[conn] = true
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.connections[conn] {
				delete(h.connections, conn)
				close(conn.Send)
			}
			h.mu.Unlock()

		case snap, ok := <-snapshots:
			if !ok {
				snapshots = nil
				continue
			}
			h.broadcast(snap)

		case <-h.ctx.Done():
			h.mu.Lock()
			for conn := range h.connections {
				close(conn.Send)
				delete(h.connections, conn)
			}
			h.mu.Unlock()
			return
		}
	}
}

// broadcast pushes one snapshot to every connection, dropping it for
// clients whose send buffer is full; the next snapshot catches them up.
func (h *Hub) broadcast(snap *design.Snapshot) {
	data, err := json.Marshal(&Event{
		Type:    eventCatalogSnapshot,
		Designs: snap.Designs,
		Likes:   snap.Likes,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal catalog event")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.connections {
		select {
		case conn.Send <- data:
		default:
			log.Warn().Msg("WebSocket send buffer full; snapshot dropped")
		}
	}
}

// Register attaches a connection and queues the current snapshot so
// the client renders without waiting for the next mutation.
func (h *Hub) Register(conn *Connection) {
	select {
	case h.register <- conn:
	case <-h.ctx.Done():
		close(conn.Send)
		return
	}

	snap, err := h.source.Snapshot(context.Background())
	if err != nil {
		log.Warn().Err(err).Msg("Initial snapshot unavailable for new client")
		return
	}
	h.broadcastTo(conn, snap)
}

func (h *Hub) broadcastTo(conn *Connection, snap *design.Snapshot) {
	data, err := json.Marshal(&Event{
		Type:    eventCatalogSnapshot,
		Designs: snap.Designs,
		Likes:   snap.Likes,
	})
	if err != nil {
		return
	}
	select {
	case conn.Send <- data:
	default:
	}
}

// Unregister detaches a connection
func (h *Hub) Unregister(conn *Connection) {
	select {
	case h.unregister <- conn:
	case <-h.ctx.Done():
	}
}

// ConnectionCount reports attached clients
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections)
}

// Shutdown tears the hub down and waits for Run to drain
func (h *Hub) Shutdown() {
	h.cancel()
	<-h.done
}
