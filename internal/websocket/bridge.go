// Package websocket pushes provider state changes to the page that owns
// them, so views waiting for the client handle can load.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/gridsky/internal/agent"
	"github.com/nfrund/gridsky/internal/middleware"
	"github.com/nfrund/gridsky/internal/pubsub"
)

// PageLookup finds the live page a socket belongs to.
type PageLookup interface {
	Get(pageID, browserID string) (*agent.Page, error)
}

// Bridge forwards page state events from the bus to connected sockets.
type Bridge struct {
	pages  PageLookup
	sub    pubsub.Subscriber
	logger *slog.Logger

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewBridge creates a Bridge.
func NewBridge(pages PageLookup, sub pubsub.Subscriber) *Bridge {
	return &Bridge{
		pages:   pages,
		sub:     sub,
		logger:  slog.Default().With("component", "websocket"),
		clients: make(map[*Client]struct{}),
	}
}

// Handler upgrades GET /pages/:page/events.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		page, err := b.pages.Get(c.Param("page"), middleware.BrowserID(c))
		if err != nil {
			return echo.NewHTTPError(http.StatusNotFound, "page not found")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), nil)
		if err != nil {
			// Accept has already written the response.
			b.logger.Error("Failed to upgrade connection to WebSocket", "page_id", page.ID, "error", err)
			return nil
		}

		b.serve(c.Request().Context(), page, conn)
		return nil
	}
}

func (b *Bridge) serve(ctx context.Context, page *agent.Page, conn *websocket.Conn) {
	// The browser never sends data; CloseRead handles control frames and
	// cancels ctx when the peer goes away.
	ctx = conn.CloseRead(ctx)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	client := newClient(page.ID, conn, b.logger)
	b.register(client)
	defer b.unregister(client)

	err := b.sub.Subscribe(ctx, agent.StateEvent.Name(), func(_ context.Context, msg pubsub.Message) error {
		if msg.PageID != page.ID {
			return nil
		}
		snap, err := pubsub.Decode(agent.StateEvent, msg)
		if err != nil {
			return err
		}
		client.Offer(snap)
		return nil
	})
	if err != nil {
		b.logger.Error("Failed to subscribe to page state", "page_id", page.ID, "error", err)
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return
	}

	// Subscribed first, so a transition racing this read is still delivered.
	client.Offer(page.Provider.Snapshot())

	if client.writePump(ctx) {
		conn.Close(websocket.StatusNormalClosure, "")
		return
	}
	conn.CloseNow()
}

func (b *Bridge) register(c *Client) {
	b.mu.Lock()
	b.clients[c] = struct{}{}
	b.mu.Unlock()
	b.logger.Debug("Client registered", "page_id", c.PageID)
}

func (b *Bridge) unregister(c *Client) {
	b.mu.Lock()
	delete(b.clients, c)
	b.mu.Unlock()
	b.logger.Debug("Client unregistered", "page_id", c.PageID)
}

// Len returns the number of connected sockets.
func (b *Bridge) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}

// Shutdown closes every open socket.
func (b *Bridge) Shutdown() {
	b.mu.Lock()
	clients := make([]*Client, 0, len(b.clients))
	for c := range b.clients {
		clients = append(clients, c)
	}
	b.mu.Unlock()

	for _, c := range clients {
		c.conn.Close(websocket.StatusGoingAway, "server shutting down")
	}
}
