package websocket

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/nfrund/gridsky/internal/agent"
)

const writeWait = 10 * time.Second

// Client is one event socket attached to a page.
type Client struct {
	PageID string
	conn   *websocket.Conn
	send   chan agent.Snapshot
	logger *slog.Logger
}

func newClient(pageID string, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		PageID: pageID,
		conn:   conn,
		send:   make(chan agent.Snapshot, 16),
		logger: logger.With("page_id", pageID),
	}
}

// Offer queues a snapshot for delivery. It never blocks.
func (c *Client) Offer(snap agent.Snapshot) {
	select {
	case c.send <- snap:
	default:
		c.logger.Warn("Client send channel full, dropping snapshot", "version", snap.Version)
	}
}

// writePump writes queued snapshots in version order until a terminal one
// has been delivered or ctx ends. It reports whether a terminal snapshot
// was written.
func (c *Client) writePump(ctx context.Context) bool {
	var sent uint64
	for {
		select {
		case <-ctx.Done():
			return false
		case snap := <-c.send:
			if snap.Version <= sent {
				continue
			}
			if err := c.write(ctx, snap); err != nil {
				c.logger.Error("WebSocket write error", "error", err)
				return false
			}
			sent = snap.Version
			if terminal(snap) {
				return true
			}
		}
	}
}

func (c *Client) write(ctx context.Context, snap agent.Snapshot) error {
	payload, err := encode(messageFor(snap))
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, payload)
}
