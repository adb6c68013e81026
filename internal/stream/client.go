package stream

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Hortyhort/moonsim/internal/metrics"
)

// writeTimeout bounds each individual SSE write; the connection itself has
// no deadline (the server's WriteTimeout is cleared for streams).
const writeTimeout = 30 * time.Second

// client manages a single SSE connection's write side. All writes funnel
// through push, which owns deadline handling, flushing, and byte accounting.
type client struct {
	w       http.ResponseWriter
	flusher http.Flusher
	rc      *http.ResponseController
	ip      string
	logger  *slog.Logger

	messagesSent int64
	bytesSent    int64
}

// push writes one complete SSE payload and flushes it to the client.
func (c *client) push(payload []byte) error {
	if err := c.rc.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		c.logger.Debug("could not set write deadline", "error", err)
	}

	n, err := c.w.Write(payload)
	c.bytesSent += int64(n)
	metrics.AddStreamBytes(int64(n))
	if err != nil {
		return err
	}

	c.flusher.Flush()
	return nil
}

// sendJSON marshals v and sends it as one SSE data message
// ("data: {json}\n\n").
func (c *client) sendJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("json marshal: %w", err)
	}

	payload := make([]byte, 0, len(data)+8)
	payload = append(payload, "data: "...)
	payload = append(payload, data...)
	payload = append(payload, "\n\n"...)

	if err := c.push(payload); err != nil {
		return fmt.Errorf("write: %w", err)
	}

	c.messagesSent++
	metrics.IncStreamMessages()
	return nil
}

// sendKeepalive sends an SSE comment line (":\n\n") so idle connections
// survive proxies and client timeouts.
func (c *client) sendKeepalive() error {
	if err := c.push([]byte(":\n\n")); err != nil {
		return fmt.Errorf("keepalive write: %w", err)
	}
	return nil
}
