package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"docqa-backend/internal/shared/telemetry"
)

const (
	natsConnectTimeout = 2 * time.Second
	natsReconnectWait  = 2 * time.Second
	natsMaxReconnects  = 60
	natsDrainFlush     = 5 * time.Second
)

// NATSClient sends queue messages to a NATS subject.
type NATSClient struct {
	conn    *nats.Conn
	subject string
}

// NewNATSClient connects to a NATS server. The connection keeps retrying
// in the background when the server is unavailable.
func NewNATSClient(url, subject string) (*NATSClient, error) {
	if url == "" {
		return nil, fmt.Errorf("nats url is required")
	}
	if subject == "" {
		return nil, fmt.Errorf("nats subject is required")
	}

	conn, err := nats.Connect(
		url,
		nats.Name("docqa-backend"),
		nats.Timeout(natsConnectTimeout),
		nats.ReconnectWait(natsReconnectWait),
		nats.MaxReconnects(natsMaxReconnects),
		nats.RetryOnFailedConnect(true),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			fields := map[string]any{}
			if err != nil {
				fields["error"] = err.Error()
			}
			telemetry.Error("nats.disconnected", fields)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			telemetry.Info("nats.reconnected", map[string]any{"url": nc.ConnectedUrl()})
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	return &NATSClient{conn: conn, subject: subject}, nil
}

// Send publishes a message to the configured subject.
func (c *NATSClient) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := EncodeMessage(msg)
	if err != nil {
		return fmt.Errorf("encode nats message: %w", err)
	}
	if err := c.conn.Publish(c.subject, payload); err != nil {
		return fmt.Errorf("nats publish: %w", err)
	}
	return nil
}

// Subscribe consumes messages from the configured subject in the
// "workers" queue group until ctx is canceled, then drains.
func (c *NATSClient) Subscribe(ctx context.Context, handler func(context.Context, Message)) error {
	sub, err := c.conn.QueueSubscribe(c.subject, "workers", func(m *nats.Msg) {
		if ctx.Err() != nil {
			return
		}
		msg, err := DecodeMessage(m.Data)
		if err != nil {
			telemetry.Error("nats.decode_failed", map[string]any{"error": err.Error()})
			return
		}
		handler(ctx, msg)
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := c.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := c.conn.FlushTimeout(natsDrainFlush); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (c *NATSClient) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}

var _ Client = (*NATSClient)(nil)
