package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

const natsKeyHeader = "Kanbaniq-Key"

type NATSPublisher struct {
	conn    *nats.Conn
	subject string
}

func ConnectNATS(url, name string, logger *zap.Logger) (*nats.Conn, error) {
	sugar := logger.Sugar()
	nc, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				sugar.Warnw("NATS disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			sugar.Infow("NATS reconnected", "url", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return nc, nil
}

func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{conn: conn, subject: subject}
}

func (p *NATSPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	msg := nats.NewMsg(p.subject)
	msg.Header.Set(natsKeyHeader, key)
	msg.Data = payload
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("nats publish to %s: %w", p.subject, err)
	}
	return nil
}

func (p *NATSPublisher) Close() error {
	return p.conn.Flush()
}

// NATSConsumer joins a queue group so several workers share the subject.
// Core NATS has no redelivery: a handler error is logged by the caller and
// the message is gone, which is why the worker routes failures to a DLQ.
type NATSConsumer struct {
	conn    *nats.Conn
	subject string
	group   string
	logger  *zap.SugaredLogger
}

func NewNATSConsumer(conn *nats.Conn, subject, group string, logger *zap.Logger) *NATSConsumer {
	return &NATSConsumer{conn: conn, subject: subject, group: group, logger: logger.Sugar()}
}

func (c *NATSConsumer) Consume(ctx context.Context, handler Handler) error {
	ch := make(chan *nats.Msg, 64)
	sub, err := c.conn.ChanQueueSubscribe(c.subject, c.group, ch)
	if err != nil {
		return fmt.Errorf("nats subscribe %s: %w", c.subject, err)
	}
	defer func() {
		if err := sub.Unsubscribe(); err != nil {
			c.logger.Warnw("NATS unsubscribe failed", "subject", c.subject, "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case m := <-ch:
			key := ""
			if m.Header != nil {
				key = m.Header.Get(natsKeyHeader)
			}
			if err := handler(ctx, Message{Topic: m.Subject, Key: key, Value: m.Data}); err != nil {
				c.logger.Errorw("NATS message handler failed", "subject", m.Subject, "error", err)
			}
		}
	}
}

func (c *NATSConsumer) Close() error {
	c.conn.Close()
	return nil
}

type NATSPinger struct {
	Conn *nats.Conn
}

func (p NATSPinger) Name() string { return "NATS" }

func (p NATSPinger) Ping(ctx context.Context) error {
	if p.Conn == nil || !p.Conn.IsConnected() {
		return fmt.Errorf("nats not connected")
	}
	timeout := 2 * time.Second
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	return p.Conn.FlushTimeout(timeout)
}
