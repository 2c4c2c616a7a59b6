// Package queue carries opaque payloads between the API and background workers
// over Kafka or NATS.
package queue

import "context"

type Message struct {
	Topic string
	Key   string
	Value []byte
}

// Handler processes one message. Returning an error leaves the message
// uncommitted where the transport supports it.
type Handler func(ctx context.Context, msg Message) error

type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
	Close() error
}

type Consumer interface {
	Consume(ctx context.Context, handler Handler) error
	Close() error
}

// DeadLetterTopic names the destination for messages that exhausted retries.
func DeadLetterTopic(topic string) string {
	return topic + ".dlq"
}
