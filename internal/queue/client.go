// Package queue carries question-answering jobs from the API to the worker.
package queue

import "context"

// Client publishes answer jobs to a queue backend. A nil Client means the
// API answers questions synchronously instead of deferring to a worker.
type Client interface {
	Send(ctx context.Context, msg Message) error
}

// Subscriber consumes answer jobs. Implemented by NATSClient; the worker
// binary resolves it from the app's Client.
type Subscriber interface {
	Subscribe(ctx context.Context, handler func(context.Context, Message)) error
}
