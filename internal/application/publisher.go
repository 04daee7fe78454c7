package application

import (
	"context"
	"errors"
)

// ErrStatusTimeout is returned by StatusPublisher when no status message
// arrives in time. The command itself was published.
var ErrStatusTimeout = errors.New("no status reply")

// Publisher writes one payload to a bus topic.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// StatusPublisher additionally supports the legacy status-query mode: it
// publishes and then blocks until one message arrives on the status topic.
type StatusPublisher interface {
	Publisher
	PublishAwaitStatus(ctx context.Context, topic, payload, statusTopic string) (string, error)
}
