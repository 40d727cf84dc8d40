package services

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/edge-opcua/opcuacore/internal/opcua/values"
)

// Publisher publishes a notification on redis pub/sub whenever the
// address space completes a write (AddNodes or Write), so external
// replicas of the thread-safe dictionary (component B) can invalidate
// their caches. Kept at the services layer rather than inside dict.TSafe
// itself: TSafe is a generic container shared by every component that
// needs a thread-safe map, and baking a concrete pub/sub dependency into
// it would force that dependency onto callers (e.g. the NodeSet loader's
// staging dictionary) that never touch redis. Wiring it here, at the one
// call site that represents "the address space was written", keeps the
// dependency scoped to the component that actually needs it.
type Publisher struct {
	client  *redis.Client
	channel string
}

// NewPublisher connects to a redis server and returns a Publisher that
// announces writes on channel.
func NewPublisher(addr, password string, db int, channel string) *Publisher {
	return &Publisher{
		client:  redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db}),
		channel: channel,
	}
}

// NotifyWrite publishes id's textual form on the configured channel.
func (p *Publisher) NotifyWrite(id values.NodeId) error {
	if err := p.client.Publish(context.Background(), p.channel, id.ToCString()).Err(); err != nil {
		return fmt.Errorf("publish write notification: %w", err)
	}
	return nil
}

// Close closes the underlying redis client.
func (p *Publisher) Close() error { return p.client.Close() }
