package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/sportsmatch/backend/internal/models"
)

// Channel is the Redis pub/sub channel the external delivery transport
// subscribes to.
const Channel = "notifications"

// Sink persists notification records.
type Sink interface {
	CreateNotification(ctx context.Context, n *models.Notification) error
}

// Publisher persists routed notifications and hands them to the delivery
// transport over Redis pub/sub. Best-effort on both legs: a failed insert or
// publish is logged and never propagated, so notification fan-out can never
// fail the lifecycle transition that triggered it.
type Publisher struct {
	sink Sink
	rdb  *redis.Client
}

func NewPublisher(sink Sink, rdb *redis.Client) *Publisher {
	return &Publisher{sink: sink, rdb: rdb}
}

// Emit routes the event and dispatches every resulting notification.
func (p *Publisher) Emit(ctx context.Context, ev Event) {
	p.Dispatch(ctx, Route(ev)...)
}

// Dispatch persists and publishes already-routed notifications.
func (p *Publisher) Dispatch(ctx context.Context, notifications ...models.Notification) {
	for i := range notifications {
		n := &notifications[i]
		if p.sink != nil {
			if err := p.sink.CreateNotification(ctx, n); err != nil {
				log.Printf("[NOTIFY] failed to persist notification type=%s user=%s: %v", n.Type, n.UserID.String, err)
				continue
			}
		}
		if p.rdb == nil {
			continue
		}
		payload, err := json.Marshal(n)
		if err != nil {
			log.Printf("[NOTIFY] failed to encode notification %d: %v", n.ID, err)
			continue
		}
		if err := p.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
			log.Printf("[NOTIFY] publish failed for notification %d: %v", n.ID, err)
		}
	}
}
