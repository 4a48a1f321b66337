package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Channel carries every employee audit event as a JSON message.
const Channel = "employee_events"

// EmployeeEvent mirrors one audit-trail append. It is published best-effort:
// a lost event never fails the mutation that produced it.
type EmployeeEvent struct {
	Action       string    `json:"action"`
	EmployeeID   uint      `json:"employee_id"`
	EmployeeCode string    `json:"employee_code"`
	FullName     string    `json:"full_name"`
	ActorID      string    `json:"actor_id"`
	Description  string    `json:"description,omitempty"`
	OccurredAt   time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event EmployeeEvent) error
}

// RedisBus fans employee events out through a redis channel so every server
// instance can feed its own websocket clients.
type RedisBus struct {
	rdb *redis.Client
}

func NewRedisBus(rdb *redis.Client) *RedisBus {
	return &RedisBus{rdb: rdb}
}

func (b *RedisBus) Publish(ctx context.Context, event EmployeeEvent) error {
	if b == nil || b.rdb == nil {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal employee event: %w", err)
	}

	if err := b.rdb.Publish(ctx, Channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish employee event: %w", err)
	}

	return nil
}

// Subscribe opens a subscription on the event channel. The caller owns the
// returned PubSub and must Close it.
func (b *RedisBus) Subscribe(ctx context.Context) *redis.PubSub {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Subscribe(ctx, Channel)
}
