package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/utils"
	"github.com/redis/go-redis/v9"
)

type Publisher struct {
	client *redis.Client
	nodeID int64
}

func NewPublisher(client *redis.Client, nodeID int64) *Publisher {
	return &Publisher{client: client, nodeID: nodeID}
}

func (p *Publisher) Publish(ctx context.Context, stream, eventType string, data any) error {
	event, err := NewEvent(p.nodeID, eventType, data)
	if err != nil {
		return err
	}

	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	args := &redis.XAddArgs{
		Stream: stream,
		Values: map[string]any{
			"event": eventJSON,
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	return nil
}

// NewEvent stamps data with a snowflake id and the current time.
func NewEvent(nodeID int64, eventType string, data any) (Event, error) {
	id, err := utils.NewEventID(nodeID)
	if err != nil {
		return Event{}, fmt.Errorf("failed to generate event id: %w", err)
	}
	return Event{
		ID:        id,
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// NopPublisher drops every event. It is used when Redis is disabled.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, string, any) error { return nil }
