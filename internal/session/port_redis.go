package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kiranalabs/storefront/pkg/redis"
)

type redisPort struct {
	client *redis.Client
}

// NewRedisPort builds a Port backed by Redis.
func NewRedisPort(client *redis.Client) Port {
	return &redisPort{client: client}
}

type redisSlot struct {
	SchemaVersion int             `json:"schema_version"`
	Payload       json.RawMessage `json:"payload"`
}

func (p *redisPort) Load(ctx context.Context, shopperID string) ([]byte, bool, error) {
	value, err := p.client.Get(ctx, p.client.SessionSlotKey(shopperID))
	if redis.IsNil(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading session slot: %w", err)
	}

	var slot redisSlot
	if err := json.Unmarshal([]byte(value), &slot); err != nil {
		return nil, false, fmt.Errorf("decoding session slot: %w", err)
	}
	if slot.SchemaVersion != slotSchemaVersion {
		return nil, false, nil
	}
	return slot.Payload, true, nil
}

func (p *redisPort) Save(ctx context.Context, shopperID string, payload []byte) error {
	encoded, err := json.Marshal(redisSlot{
		SchemaVersion: slotSchemaVersion,
		Payload:       payload,
	})
	if err != nil {
		return fmt.Errorf("encoding session slot: %w", err)
	}
	if err := p.client.Set(ctx, p.client.SessionSlotKey(shopperID), string(encoded), 0); err != nil {
		return fmt.Errorf("saving session slot: %w", err)
	}
	return nil
}

func (p *redisPort) Clear(ctx context.Context, shopperID string) error {
	if err := p.client.Del(ctx, p.client.SessionSlotKey(shopperID)); err != nil {
		return fmt.Errorf("clearing session slot: %w", err)
	}
	return nil
}
