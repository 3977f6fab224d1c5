package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/tendant/simple-objects/pkg/simpleobjects"
)

// Channel the bridge publishes and subscribes on.
const bridgeChannel = "simpleobjects.events"

// bridgeMessage is the wire format exchanged between nodes over Redis.
type bridgeMessage struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
	NodeID  string          `json:"node_id"`
}

// Bridge propagates lifecycle events between instances over Redis pub/sub.
// Local events are broadcast to the local hub and published to Redis; events
// received from other nodes are re-broadcast locally. The node ID suppresses
// echo of this instance's own messages.
type Bridge struct {
	client *redis.Client
	hub    *Hub
	nodeID string
	logger zerolog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBridge connects to Redis and starts relaying events for the given hub
func NewBridge(redisURL string, hub *Hub, logger zerolog.Logger) (*Bridge, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	b := &Bridge{
		client: client,
		hub:    hub,
		nodeID: uuid.NewString(),
		logger: logger.With().Str("component", "notify_bridge").Logger(),
		cancel: cancel,
	}

	pubsub := client.Subscribe(ctx, bridgeChannel)
	b.wg.Add(1)
	go b.receive(ctx, pubsub)

	b.logger.Info().Str("node_id", b.nodeID).Msg("redis event bridge started")
	return b, nil
}

func (b *Bridge) receive(ctx context.Context, pubsub *redis.PubSub) {
	defer b.wg.Done()
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				b.logger.Warn().Msg("redis subscription channel closed")
				return
			}

			var bm bridgeMessage
			if err := json.Unmarshal([]byte(msg.Payload), &bm); err != nil {
				b.logger.Error().Err(err).Msg("failed to unmarshal bridge message")
				continue
			}

			// Skip our own messages; they were already broadcast locally.
			if bm.NodeID == b.nodeID {
				continue
			}

			b.hub.Broadcast(bm.Event, bm.Payload)
		}
	}
}

func (b *Bridge) publish(ctx context.Context, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error().Err(err).Str("event", event).Msg("failed to marshal event payload")
		return
	}

	data, err := json.Marshal(bridgeMessage{Event: event, Payload: raw, NodeID: b.nodeID})
	if err != nil {
		b.logger.Error().Err(err).Str("event", event).Msg("failed to marshal bridge message")
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := b.client.Publish(pctx, bridgeChannel, data).Err(); err != nil {
		b.logger.Warn().Err(err).Str("event", event).Msg("failed to publish event to redis")
	}
}

// ObjectCreated implements simpleobjects.EventSink
func (b *Bridge) ObjectCreated(ctx context.Context, record *simpleobjects.ObjectRecord) error {
	if err := b.hub.ObjectCreated(ctx, record); err != nil {
		return err
	}
	b.publish(ctx, EventObjectCreated, simpleobjects.ObjectCreatedEvent{
		ID:          record.ID,
		Title:       record.Title,
		Description: record.Description,
		ImageURL:    record.ImageURL,
		CreatedAt:   record.CreatedAt,
	})
	return nil
}

// ObjectDeleted implements simpleobjects.EventSink
func (b *Bridge) ObjectDeleted(ctx context.Context, objectID uuid.UUID, deletedAt time.Time) error {
	if err := b.hub.ObjectDeleted(ctx, objectID, deletedAt); err != nil {
		return err
	}
	b.publish(ctx, EventObjectDeleted, simpleobjects.ObjectDeletedEvent{
		ID:        objectID,
		DeletedAt: deletedAt,
	})
	return nil
}

// Close stops the relay and closes the Redis connection
func (b *Bridge) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}
