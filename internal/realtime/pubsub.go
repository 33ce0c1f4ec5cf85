package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-redis/redis/v8"
	"github.com/piteco/backend/internal/models"
	"go.uber.org/zap"
)

const channelPrefix = "piteco:events:"

// Channel returns the redis channel carrying events of userID
func Channel(userID int) string {
	return channelPrefix + strconv.Itoa(userID)
}

// userIDFromChannel extracts the user id from a channel name
func userIDFromChannel(channel string) (int, error) {
	raw, ok := strings.CutPrefix(channel, channelPrefix)
	if !ok {
		return 0, fmt.Errorf("unexpected channel %q", channel)
	}
	return strconv.Atoi(raw)
}

// Publisher publishes events for users to redis
type Publisher struct {
	rdb *redis.Client
}

// NewPublisher creates a new redis event publisher
func NewPublisher(rdb *redis.Client) *Publisher {
	return &Publisher{rdb: rdb}
}

// Publish sends event to every connection of userID on any instance
func (p *Publisher) Publish(ctx context.Context, userID int, event models.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := p.rdb.Publish(ctx, Channel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe forwards every event published on redis to the matching hub clients.
// It blocks until ctx is cancelled.
func Subscribe(ctx context.Context, rdb *redis.Client, hub *Hub, logger *zap.Logger) error {
	pubsub := rdb.PSubscribe(ctx, channelPrefix+"*")
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			userID, err := userIDFromChannel(msg.Channel)
			if err != nil {
				logger.Warn("Ignoring event", zap.String("channel", msg.Channel), zap.Error(err))
				continue
			}
			hub.SendToUser(userID, []byte(msg.Payload))
		}
	}
}
