package realtime

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Broker fans "bookmarks changed" signals out to every open session of a
// user, across server instances. Publish is called after each successful
// insert/delete; Subscribe is called by the live-updates stream.
type Broker interface {
	Publish(ctx context.Context, userID uuid.UUID) error
	Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error)
}

type RedisBroker struct {
	Client *redis.Client
	Logger *log.Logger
}

func NewRedisBroker(client *redis.Client, logger *log.Logger) *RedisBroker {
	return &RedisBroker{
		Client: client,
		Logger: logger,
	}
}

func changeChannelKey(userID uuid.UUID) string {
	return "bookmarks:changed:" + userID.String()
}

func (b *RedisBroker) Publish(ctx context.Context, userID uuid.UUID) error {
	err := b.Client.Publish(ctx, changeChannelKey(userID), "1").Err()
	if err != nil {
		return fmt.Errorf("failed to publish change signal: %w", err)
	}
	return nil
}

func (b *RedisBroker) Subscribe(ctx context.Context, userID uuid.UUID) (*Subscription, error) {
	pubsub := b.Client.Subscribe(ctx, changeChannelKey(userID))

	// Confirm the subscription before handing the handle out, so no change
	// published after Subscribe returns can be missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to change channel: %w", err)
	}

	sub := NewSubscription(pubsub.Close)

	go func() {
		for range pubsub.Channel() {
			sub.Notify()
		}
	}()

	return sub, nil
}
