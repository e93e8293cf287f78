package realtime

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/swap24/backend/pkg/logger"
	"go.uber.org/zap"
)

const defaultRelayRetry = 2 * time.Second

// RedisRelay fans events out across API instances. Publish writes to a Redis
// channel; Run subscribes to the same channel and delivers into the local Hub.
// While no subscription is live, Publish also delivers to the local Hub itself.
type RedisRelay struct {
	client     *redis.Client
	channel    string
	hub        *Hub
	live       atomic.Bool
	retryDelay time.Duration
	log        *zap.Logger
}

func NewRedisRelay(client *redis.Client, channel string, hub *Hub) *RedisRelay {
	return &RedisRelay{
		client:     client,
		channel:    channel,
		hub:        hub,
		retryDelay: defaultRelayRetry,
		log:        logger.Named("realtime.redis"),
	}
}

// Live reports whether the subscription is currently relaying into the Hub.
func (r *RedisRelay) Live() bool {
	return r.live.Load()
}

func (r *RedisRelay) Publish(ctx context.Context, room, event string, payload any) error {
	msg, err := newEventMessage(room, event, payload)
	if err != nil {
		return err
	}
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if !r.live.Load() {
		r.hub.Deliver(msg)
	}
	return r.client.Publish(ctx, r.channel, data).Err()
}

// Serve keeps Run going until ctx is cancelled, resubscribing after failures.
func (r *RedisRelay) Serve(ctx context.Context) {
	for {
		err := r.Run(ctx)
		if ctx.Err() != nil {
			return
		}
		r.log.Warn("realtime relay stopped, resubscribing", zap.Error(err), zap.Duration("retry_in", r.retryDelay))

		select {
		case <-ctx.Done():
			return
		case <-time.After(r.retryDelay):
		}
	}
}

// Run blocks until ctx is cancelled, relaying channel messages to the Hub.
func (r *RedisRelay) Run(ctx context.Context) error {
	sub := r.client.Subscribe(ctx, r.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	r.live.Store(true)
	defer r.live.Store(false)
	r.log.Info("relaying realtime events", zap.String("channel", r.channel))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			r.relay(m.Payload)
		}
	}
}

func (r *RedisRelay) relay(payload string) {
	var msg Message
	if err := json.Unmarshal([]byte(payload), &msg); err != nil {
		r.log.Warn("discarding malformed relay message", zap.Error(err))
		return
	}
	if msg.Type != TypeEvent || msg.Room == "" {
		return
	}
	r.hub.Deliver(msg)
}
