package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"bus_ticketing/model"

	"github.com/redis/go-redis/v9"
)

const queueChannelPrefix = "station-queue:"

// QueueEvents fans station queue changes out over redis pub/sub. A nil client
// turns publishing into a no-op so the API works without redis.
type QueueEvents struct {
	rdb *redis.Client
}

func NewQueueEvents(rdb *redis.Client) *QueueEvents {
	return &QueueEvents{rdb: rdb}
}

func QueueChannel(stationSlug string) string {
	return queueChannelPrefix + stationSlug
}

func (q *QueueEvents) Enabled() bool {
	return q != nil && q.rdb != nil
}

func (q *QueueEvents) Publish(ctx context.Context, ev model.QueueEvent) error {
	if !q.Enabled() {
		return nil
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode queue event: %w", err)
	}
	if err := q.rdb.Publish(ctx, QueueChannel(ev.StationSlug), body).Err(); err != nil {
		return fmt.Errorf("publish queue event: %w", err)
	}
	return nil
}

// Subscribe returns the subscription for one station. Callers must Close it.
func (q *QueueEvents) Subscribe(ctx context.Context, stationSlug string) (*redis.PubSub, error) {
	if !q.Enabled() {
		return nil, fmt.Errorf("queue events disabled")
	}
	sub := q.rdb.Subscribe(ctx, QueueChannel(stationSlug))
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", stationSlug, err)
	}
	return sub, nil
}
