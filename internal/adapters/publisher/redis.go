package publisher

import (
	"context"
	"fleet-route-optimizer/internal/domain"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

// RedisPublisher publishes records over Redis Pub/Sub on "run:<id>".
type RedisPublisher struct {
	rdb *redis.Client
}

func NewRedisPublisher(rdb *redis.Client) *RedisPublisher {
	return &RedisPublisher{rdb: rdb}
}

func NewRedisPublisherFromURL(url string) (*RedisPublisher, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis publisher: parse url: %w", err)
	}
	return NewRedisPublisher(redis.NewClient(opt)), nil
}

func (p *RedisPublisher) Publish(ctx context.Context, runID string, rec domain.GenerationRecord) error {
	data, err := encodeRecord(runID, rec)
	if err != nil {
		return fmt.Errorf("redis publish: encode: %w", err)
	}
	if err := p.rdb.Publish(ctx, channelName(runID), data).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (p *RedisPublisher) Complete(ctx context.Context, runID string) error {
	data, err := encodeComplete(runID)
	if err != nil {
		return fmt.Errorf("redis complete: encode: %w", err)
	}
	if err := p.rdb.Publish(ctx, channelName(runID), data).Err(); err != nil {
		return fmt.Errorf("redis complete: %w", err)
	}
	return nil
}

// Subscribe relays records of runID until a complete message arrives or the
// returned cancel func is called.
func (p *RedisPublisher) Subscribe(runID string) (<-chan domain.GenerationRecord, func()) {
	ctx, cancel := context.WithCancel(context.Background())
	ps := p.rdb.Subscribe(ctx, channelName(runID))
	// initial receive confirms the subscription
	_, _ = ps.Receive(ctx)

	ch := make(chan domain.GenerationRecord, 64)
	go func() {
		defer close(ch)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				m, err := decode([]byte(msg.Payload))
				if err != nil {
					continue
				}
				if m.Type == eventComplete {
					return
				}
				select {
				case ch <- m.record():
				default:
				}
			}
		}
	}()
	return ch, cancel
}

func (p *RedisPublisher) Close() error { return p.rdb.Close() }

func channelName(runID string) string { return "run:" + runID }
