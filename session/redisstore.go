package session

import (
	"context"
	"sync"

	"github.com/redis/go-redis/v9"
)

// changeChannel is the pub/sub channel every storefront instance attached to
// the same Redis listens on. A publish here is the "storage changed
// elsewhere" notification.
const changeChannel = "storefront:session"

// RedisStore is a Redis-backed Store shared across storefront instances.
// Writes are last-write-wins; consistency across instances is reached by the
// change notifications, not by locking.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "storefront:session:",
	}
}

func (s *RedisStore) Get(ctx context.Context, slot string) (string, bool, error) {
	val, err := s.client.Get(ctx, s.prefix+slot).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (s *RedisStore) Set(ctx context.Context, slot, value string) error {
	if err := s.client.Set(ctx, s.prefix+slot, value, 0).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, changeChannel, slot).Err()
}

func (s *RedisStore) Clear(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, s.prefix+slot).Err(); err != nil {
		return err
	}
	return s.client.Publish(ctx, changeChannel, slot).Err()
}

func (s *RedisStore) Subscribe(ctx context.Context) (<-chan struct{}, func()) {
	sub := s.client.Subscribe(ctx, changeChannel)
	ch := make(chan struct{}, 16)

	go func() {
		defer close(ch)
		for range sub.Channel() {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = sub.Close() })
	}
	return ch, cancel
}
