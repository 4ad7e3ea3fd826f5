package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// MarkerStore remembers the last sync marker a refresh was triggered for,
// per unit group. Keeping it in redis means several console instances
// share one memory and each marker advance causes a single refresh.
type MarkerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewMarkerStore(addr string, ttl time.Duration) *MarkerStore {
	return &MarkerStore{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		ttl:    ttl,
	}
}

func (s *MarkerStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func markerKey(groupID int64) string {
	return fmt.Sprintf("ratedesk:sync-marker:%d", groupID)
}

func (s *MarkerStore) Marker(ctx context.Context, groupID int64) (string, error) {
	val, err := s.client.Get(ctx, markerKey(groupID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (s *MarkerStore) SetMarker(ctx context.Context, groupID int64, marker string) error {
	return s.client.Set(ctx, markerKey(groupID), marker, s.ttl).Err()
}
