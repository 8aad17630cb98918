// Package redis provides Redis persistence: each record is a JSON string key and each
// collection keeps a set of its ids.
package redis

import (
	"context"
	"errors"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/dukex/flowdesk/pkg/persistence"
	"github.com/dukex/flowdesk/pkg/persistence/docstore"
)

const keyPrefix = "flowdesk"

// Store implements docstore.Store on Redis.
type Store struct {
	client redis.UniversalClient
}

// NewStore connects to the Redis server described by a redis:// URL.
func NewStore(ctx context.Context, url string) (*Store, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(options)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Store{client: client}, nil
}

// NewPersistence creates a Redis backed persistence.
func NewPersistence(ctx context.Context, url string) (*docstore.Persistence, error) {
	store, err := NewStore(ctx, url)
	if err != nil {
		return nil, err
	}

	return docstore.New(store), nil
}

func documentKey(collection, id string) string {
	return keyPrefix + ":" + collection + ":" + id
}

func indexKey(collection string) string {
	return keyPrefix + ":" + collection
}

func (s *Store) Get(ctx context.Context, collection, id string) ([]byte, error) {
	body, err := s.client.Get(ctx, documentKey(collection, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, persistence.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get document: %w", err)
	}

	return body, nil
}

func (s *Store) Put(ctx context.Context, collection, id string, data []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(collection, id), data, 0)
		pipe.SAdd(ctx, indexKey(collection), id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, documentKey(collection, id))
		pipe.SRem(ctx, indexKey(collection), id)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}

	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([][]byte, error) {
	ids, err := s.client.SMembers(ctx, indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s ids: %w", collection, err)
	}

	if len(ids) == 0 {
		return make([][]byte, 0), nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = documentKey(collection, id)
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", collection, err)
	}

	bodies := make([][]byte, 0, len(values))

	for _, v := range values {
		// Missing keys come back as nil.
		if body, ok := v.(string); ok {
			bodies = append(bodies, []byte(body))
		}
	}

	return bodies, nil
}

func (s *Store) HealthCheck(ctx context.Context) error {
	err := s.client.Ping(ctx).Err()
	if err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	return nil
}

func (s *Store) Close(_ context.Context) error {
	return s.client.Close()
}
