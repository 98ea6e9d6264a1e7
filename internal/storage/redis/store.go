package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/julianstephens/droplet/internal/constants"
	"github.com/julianstephens/droplet/internal/models"
	"github.com/julianstephens/droplet/internal/storage"
)

// Store is a persistence service backed by Redis. Each identity owns an ordered
// list of record IDs plus one JSON value per record.
type Store struct {
	url    string
	client *redis.Client
	prefix string
	now    func() time.Time
}

// New creates a store for a redis:// or rediss:// URL
func New(url string) *Store {
	return &Store{
		url:    url,
		prefix: constants.AppName,
		now:    time.Now,
	}
}

// NewWithClient wraps an existing client
func NewWithClient(client *redis.Client) *Store {
	return &Store{
		client: client,
		prefix: constants.AppName,
		now:    time.Now,
	}
}

// IsURL reports whether target addresses a Redis server
func IsURL(target string) bool {
	return strings.HasPrefix(target, "redis://") || strings.HasPrefix(target, "rediss://")
}

func (s *Store) historyKey(identity string) string {
	return fmt.Sprintf("%s:history:%s", s.prefix, identity)
}

func (s *Store) recordKey(identity, id string) string {
	return fmt.Sprintf("%s:record:%s:%s", s.prefix, identity, id)
}

func (s *Store) Init() error {
	return s.Load()
}

func (s *Store) Load() error {
	if s.client == nil {
		opts, err := redis.ParseURL(s.url)
		if err != nil {
			return fmt.Errorf("invalid Redis URL: %w", err)
		}
		s.client = redis.NewClient(opts)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.DefaultRemoteTimeout)
	defer cancel()
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if s.client != nil {
		err := s.client.Close()
		s.client = nil
		return err
	}
	return nil
}

func (s *Store) GetConfigPath() string {
	return "redis"
}

func (s *Store) FetchHistory(ctx context.Context, identity string) ([]models.FootprintRecord, error) {
	if s.client == nil {
		return nil, storage.ErrNotLoaded
	}

	ids, err := s.client.LRange(ctx, s.historyKey(identity), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history from Redis: %w", err)
	}
	records := []models.FootprintRecord{}
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.recordKey(identity, id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get records from Redis: %w", err)
	}

	for i, v := range values {
		data, ok := v.(string)
		if !ok {
			// list entry without a value: a delete raced this read
			continue
		}
		var rec models.FootprintRecord
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record %s: %w", ids[i], err)
		}
		records = append(records, rec)
	}
	return records, nil
}

func (s *Store) CommitHistory(ctx context.Context, identity string, rec models.FootprintRecord) (models.FootprintRecord, error) {
	if s.client == nil {
		return models.FootprintRecord{}, storage.ErrNotLoaded
	}
	stored := storage.PrepareCommit(rec, s.now())

	data, err := json.Marshal(stored)
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.recordKey(identity, stored.ID), data, 0)
		pipe.RPush(ctx, s.historyKey(identity), stored.ID)
		return nil
	})
	if err != nil {
		return models.FootprintRecord{}, fmt.Errorf("failed to store record in Redis: %w", err)
	}
	return stored, nil
}

func (s *Store) DeleteHistory(ctx context.Context, identity, recordID string) error {
	if s.client == nil {
		return storage.ErrNotLoaded
	}

	var removed *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		removed = pipe.LRem(ctx, s.historyKey(identity), 0, recordID)
		pipe.Del(ctx, s.recordKey(identity, recordID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete record from Redis: %w", err)
	}
	if removed.Val() == 0 {
		return fmt.Errorf("record %s: %w", recordID, storage.ErrNotFound)
	}
	return nil
}

var _ storage.RemoteStore = (*Store)(nil)
