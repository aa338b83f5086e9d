package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/spellgame/internal/model"
	"github.com/mcoot/spellgame/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Conditional saves use WATCH on the session key.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Session operations

func (s *Storage) GetSession(ctx context.Context, id model.SessionID) (*model.Session, error) {
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *Storage) ttlFor(state model.SessionState) time.Duration {
	if state == model.StateCompleted {
		return s.cfg.CompletedSessionTTL
	}
	return s.cfg.SessionTTL
}

func (s *Storage) SaveSession(ctx context.Context, prev, next *model.Session) error {
	if err := storage.CheckSave(prev, next); err != nil {
		return err
	}

	version := storage.NextVersion(prev)
	stored := next.Clone()
	stored.Version = version
	data, err := json.Marshal(stored)
	if err != nil {
		return err
	}

	key := sessionKey(next.ID)
	txf := func(tx *redis.Tx) error {
		var current *model.Session
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			if prev != nil {
				return model.ErrGameNotFound
			}
		case err != nil:
			return err
		default:
			if prev == nil {
				return model.ErrConflict
			}
			current = &model.Session{}
			if err := json.Unmarshal(raw, current); err != nil {
				return err
			}
			if current.Version != prev.Version {
				return model.ErrConflict
			}
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.ttlFor(next.State))
			if current != nil && current.State != next.State {
				pipe.SRem(ctx, stateIndexKey(current.State), string(next.ID))
			}
			pipe.SAdd(ctx, stateIndexKey(next.State), string(next.ID))
			return nil
		})
		return err
	}

	if err := s.client.Watch(ctx, txf, key); err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return model.ErrConflict
		}
		return err
	}
	next.Version = version
	return nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.SessionID) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, sessionKey(id))
	for _, state := range allStates {
		pipe.SRem(ctx, stateIndexKey(state), string(id))
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) ListSessions(ctx context.Context, state model.SessionState) ([]*model.Session, error) {
	indexKey := stateIndexKey(state)
	ids, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(model.SessionID(id))
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var sessions []*model.Session
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Session expired; drop it from the index below
			stale = append(stale, ids[i])
			continue
		}
		var session model.Session
		if err := json.Unmarshal([]byte(raw), &session); err != nil {
			return nil, err
		}
		if session.State == state {
			sessions = append(sessions, &session)
		}
	}
	if len(stale) > 0 {
		if err := s.client.SRem(ctx, indexKey, stale...).Err(); err != nil {
			return nil, err
		}
	}

	storage.SortSessions(sessions)
	return sessions, nil
}

// Player stats operations

func (s *Storage) RecordResult(ctx context.Context, result model.PlayerResult) error {
	key := statsKey(result.PlayerID)
	won := 0
	if result.Won {
		won = 1
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key,
		fieldUsername, result.Username,
		fieldRating, result.Rating,
		fieldUpdatedAt, result.At.UTC().UnixMilli(),
	)
	pipe.HIncrBy(ctx, key, fieldGamesPlayed, 1)
	pipe.HIncrBy(ctx, key, fieldGamesWon, int64(won))
	pipe.HIncrBy(ctx, key, fieldTotalScore, int64(result.Score))
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayerStats(ctx context.Context, id model.PlayerID) (*model.PlayerStats, error) {
	fields, err := s.client.HGetAll(ctx, statsKey(id)).Result()
	if err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, model.ErrStatsNotFound
	}

	stats := &model.PlayerStats{
		PlayerID: id,
		Username: fields[fieldUsername],
	}
	ints := []struct {
		field string
		dst   *int
	}{
		{fieldGamesPlayed, &stats.GamesPlayed},
		{fieldGamesWon, &stats.GamesWon},
		{fieldTotalScore, &stats.TotalScore},
		{fieldRating, &stats.Rating},
	}
	for _, f := range ints {
		v, err := strconv.Atoi(fields[f.field])
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.field, err)
		}
		*f.dst = v
	}
	millis, err := strconv.ParseInt(fields[fieldUpdatedAt], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", fieldUpdatedAt, err)
	}
	stats.UpdatedAt = time.UnixMilli(millis).UTC()
	return stats, nil
}
