package puzzle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNoExample is returned when a user has no pending example puzzle.
var ErrNoExample = errors.New("no pending example puzzle")

// ExampleStore keeps the advisory "try a sample puzzle" entries in
// redis, one key per user. These are not part of the alarm state
// machine: an entry exists from issuance until the user's next answer,
// at which point it is removed no matter whether the answer was right.
// A generous TTL only guards against users who never answer at all.
type ExampleStore struct {
	rdb *redis.Client
}

// NewExampleStore wraps a redis client. The client may be nil when
// redis is unavailable; every operation then fails with redis.ErrClosed
// semantics via ErrUnavailable.
func NewExampleStore(rdb *redis.Client) *ExampleStore {
	return &ExampleStore{rdb: rdb}
}

// ErrUnavailable signals that the backing redis is not configured.
var ErrUnavailable = errors.New("example store unavailable")

func key(userID uint64) string { return fmt.Sprintf("alarm:example:%d", userID) }

// Put stores the pending example puzzle for a user, replacing any
// previous one.
func (s *ExampleStore) Put(ctx context.Context, userID uint64, p Puzzle) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	body, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, key(userID), body, 24*time.Hour).Err()
}

// Get returns the user's pending example puzzle, ErrNoExample when
// there is none.
func (s *ExampleStore) Get(ctx context.Context, userID uint64) (Puzzle, error) {
	if s.rdb == nil {
		return Puzzle{}, ErrUnavailable
	}
	body, err := s.rdb.Get(ctx, key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Puzzle{}, ErrNoExample
	}
	if err != nil {
		return Puzzle{}, err
	}
	var p Puzzle
	if err := json.Unmarshal(body, &p); err != nil {
		return Puzzle{}, err
	}
	return p, nil
}

// Remove drops the pending entry. Removing a missing entry is fine.
func (s *ExampleStore) Remove(ctx context.Context, userID uint64) error {
	if s.rdb == nil {
		return ErrUnavailable
	}
	return s.rdb.Del(ctx, key(userID)).Err()
}
