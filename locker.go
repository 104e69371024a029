package bankxledger

//go:generate mockgen -source=locker.go -destination=mocks/locker.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var (
	ErrLockTimeout = errors.New("timed out waiting for account lock")
)

// Locker serializes engine calls per account. Lock takes every id it is given
// (in ascending order, duplicates ignored) and returns a func releasing them.
type Locker interface {
	Lock(ctx context.Context, ids ...snowflake.ID) (func(), error)
}

func lockOrder(ids []snowflake.ID) []snowflake.ID {
	out := make([]snowflake.ID, 0, len(ids))
	seen := make(map[snowflake.ID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// MemoryLocker is a Locker for a single process.
type MemoryLocker struct {
	mu    sync.Mutex
	locks map[snowflake.ID]chan struct{}
}

var (
	_ Locker = (*MemoryLocker)(nil)
	_ Locker = (*RedisLocker)(nil)
)

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{locks: make(map[snowflake.ID]chan struct{})}
}

func (m *MemoryLocker) slot(id snowflake.ID) chan struct{} {
	m.mu.Lock()
	defer m.mu.Unlock()
	ch, ok := m.locks[id]
	if !ok {
		ch = make(chan struct{}, 1)
		m.locks[id] = ch
	}
	return ch
}

func (m *MemoryLocker) Lock(ctx context.Context, ids ...snowflake.ID) (func(), error) {
	held := make([]chan struct{}, 0, len(ids))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i]
		}
	}
	for _, id := range lockOrder(ids) {
		ch := m.slot(id)
		select {
		case ch <- struct{}{}:
			held = append(held, ch)
		case <-ctx.Done():
			release()
			return nil, ErrLockTimeout
		}
	}
	return release, nil
}

var redisUnlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker holds account locks as expiring redis keys so several engine
// processes can share one store.
type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	if prefix == "" {
		prefix = "bankx:lock"
	}
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		retry:  20 * time.Millisecond,
	}
}

// OpenLocker returns a RedisLocker shared by every process using redis.addr,
// or a MemoryLocker covering this process only when no address is set. The
// returned func releases it.
func OpenLocker(cfg *Config) (Locker, func(), error) {
	if cfg.Redis.Addr == "" {
		return NewMemoryLocker(), func() {}, nil
	}
	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		rdb.Close()
		return nil, nil, fmt.Errorf("connecting to redis at %s: %w", cfg.Redis.Addr, err)
	}
	return NewRedisLocker(rdb, cfg.Redis.LockPrefix, cfg.Redis.LockTTL), func() { rdb.Close() }, nil
}

func (r *RedisLocker) key(id snowflake.ID) string {
	return fmt.Sprintf("%s:account:%d", r.prefix, id.Int64())
}

func (r *RedisLocker) Lock(ctx context.Context, ids ...snowflake.ID) (func(), error) {
	token := uuid.NewString()
	var held []string
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			redisUnlockScript.Run(context.Background(), r.client, []string{held[i]}, token)
		}
	}
	for _, id := range lockOrder(ids) {
		key := r.key(id)
		for {
			ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
			if err != nil {
				release()
				if ctx.Err() != nil {
					return nil, ErrLockTimeout
				}
				return nil, err
			}
			if ok {
				held = append(held, key)
				break
			}
			select {
			case <-time.After(r.retry):
			case <-ctx.Done():
				release()
				return nil, ErrLockTimeout
			}
		}
	}
	return release, nil
}
