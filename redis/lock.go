package redis

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another booking attempt holds one of the
// requested resources.
var ErrLocked = fmt.Errorf("resource is locked by a concurrent booking")

// releaseScript deletes a lock key only when it still holds our token,
// so an expired lock taken over by someone else is never released.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// ResourceLocker implements the scheduling.Locker contract with
// per-resource advisory locks (SET NX with TTL). Keys must be acquired
// in sorted order by the caller; all-or-nothing semantics are enforced
// here by rolling back on the first failed key.
type ResourceLocker struct {
	Client *redis.Client
}

// NewLocker returns a locker bound to the global client.
func NewLocker() *ResourceLocker {
	return &ResourceLocker{Client: Client}
}

// LockResources acquires every key or none. The returned func releases
// all acquired keys.
func (l *ResourceLocker) LockResources(ctx context.Context, keys []string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	acquired := make([]string, 0, len(keys))

	release := func() {
		for _, key := range acquired {
			if err := releaseScript.Run(context.Background(), l.Client, []string{key}, token).Err(); err != nil && err != redis.Nil {
				log.Printf("failed to release lock %s: %v", key, err)
			}
		}
	}

	for _, key := range keys {
		ok, err := l.Client.SetNX(ctx, key, token, ttl).Result()
		if err != nil {
			release()
			return nil, err
		}
		if !ok {
			release()
			return nil, ErrLocked
		}
		acquired = append(acquired, key)
	}
	return release, nil
}
