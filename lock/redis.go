package lock

import (
	"context"
	"time"

	"github.com/google/uuid"
	redis "github.com/redis/go-redis/v9"
)

var delScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// Redis implements Locker using a Redis backend. Acquisition is a single
// atomic SET NX with expiry; release only deletes the key if it still holds
// this handle's token, so a stale handle can never free another holder's
// lock.
type Redis struct {
	client *redis.Client
}

// NewRedis returns a new Redis locker using the provided client.
func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// TryAcquire implements Locker.TryAcquire.
func (r *Redis) TryAcquire(ctx context.Context, key string, ttl time.Duration) (*Handle, error) {
	token := uuid.NewString()
	ok, err := r.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return &Handle{Key: key, AcquiredAt: time.Now(), TTL: ttl, token: token}, nil
}

// Release implements Locker.Release.
func (r *Redis) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	_, err := delScript.Run(ctx, r.client, []string{h.Key}, h.token).Result()
	if err == redis.Nil {
		err = nil
	}
	return err
}
