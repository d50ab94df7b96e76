package limiter

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// Cooldown is a redis-backed circuit for the remote API. When the service
// answers 429 we open a cooldown with exponential backoff, shared across
// replicas through redis, and refuse new remote work until it expires.
type Cooldown struct {
	rdb         *redis.Client
	baseBackoff time.Duration
	maxBackoff  time.Duration
}

type Options struct {
	RedisURL    string
	BaseBackoff time.Duration
	MaxBackoff  time.Duration
}

func New(opts Options) (*Cooldown, error) {
	if opts.BaseBackoff <= 0 {
		opts.BaseBackoff = 30 * time.Second
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = 5 * time.Minute
	}
	ro, err := redis.ParseURL(opts.RedisURL)
	if err != nil {
		return nil, err
	}
	c := redis.NewClient(ro)
	if err := c.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &Cooldown{rdb: c, baseBackoff: opts.BaseBackoff, maxBackoff: opts.MaxBackoff}, nil
}

func (c *Cooldown) key(scope string) string {
	return fmt.Sprintf("autosplit:cooldown:%s", scope)
}

// IsOpen reports whether the scope is still cooling down.
func (c *Cooldown) IsOpen(ctx context.Context, scope string) bool {
	ts, err := c.rdb.Get(ctx, c.key(scope)).Int64()
	if err != nil {
		return false
	}
	return time.Now().Unix() < ts
}

// Open starts or extends the cooldown, doubling the backoff per consecutive
// open up to the configured maximum.
func (c *Cooldown) Open(ctx context.Context, scope string) {
	k := c.key(scope)
	cntKey := k + ":attempts"
	attempts, _ := c.rdb.Incr(ctx, cntKey).Result()
	d := c.backoff(attempts)
	until := time.Now().Add(d).Unix()
	c.rdb.Set(ctx, k, until, d+time.Minute)
	c.rdb.Expire(ctx, cntKey, c.maxBackoff*2)
}

// backoff doubles per consecutive attempt, saturating at maxBackoff so a long
// 429 streak cannot overflow the duration.
func (c *Cooldown) backoff(attempts int64) time.Duration {
	d := c.baseBackoff
	for i := int64(1); i < attempts; i++ {
		d *= 2
		if d >= c.maxBackoff {
			return c.maxBackoff
		}
	}
	if d > c.maxBackoff {
		return c.maxBackoff
	}
	return d
}

// Reset clears the cooldown and the attempt counter after a successful call.
func (c *Cooldown) Reset(ctx context.Context, scope string) {
	k := c.key(scope)
	c.rdb.Del(ctx, k, k+":attempts")
}

func (c *Cooldown) Close() error { return c.rdb.Close() }
