package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

// ErrDisabled is returned by New when no address is configured.
var ErrDisabled = errors.New("redis mirror disabled: no address configured")

// ConnectOptions configures the mirror's client and how long New keeps
// trying before the service carries on without it.
type ConnectOptions struct {
	Addr         string
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // budget for all attempts together
	RetryInterval  time.Duration // first pause, doubled after each failure
	MaxWait        time.Duration // longest pause between attempts
	PingTimeout    time.Duration // per attempt
	WarnThreshold  int           // failed attempts logged at debug before one warning
}

func (o ConnectOptions) validate() error {
	if o.Addr == "" {
		return ErrDisabled
	}
	var errs []error
	for name, d := range map[string]time.Duration{
		"ConnectTimeout": o.ConnectTimeout,
		"RetryInterval":  o.RetryInterval,
		"MaxWait":        o.MaxWait,
		"PingTimeout":    o.PingTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be > 0, got %v", name, d))
		}
	}
	if o.WarnThreshold < 0 {
		errs = append(errs, fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold))
	}
	return errors.Join(errs...)
}

func (o ConnectOptions) client() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         o.Addr,
		Username:     o.User,
		Password:     o.Password,
		DB:           o.RedisDB,
		DialTimeout:  o.DialTimeout,
		ReadTimeout:  o.ReadTimeout,
		WriteTimeout: o.WriteTimeout,
		PoolSize:     o.PoolSize,
	})
}

// backoff doubles the pause after every failed attempt, up to max.
type backoff struct {
	next time.Duration
	max  time.Duration
}

func (b *backoff) step() time.Duration {
	d := b.next
	b.next = min(b.next*2, b.max)
	return d
}

// New connects to Redis, pinging until it answers, ConnectTimeout elapses or
// ctx is done. A failure here only disables the mirror, so retries stay
// quiet until WarnThreshold attempts have failed.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	client := opts.client()
	if err := ping(ctx, client, opts, log.With(logger.String("addr", opts.Addr))); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func ping(parent context.Context, client *redis.Client, opts ConnectOptions, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(parent, opts.ConnectTimeout)
	defer cancel()

	start := time.Now()
	wait := backoff{next: opts.RetryInterval, max: opts.MaxWait}
	log.Debug("connecting to redis mirror", logger.Duration("budget", opts.ConnectTimeout))

	for attempt := 1; ; attempt++ {
		attemptCtx, attemptCancel := context.WithTimeout(ctx, opts.PingTimeout)
		err := client.Ping(attemptCtx).Err()
		attemptCancel()

		if err == nil {
			log.Info("redis mirror connected",
				logger.Int("attempts", attempt),
				logger.Duration("elapsed", time.Since(start)))
			return nil
		}

		switch {
		case attempt == opts.WarnThreshold+1:
			log.Warn("redis mirror unreachable, still retrying",
				logger.Int("attempts", attempt),
				logger.Error(err))
		default:
			log.Debug("redis ping failed", logger.Int("attempt", attempt), logger.Error(err))
		}

		pause := time.NewTimer(wait.step())
		select {
		case <-ctx.Done():
			pause.Stop()
			return fmt.Errorf("redis at %s unreachable after %d attempts in %v: %w",
				opts.Addr, attempt, time.Since(start).Round(time.Millisecond), err)
		case <-pause.C:
		}
	}
}
