package redis

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func validOptions() ConnectOptions {
	return ConnectOptions{
		Addr:           "127.0.0.1:1",
		DialTimeout:    50 * time.Millisecond,
		ReadTimeout:    50 * time.Millisecond,
		WriteTimeout:   50 * time.Millisecond,
		PoolSize:       1,
		ConnectTimeout: 200 * time.Millisecond,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    50 * time.Millisecond,
		WarnThreshold:  1,
	}
}

func TestNewDisabledWithoutAddr(t *testing.T) {
	opts := validOptions()
	opts.Addr = ""

	_, err := New(context.Background(), opts, logger.Nop())
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("New() error = %v, want ErrDisabled", err)
	}
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConnectOptions)
	}{
		{"connect timeout", func(o *ConnectOptions) { o.ConnectTimeout = 0 }},
		{"retry interval", func(o *ConnectOptions) { o.RetryInterval = 0 }},
		{"max wait", func(o *ConnectOptions) { o.MaxWait = -time.Second }},
		{"ping timeout", func(o *ConnectOptions) { o.PingTimeout = 0 }},
		{"warn threshold", func(o *ConnectOptions) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := validOptions()
			tt.mutate(&opts)
			if _, err := New(context.Background(), opts, logger.Nop()); err == nil {
				t.Error("New() should reject invalid options")
			}
		})
	}
}

func TestNewGivesUpAfterTimeout(t *testing.T) {
	start := time.Now()
	client, err := New(context.Background(), validOptions(), logger.Nop())
	if err == nil {
		t.Fatal("New() against an unreachable server should fail")
	}
	if client != nil {
		t.Error("New() should not return a client on failure")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("New() took %v, should stop near ConnectTimeout", elapsed)
	}
}

func TestNewStopsWhenContextCanceled(t *testing.T) {
	opts := validOptions()
	opts.ConnectTimeout = time.Minute

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	start := time.Now()
	if _, err := New(ctx, opts, logger.Nop()); err == nil {
		t.Fatal("New() should fail once ctx is done")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("New() took %v, should honor ctx", elapsed)
	}
}

func TestNewReportsEveryInvalidOption(t *testing.T) {
	opts := validOptions()
	opts.RetryInterval = 0
	opts.PingTimeout = 0

	_, err := New(context.Background(), opts, logger.Nop())
	if err == nil {
		t.Fatal("New() should reject invalid options")
	}
	for _, name := range []string{"RetryInterval", "PingTimeout"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q does not mention %s", err, name)
		}
	}
}

func TestBackoffDoublesUpToMax(t *testing.T) {
	b := backoff{next: 10 * time.Millisecond, max: 35 * time.Millisecond}

	want := []time.Duration{10, 20, 35, 35}
	for i, w := range want {
		if got := b.step(); got != w*time.Millisecond {
			t.Errorf("step %d = %v, want %v", i, got, w*time.Millisecond)
		}
	}
}
