package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bookmarks/internal/config"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/logger"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		ListenPort:         "127.0.0.1:0",
		ShutdownTimeout:    2 * time.Second,
		RequestTimeout:     time.Second,
		LogLevel:           "error",
		File:               filepath.Join(t.TempDir(), "bookmarks.json"),
		SearchDebounce:     10 * time.Millisecond,
		NotifyTTL:          time.Second,
		RateLimitBurst:     10,
		RateLimitPerMinute: 60,
	}
}

func TestConnectMirrorDisabled(t *testing.T) {
	assert.Nil(t, ConnectMirror(context.Background(), testConfig(t), logger.Nop()))
	assert.Nil(t, asMirror(nil))
}

func TestConnectMirrorUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.RedisDT = 50 * time.Millisecond
	cfg.RedisRT = 50 * time.Millisecond
	cfg.RedisWT = 50 * time.Millisecond
	cfg.RedisPoolSize = 1
	cfg.RedisConnectTimeout = 200 * time.Millisecond
	cfg.RedisRetryInterval = 20 * time.Millisecond
	cfg.RedisMaxWait = 50 * time.Millisecond
	cfg.RedisPingTimeout = 50 * time.Millisecond
	cfg.RedisWarnThreshold = 1

	assert.Nil(t, ConnectMirror(context.Background(), cfg, logger.Nop()))
}

func TestRunFlushesOnShutdown(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(context.Background(), cfg, logger.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.RunContext(ctx) }()

	require.Eventually(t, a.loader.Ready, 2*time.Second, 10*time.Millisecond)
	a.store.Create("Grafana", "grafana.lan", "")
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("RunContext did not return after cancel")
	}

	data, err := os.ReadFile(cfg.File)
	require.NoError(t, err)
	var c domain.Collection
	require.NoError(t, json.Unmarshal(data, &c))
	require.Len(t, c, 1)
	assert.Equal(t, "https://grafana.lan", c[0].URL)
}
