package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvConfigFile, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 5s", cfg.ShutdownTimeout)
	}
	if cfg.LogLevel != "info" || !cfg.PrettyLog {
		t.Errorf("logging = %q/%v, want info/true", cfg.LogLevel, cfg.PrettyLog)
	}
	if cfg.File != "/etc/cockpit/bookmarks.json" {
		t.Errorf("File = %q", cfg.File)
	}
	if cfg.SearchDebounce != 300*time.Millisecond {
		t.Errorf("SearchDebounce = %v, want 300ms", cfg.SearchDebounce)
	}
	if cfg.NotifyTTL != 4*time.Second {
		t.Errorf("NotifyTTL = %v, want 4s", cfg.NotifyTTL)
	}
	if cfg.MirrorEnabled() {
		t.Error("redis mirror should be disabled by default")
	}
	if cfg.AllowedHosts != nil || cfg.AllowedCIDRS != nil {
		t.Errorf("access lists should be empty, got %v / %v", cfg.AllowedHosts, cfg.AllowedCIDRS)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("BOOKMARKS_LISTEN_PORT", ":9090")
	t.Setenv("BOOKMARKS_FILE", "/tmp/b.json")
	t.Setenv("BOOKMARKS_SEARCH_DEBOUNCE", "150ms")
	t.Setenv("BOOKMARKS_PRETTY_LOG", "false")
	t.Setenv("BOOKMARKS_LOG_LEVEL", "DEBUG")
	t.Setenv("BOOKMARKS_REDIS_ADDR", "localhost:6379")
	t.Setenv("BOOKMARKS_REDIS_DB", "2")
	t.Setenv("BOOKMARKS_ALLOWED_CIDRS", "10.0.0.0/8, '192.168.1.10'")
	t.Setenv("BOOKMARKS_RATE_LIMIT_BURST", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenPort != ":9090" || cfg.File != "/tmp/b.json" {
		t.Errorf("ListenPort/File = %q/%q", cfg.ListenPort, cfg.File)
	}
	if cfg.SearchDebounce != 150*time.Millisecond {
		t.Errorf("SearchDebounce = %v", cfg.SearchDebounce)
	}
	if cfg.PrettyLog {
		t.Error("PrettyLog should be false")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if !cfg.MirrorEnabled() || cfg.RedisDB != 2 {
		t.Errorf("redis = %q db %d", cfg.RedisAddr, cfg.RedisDB)
	}
	if want := []string{"10.0.0.0/8", "192.168.1.10"}; !reflect.DeepEqual(cfg.AllowedCIDRS, want) {
		t.Errorf("AllowedCIDRS = %v, want %v", cfg.AllowedCIDRS, want)
	}
	if cfg.RateLimitBurst != 5 {
		t.Errorf("RateLimitBurst = %d", cfg.RateLimitBurst)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookmarks.yaml")
	content := `listen_port: ":7000"
notify_ttl: 10s
allowed_hosts:
  - panel.example.com
  - "*.lan"
redis:
  addr: redis:6379
  pool_size: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(EnvConfigFile, path)
	t.Setenv("BOOKMARKS_LISTEN_PORT", ":7001")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ListenPort != ":7001" {
		t.Errorf("env should override the file, got %q", cfg.ListenPort)
	}
	if cfg.NotifyTTL != 10*time.Second {
		t.Errorf("NotifyTTL = %v", cfg.NotifyTTL)
	}
	if want := []string{"panel.example.com", "*.lan"}; !reflect.DeepEqual(cfg.AllowedHosts, want) {
		t.Errorf("AllowedHosts = %v, want %v", cfg.AllowedHosts, want)
	}
	if cfg.RedisAddr != "redis:6379" || cfg.RedisPoolSize != 3 {
		t.Errorf("redis = %q pool %d", cfg.RedisAddr, cfg.RedisPoolSize)
	}
}

func TestLoadMissingNamedFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with a missing named file should fail")
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"redis password required", map[string]string{
			"BOOKMARKS_REDIS_ADDR":              "localhost:6379",
			"BOOKMARKS_REDIS_PASSWORD_REQUIRED": "true",
		}},
		{"bad log level", map[string]string{"BOOKMARKS_LOG_LEVEL": "loud"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvConfigFile, "")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(""); err == nil {
				t.Error("Load() should fail validation")
			}
		})
	}
}

func TestMustDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv(EnvConfigFile, "")
	t.Setenv("BOOKMARKS_SHUTDOWN_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ShutdownTimeout != 5*time.Second {
		t.Errorf("ShutdownTimeout = %v, want default 5s", cfg.ShutdownTimeout)
	}
}

func TestRedacted(t *testing.T) {
	cfg := &Config{RedisUser: "admin", RedisPassword: "secret"}
	r := cfg.Redacted()
	if r.RedisPassword == "secret" || r.RedisUser == "admin" {
		t.Errorf("Redacted() leaked credentials: %+v", r)
	}
	if cfg.RedisPassword != "secret" {
		t.Error("Redacted() must not modify the original")
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a", []string{"a"}},
		{"value1, value2, value3", []string{"value1", "value2", "value3"}},
		{` "a" , , 'b' `, []string{"a", "b"}},
	}
	for _, tt := range tests {
		if got := splitAndTrim(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
