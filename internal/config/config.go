package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/MrSnakeDoc/bookmarks/internal/storage"
)

// EnvPrefix is prepended to every environment variable, e.g. BOOKMARKS_LISTEN_PORT.
const EnvPrefix = "BOOKMARKS"

// EnvConfigFile names an optional yaml config file.
const EnvConfigFile = EnvPrefix + "_CONFIG"

type Config struct {
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s
	RequestTimeout  time.Duration // per-request timeout

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	File           string        // path to the bookmarks JSON file
	SearchDebounce time.Duration // delay before a typed search is applied
	NotifyTTL      time.Duration // how long a notification banner stays visible

	// Redis mirror (optional, empty RedisAddr = disabled)
	RedisAddr             string        // ex: "localhost:6379"
	RedisUser             string        // optional
	RedisPassword         string        // optional
	RedisPasswordRequired bool          // true => require password, false => allow empty password
	RedisDB               int           // Redis DB number
	RedisDT               time.Duration // Redis dial timeout (ex: 5s)
	RedisRT               time.Duration // Redis read timeout (ex: 3s)
	RedisWT               time.Duration // Redis write timeout (ex: 3s)
	RedisMaxWait          time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout      time.Duration // timeout for each ping attempt (ex: 5s)
	RedisPoolSize         int           // Redis connection pool size
	RedisConnectTimeout   time.Duration // Total time to retry connecting (ex: 10s)
	RedisRetryInterval    time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisWarnThreshold    int           // warn after this many attempts

	AllowedHosts []string // optional, restrict access to specific Host headers
	AllowedCIDRS []string // optional, restrict access to specific IP (e.g. "1.2.3.4, 10.0.0.0/8")
	TrustProxy   bool     // true => trust X-Forwarded-For headers (e.g. cloudflared)

	AllowedOrigins []string // optional, origins allowed to call the API from a browser (e.g. the Cockpit console)

	RateLimitBurst     int // requests allowed at once per client IP
	RateLimitPerMinute int // sustained requests per minute per client IP
}

func defaults(v *viper.Viper) {
	v.SetDefault("listen_port", ":8080")
	v.SetDefault("shutdown_timeout", 5*time.Second)
	v.SetDefault("request_timeout", 10*time.Second)

	v.SetDefault("log_level", "info")
	v.SetDefault("pretty_log", true)

	v.SetDefault("file", storage.DefaultPath)
	v.SetDefault("search_debounce", 300*time.Millisecond)
	v.SetDefault("notify_ttl", 4*time.Second)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.password_required", false)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.max_wait", 10*time.Second)
	v.SetDefault("redis.ping_timeout", 5*time.Second)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.connect_timeout", 10*time.Second)
	v.SetDefault("redis.retry_interval", 2*time.Second)
	v.SetDefault("redis.warn_threshold", 3)

	v.SetDefault("allowed_hosts", "")
	v.SetDefault("allowed_cidrs", "")
	v.SetDefault("trust_proxy", false)
	v.SetDefault("allowed_origins", "")

	v.SetDefault("rate_limit.burst", 60)
	v.SetDefault("rate_limit.per_minute", 120)
}

// Load reads the configuration from defaults, an optional yaml file and
// BOOKMARKS_* environment variables, in increasing priority. path overrides
// BOOKMARKS_CONFIG; a missing file is only an error when one was named.
func Load(path string) (*Config, error) {
	v := viper.New()
	defaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bookmarks")
		v.SetConfigType("yaml")
		v.AddConfigPath("/etc/bookmarks")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{
		// Server settings
		ListenPort:      v.GetString("listen_port"),
		ShutdownTimeout: mustDuration(v, "shutdown_timeout"),
		RequestTimeout:  mustDuration(v, "request_timeout"),

		// Logging
		LogLevel:  strings.ToLower(v.GetString("log_level")),
		PrettyLog: v.GetBool("pretty_log"),

		// Bookmarks
		File:           v.GetString("file"),
		SearchDebounce: mustDuration(v, "search_debounce"),
		NotifyTTL:      mustDuration(v, "notify_ttl"),

		// Redis settings
		RedisAddr:             v.GetString("redis.addr"),
		RedisUser:             v.GetString("redis.username"),
		RedisPassword:         v.GetString("redis.password"),
		RedisPasswordRequired: v.GetBool("redis.password_required"),
		RedisDB:               v.GetInt("redis.db"),
		RedisDT:               mustDuration(v, "redis.dial_timeout"),
		RedisRT:               mustDuration(v, "redis.read_timeout"),
		RedisWT:               mustDuration(v, "redis.write_timeout"),
		RedisMaxWait:          mustDuration(v, "redis.max_wait"),
		RedisPingTimeout:      mustDuration(v, "redis.ping_timeout"),
		RedisPoolSize:         v.GetInt("redis.pool_size"),
		RedisConnectTimeout:   mustDuration(v, "redis.connect_timeout"),
		RedisRetryInterval:    mustDuration(v, "redis.retry_interval"),
		RedisWarnThreshold:    v.GetInt("redis.warn_threshold"),

		// Access restrictions
		AllowedHosts: stringSlice(v, "allowed_hosts"),
		AllowedCIDRS: stringSlice(v, "allowed_cidrs"),
		TrustProxy:   v.GetBool("trust_proxy"),

		AllowedOrigins: stringSlice(v, "allowed_origins"),

		RateLimitBurst:     v.GetInt("rate_limit.burst"),
		RateLimitPerMinute: v.GetInt("rate_limit.per_minute"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MirrorEnabled reports whether snapshots are copied to Redis.
func (c *Config) MirrorEnabled() bool { return c.RedisAddr != "" }

// Redacted returns a copy safe to log.
func (c *Config) Redacted() Config {
	cp := *c
	if cp.RedisPassword != "" {
		cp.RedisPassword = "***REDACTED***"
	}
	if cp.RedisUser != "" {
		cp.RedisUser = "***REDACTED***"
	}
	return cp
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.File) == "" {
		return fmt.Errorf("%s_FILE must not be empty", EnvPrefix)
	}
	if c.MirrorEnabled() && c.RedisPasswordRequired && c.RedisPassword == "" {
		return fmt.Errorf("%s_REDIS_PASSWORD is required when %s_REDIS_PASSWORD_REQUIRED=true", EnvPrefix, EnvPrefix)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// helpers

// mustDuration accepts "300ms"-style strings and falls back to the default
// when the value does not parse.
func mustDuration(v *viper.Viper, key string) time.Duration {
	s, ok := v.Get(key).(string)
	if !ok {
		return v.GetDuration(key)
	}
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
		return d
	}
	return defaultDuration(key)
}

func defaultDuration(key string) time.Duration {
	d := viper.New()
	defaults(d)
	return d.GetDuration(key)
}

// stringSlice reads either a yaml list or a comma separated string.
func stringSlice(v *viper.Viper, key string) []string {
	switch raw := v.Get(key).(type) {
	case nil:
		return nil
	case string:
		return splitAndTrim(raw)
	default:
		return splitAndTrim(strings.Join(v.GetStringSlice(key), ","))
	}
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
