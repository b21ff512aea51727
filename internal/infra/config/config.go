package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config aggregates application configuration. Values come from the environment,
// then from the YAML file named by CONFIG_FILE, then from defaults.
type Config struct {
	Env                string
	HTTPAddr           string
	MongoURI           string
	MongoDB            string
	KafkaBrokers       []string
	KafkaTopicPrefix   string
	IdempotencyTTL     time.Duration
	OutboxPollInterval time.Duration
	RetryBackoff       []time.Duration
	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	JWTSecret          string
	SessionTTL         time.Duration
	RateLimit          string
	PollInterval       time.Duration
	BackendURL         string
	NotifyEmail        string
	NotifyToken        string
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	file := map[string]string{}
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read CONFIG_FILE: %w", err)
		}
		parsed, err := ParseFile(raw)
		if err != nil {
			return Config{}, err
		}
		file = parsed
	}
	return FromLookup(func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok && v != ""
	})
}

// ParseFile decodes a flat YAML mapping. Keys are matched case-insensitively against
// the environment variable names.
func ParseFile(raw []byte) (map[string]string, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse CONFIG_FILE: %w", err)
	}
	out := make(map[string]string, len(doc))
	for k, v := range doc {
		key := strings.ToUpper(strings.TrimSpace(k))
		switch val := v.(type) {
		case nil:
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprint(item))
			}
			out[key] = strings.Join(parts, ",")
		default:
			out[key] = fmt.Sprint(val)
		}
	}
	return out, nil
}

// FromLookup builds a Config from lookup, applying defaults.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	env := source(lookup)
	cfg := Config{
		Env:              env.str("APP_ENV", "dev"),
		HTTPAddr:         env.str("HTTP_ADDR", ":5005"),
		MongoURI:         env.str("MONGO_URI", ""),
		MongoDB:          env.str("MONGO_DB", "airbrb"),
		KafkaTopicPrefix: env.str("KAFKA_TOPIC_PREFIX", ""),
		RedisAddr:        env.str("REDIS_ADDR", ""),
		RedisPassword:    env.str("REDIS_PASSWORD", ""),
		JWTSecret:        env.str("JWT_SECRET", ""),
		RateLimit:        env.str("RATE_LIMIT", "20-S"),
		BackendURL:       strings.TrimRight(env.str("BACKEND_URL", "http://localhost:5005"), "/"),
		NotifyEmail:      env.str("NOTIFY_EMAIL", ""),
		NotifyToken:      env.str("NOTIFY_TOKEN", ""),
	}
	if brokers := env.str("KAFKA_BROKERS", ""); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	var err error
	if cfg.RedisDB, err = env.integer("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.IdempotencyTTL, err = env.duration("IDEMP_TTL", 168*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.OutboxPollInterval, err = env.duration("OUTBOX_POLL_INTERVAL", 500*time.Millisecond); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = env.duration("SESSION_TTL", 24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.PollInterval, err = env.duration("POLL_INTERVAL", time.Second); err != nil {
		return Config{}, err
	}

	retryStr := env.str("RETRY_BACKOFF", "1s,5s,30s")
	for _, raw := range strings.Split(retryStr, ",") {
		val := strings.TrimSpace(raw)
		if val == "" {
			continue
		}
		d, err := time.ParseDuration(val)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RETRY_BACKOFF component %q: %w", raw, err)
		}
		cfg.RetryBackoff = append(cfg.RetryBackoff, d)
	}

	if cfg.JWTSecret == "" {
		if !cfg.IsDev() {
			return Config{}, fmt.Errorf("JWT_SECRET is required when APP_ENV=%s", cfg.Env)
		}
		cfg.JWTSecret = "airbrb-dev-secret"
	}
	if cfg.PollInterval <= 0 {
		return Config{}, fmt.Errorf("POLL_INTERVAL must be positive")
	}
	return cfg, nil
}

// IsDev reports whether the process runs in a local development mode.
func (c Config) IsDev() bool {
	switch strings.ToLower(c.Env) {
	case "dev", "local", "test", "debug":
		return true
	default:
		return false
	}
}

type source func(string) (string, bool)

func (s source) str(key, def string) string {
	if v, ok := s(key); ok {
		return strings.TrimSpace(v)
	}
	return def
}

func (s source) duration(key string, def time.Duration) (time.Duration, error) {
	raw, ok := s(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s duration: %w", key, err)
	}
	return d, nil
}

func (s source) integer(key string, def int) (int, error) {
	raw, ok := s(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s integer: %w", key, err)
	}
	return n, nil
}
