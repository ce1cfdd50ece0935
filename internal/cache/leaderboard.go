// Package cache holds the leaderboard snapshot in Redis. The snapshot is a
// disposable projection of the ledger: it is overwritten wholesale on every
// successful mutation and repopulated on demand after a miss, and a corrupt
// payload is indistinguishable from a miss.
package cache

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/py-dev-nandini-12/tier-system/internal/db"
	apperrors "github.com/py-dev-nandini-12/tier-system/internal/errors"
	"github.com/py-dev-nandini-12/tier-system/pkg/logger"
)

const (
	// DefaultKey is the single Redis key holding the serialized snapshot.
	DefaultKey = "leaderboard"
	// DefaultTTL is a staleness backstop only; correctness never depends
	// on expiry because every mutation overwrites the key.
	DefaultTTL = time.Hour
)

// Config carries the Redis connection settings for the leaderboard cache.
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Key      string
	TTL      time.Duration
}

// ConfigFromEnv reads Redis settings from the environment with local
// development defaults.
func ConfigFromEnv() Config {
	port := 6379
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			port = p
		}
	}
	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if d, err := strconv.Atoi(v); err == nil {
			redisDB = d
		}
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "localhost"
	}
	return Config{
		Host:     host,
		Port:     port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       redisDB,
		Key:      DefaultKey,
		TTL:      DefaultTTL,
	}
}

// Leaderboard is the Redis-backed snapshot store.
type Leaderboard struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLeaderboard connects to Redis using cfg. The connection is validated
// with a best-effort ping; an unreachable cache degrades reads to store
// queries rather than failing startup.
func NewLeaderboard(cfg Config) *Leaderboard {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Host + ":" + strconv.Itoa(cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("Redis unreachable at startup, leaderboard reads will fall through to the store: %v", err)
	}

	return NewLeaderboardWithClient(client, cfg.Key, cfg.TTL)
}

// NewLeaderboardWithClient wraps an existing client; used by tests.
func NewLeaderboardWithClient(client *redis.Client, key string, ttl time.Duration) *Leaderboard {
	if key == "" {
		key = DefaultKey
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Leaderboard{client: client, key: key, ttl: ttl}
}

// Read returns the cached snapshot and true on a hit. Absent keys, Redis
// errors and undecodable payloads all report a miss; the payload is data,
// decoded strictly as JSON, never evaluated.
func (l *Leaderboard) Read(ctx context.Context) ([]db.LeaderboardEntry, bool) {
	raw, err := l.client.Get(ctx, l.key).Bytes()
	if err != nil {
		if err != redis.Nil {
			logger.Warn("leaderboard cache read failed: %v", err)
		}
		return nil, false
	}

	var entries []db.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Warn("leaderboard cache payload corrupt, treating as miss: %v", err)
		return nil, false
	}
	return entries, true
}

// Write replaces the cached snapshot unconditionally.
func (l *Leaderboard) Write(ctx context.Context, entries []db.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return &apperrors.CacheError{Operation: "marshal snapshot", Err: err}
	}
	if err := l.client.Set(ctx, l.key, raw, l.ttl).Err(); err != nil {
		return &apperrors.CacheError{Operation: "write snapshot", Err: err}
	}
	return nil
}

// Invalidate clears the cached snapshot.
func (l *Leaderboard) Invalidate(ctx context.Context) error {
	if err := l.client.Del(ctx, l.key).Err(); err != nil {
		return &apperrors.CacheError{Operation: "invalidate snapshot", Err: err}
	}
	return nil
}

func (l *Leaderboard) Close() error {
	return l.client.Close()
}
