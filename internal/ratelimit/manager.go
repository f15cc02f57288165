package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const redisBreakerDuration = 30 * time.Second

// SettingsProvider supplies the latest settings snapshot.
type SettingsProvider func() SettingsConfig

// RedisClientFactory constructs a Redis client for the given options.
type RedisClientFactory func(options *redis.Options) *redis.Client

type redisConfig struct {
	addr     string
	password string
	prefix   string
	db       int
}

// Manager selects a limiter backend and enforces rate limits. Redis is
// preferred when enabled; on Redis errors a breaker falls the manager
// back to the in-memory limiter for a short period.
type Manager struct {
	provider       SettingsProvider
	nowFn          func() time.Time
	memoryLimiter  Limiter
	newRedisClient RedisClientFactory
	mu             sync.Mutex
	redisLimiter   *RedisLimiter
	redisCfg       redisConfig
	breakerUntil   time.Time
}

// NewManager constructs a Manager with default dependencies when nil.
func NewManager(provider SettingsProvider, nowFn func() time.Time, newRedisClient RedisClientFactory) *Manager {
	if nowFn == nil {
		nowFn = time.Now
	}
	if newRedisClient == nil {
		newRedisClient = redis.NewClient
	}
	return &Manager{
		provider:       provider,
		nowFn:          nowFn,
		memoryLimiter:  NewMemoryLimiter(),
		newRedisClient: newRedisClient,
	}
}

// Allow checks whether the request should be allowed using the best
// available backend.
func (m *Manager) Allow(ctx context.Context, key string) (Result, error) {
	if m == nil || m.provider == nil || key == "" {
		return Result{Allowed: true}, nil
	}
	now := m.nowFn()
	cfg := m.provider()
	if cfg.MaxRequests <= 0 || cfg.Window <= 0 {
		return Result{Allowed: true}, nil
	}

	if cfg.RedisEnabled && cfg.RedisAddr != "" {
		if result, ok := m.allowRedis(ctx, key, now, cfg); ok {
			return result, nil
		}
	}
	return m.memoryLimiter.Allow(ctx, key, cfg.MaxRequests, cfg.Window, now)
}

func (m *Manager) allowRedis(ctx context.Context, key string, now time.Time, cfg SettingsConfig) (Result, bool) {
	if ctx == nil {
		ctx = context.Background()
	}
	if m.isBreakerActive(now) {
		return Result{}, false
	}
	limiter := m.ensureRedis(cfg)
	if limiter == nil {
		return Result{}, false
	}
	result, errAllow := limiter.Allow(ctx, key, cfg.MaxRequests, cfg.Window, now)
	if errAllow != nil {
		m.tripBreaker(errAllow, now)
		return Result{}, false
	}
	return result, true
}

func (m *Manager) isBreakerActive(now time.Time) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.breakerUntil.IsZero() {
		return false
	}
	if now.Before(m.breakerUntil) {
		return true
	}
	m.breakerUntil = time.Time{}
	return false
}

func (m *Manager) tripBreaker(err error, now time.Time) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakerUntil = now.Add(redisBreakerDuration)
	log.WithError(err).Warn("rate limit redis unavailable, falling back to memory limiter")
}

// ensureRedis returns a Redis limiter for the current settings, rebuilding
// the client when the connection settings changed.
func (m *Manager) ensureRedis(cfg SettingsConfig) *RedisLimiter {
	next := redisConfig{
		addr:     cfg.RedisAddr,
		password: cfg.RedisPassword,
		prefix:   cfg.RedisPrefix,
		db:       cfg.RedisDB,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redisLimiter != nil && m.redisCfg == next {
		return m.redisLimiter
	}
	if m.redisLimiter != nil && m.redisLimiter.client != nil {
		_ = m.redisLimiter.client.Close()
	}
	client := m.newRedisClient(&redis.Options{
		Addr:     next.addr,
		Password: next.password,
		DB:       next.db,
	})
	if client == nil {
		return nil
	}
	m.redisLimiter = NewRedisLimiter(client, next.prefix)
	m.redisCfg = next
	return m.redisLimiter
}
