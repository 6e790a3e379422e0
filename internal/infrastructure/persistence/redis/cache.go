// Package redis implements the statistics cache for the course platform.
// Expensive aggregate queries (enrollment counts, views, earnings) are
// memoized with a day-boundary TTL: every cached value expires at the end
// of the current calendar day, which bounds staleness to one day and lets
// all same-day requests for a key observe one computed value.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/eduhub/course-hub/pkg/logger"
	"github.com/eduhub/course-hub/pkg/timeutil"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		DB:           0,
		PoolSize:     10,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrCacheMiss is returned when the requested key is not found in cache.
	ErrCacheMiss = errors.New("cache: key not found")

	// ErrCacheConnection is returned when the Redis connection fails.
	ErrCacheConnection = errors.New("cache: connection failed")

	// ErrCacheSerialization is returned when (de)serialization fails.
	ErrCacheSerialization = errors.New("cache: serialization failed")

	// ErrCacheKeyEmpty is returned when an empty key is provided.
	ErrCacheKeyEmpty = errors.New("cache: key cannot be empty")
)

// ══════════════════════════════════════════════════════════════════════════════
// STATS CACHE
// ══════════════════════════════════════════════════════════════════════════════

// redisClient is the slice of the go-redis API the cache uses. Tests swap
// in an in-memory implementation.
type redisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// StatsCache caches statistic query results in Redis.
type StatsCache struct {
	client redisClient
	config Config
	log    *logger.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewStatsCache creates a StatsCache and verifies connectivity.
func NewStatsCache(cfg Config, log *logger.Logger) (*StatsCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheConnection, err)
	}

	return &StatsCache{
		client: client,
		config: cfg,
		log:    log,
		now:    timeutil.Now,
	}, nil
}

// Close closes the Redis connection.
func (c *StatsCache) Close() error {
	return c.client.Close()
}

// Ping checks if Redis is reachable.
func (c *StatsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Get retrieves and deserializes a value by key.
// Returns ErrCacheMiss if the key doesn't exist.
func (c *StatsCache) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}

	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrCacheMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	return nil
}

// SetUntilEndOfDay stores a value that expires at the end of the current
// calendar day, regardless of when within the day it was computed.
func (c *StatsCache) SetUntilEndOfDay(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return ErrCacheKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCacheSerialization, err)
	}

	return c.client.Set(ctx, key, data, timeutil.UntilEndOfDay(c.now())).Err()
}

// Delete removes keys from the cache.
func (c *StatsCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// GetOrCompute returns the cached value for key, computing and storing it
// with the day-boundary TTL on a miss.
//
// Cache failures fail open: when Redis is unavailable the value is computed
// directly and the request still succeeds. Concurrent misses on the same key
// may each compute; the computations are idempotent and last write wins.
func GetOrCompute[T any](ctx context.Context, c *StatsCache, key string, compute func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	err := c.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) {
		c.log.Warn("stats cache read failed, computing directly",
			logger.F("key", key), logger.Err(err))
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.SetUntilEndOfDay(ctx, key, value); err != nil {
		c.log.Warn("stats cache write failed",
			logger.F("key", key), logger.Err(err))
	}

	return value, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// KEY HELPERS
// Callers are responsible for collision avoidance across query shapes; these
// helpers keep every statistic in its own namespace.
// ══════════════════════════════════════════════════════════════════════════════

// EnrollmentsKey is the cache key for a course's enrollments-by-day series.
func EnrollmentsKey(courseID string, start time.Time) string {
	return fmt.Sprintf("stats:enrollments:%s:%s", courseID, timeutil.FormatDateStr(start))
}

// TeacherEarningsKey is the cache key for a teacher's earnings-by-day series.
func TeacherEarningsKey(teacherID string, start time.Time) string {
	return fmt.Sprintf("stats:teacher-earnings:%s:%s", teacherID, timeutil.FormatDateStr(start))
}

// TeacherEnrollmentsKey is the cache key for a teacher's enrollments-by-day series.
func TeacherEnrollmentsKey(teacherID string, start time.Time) string {
	return fmt.Sprintf("stats:teacher-enrollments:%s:%s", teacherID, timeutil.FormatDateStr(start))
}

// TeacherTotalEnrollmentsKey is the cache key for a teacher's total enrollment count.
func TeacherTotalEnrollmentsKey(teacherID string) string {
	return "stats:teacher-total-enrollments:" + teacherID
}

// TeacherTotalEarnedKey is the cache key for a teacher's lifetime earnings.
func TeacherTotalEarnedKey(teacherID string) string {
	return "stats:teacher-total-earned:" + teacherID
}

// UserActivityKey is the cache key for the active-users-by-day series.
func UserActivityKey(start time.Time) string {
	return "stats:user-activity:" + timeutil.FormatDateStr(start)
}

// CourseViewsKey is the cache key for a course's total view count.
func CourseViewsKey(courseID string) string {
	return "stats:course-views:" + courseID
}

// CourseViewsSeriesKey is the cache key for a course's views-by-day series.
func CourseViewsSeriesKey(courseID string, start time.Time) string {
	return fmt.Sprintf("stats:course-views:%s:%s", courseID, timeutil.FormatDateStr(start))
}

// NewCoursesKey is the cache key for the new-courses-by-day series.
func NewCoursesKey(start time.Time) string {
	return "stats:new-courses:" + timeutil.FormatDateStr(start)
}

// NewUsersKey is the cache key for the new-users-by-day series.
func NewUsersKey(start time.Time) string {
	return "stats:new-users:" + timeutil.FormatDateStr(start)
}

// UsersByRoleKey is the cache key for the users-per-role grouping.
func UsersByRoleKey() string {
	return "stats:users-by-role"
}

// CoursesByTypeKey is the cache key for the courses-per-type grouping.
func CoursesByTypeKey() string {
	return "stats:courses-by-type"
}
