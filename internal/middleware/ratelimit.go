package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/benvon/metric-tracker/internal/request"
	"github.com/redis/go-redis/v9"
	"github.com/ulule/limiter/v3"
	stdlibmw "github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"
	redisstore "github.com/ulule/limiter/v3/drivers/store/redis"
	"go.uber.org/zap"
)

const (
	// DefaultRateLimit allows 20 requests per second per client
	DefaultRateLimit = "20-S"

	rateLimitPrefix = "metric_tracker_ratelimit"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return client, nil
}

// RedisPinger adapts a Redis client to a health check
type RedisPinger struct {
	Client *redis.Client
}

// Ping checks if Redis is reachable
func (p RedisPinger) Ping(ctx context.Context) error {
	return p.Client.Ping(ctx).Err()
}

// ParseRate validates a limiter rate such as "100-M" or "5-S"
func ParseRate(formatted string) (limiter.Rate, error) {
	if formatted == "" {
		formatted = DefaultRateLimit
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return limiter.Rate{}, fmt.Errorf("invalid rate limit %q: %w", formatted, err)
	}
	return rate, nil
}

// RateLimit limits requests per client IP. Counters live in Redis when a client
// is given and in process memory otherwise.
func RateLimit(rate limiter.Rate, redisClient *redis.Client, logger *zap.Logger) (func(http.Handler) http.Handler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var store limiter.Store
	if redisClient != nil {
		s, err := redisstore.NewStoreWithOptions(redisClient, limiter.StoreOptions{
			Prefix:   rateLimitPrefix,
			MaxRetry: 3,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis rate limit store: %w", err)
		}
		store = s
	} else {
		store = memorystore.NewStoreWithOptions(limiter.StoreOptions{
			Prefix:          rateLimitPrefix,
			CleanUpInterval: time.Minute,
		})
	}

	instance := limiter.New(store, rate)
	mw := stdlibmw.NewMiddleware(instance,
		stdlibmw.WithKeyGetter(request.ClientIP),
		stdlibmw.WithLimitReachedHandler(func(w http.ResponseWriter, r *http.Request) {
			respondErrorJSON(w, r, http.StatusTooManyRequests, "Too Many Requests", "Rate limit exceeded", logger)
		}),
		stdlibmw.WithErrorHandler(func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Error("rate_limit_store_error", zap.Error(err))
			respondErrorJSON(w, r, http.StatusInternalServerError, "Internal Server Error", "An unexpected error occurred", logger)
		}),
	)
	return mw.Handler, nil
}
