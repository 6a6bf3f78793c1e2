package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Limiter décide si la clé peut passer ; retryAfter n'a de sens que si allowed=false.
type Limiter interface {
	Allow(ctx context.Context, key string) (allowed bool, retryAfter time.Duration, err error)
}

type counter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// WindowLimiter : fenêtre fixe sur un compteur partagé (Redis).
type WindowLimiter struct {
	counter counter
	max     int64
	window  time.Duration
}

func NewWindowLimiter(c counter, max int, window time.Duration) *WindowLimiter {
	return &WindowLimiter{counter: c, max: int64(max), window: window}
}

func (l *WindowLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	n, ttl, err := l.counter.Incr(ctx, key, l.window)
	if err != nil {
		return true, 0, err
	}
	if n > l.max {
		return false, ttl, nil
	}
	return true, 0, nil
}

// maxLocalKeys borne la mémoire du limiteur en mémoire ; au-delà la table est vidée.
const maxLocalKeys = 10000

// LocalLimiter : token bucket par clé, propre à l'instance. Utilisé quand Redis est absent.
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func NewLocalLimiter(perMinute int) *LocalLimiter {
	return &LocalLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    rate.Limit(float64(perMinute) / 60),
		burst:    perMinute,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxLocalKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	r := lim.Reserve()
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay, nil
	}
	return true, 0, nil
}

// RateLimit limite une route par IP client. Une erreur du limiteur laisse passer la requête.
func RateLimit(name string, limiter Limiter, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := name + ":" + c.ClientIP()

		allowed, retryAfter, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			LoggerFrom(c, log).Warn().Err(err).Str("key", key).Msg("⚠️ Limiteur indisponible, requête acceptée")
		}
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"message":     "too many requests",
				"retry_after": seconds,
			})
			return
		}
		c.Next()
	}
}
