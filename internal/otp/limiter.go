package otp

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxTrackedKeys bounds the limiter map; past it the map is reset.
const maxTrackedKeys = 10000

// limiter keeps one token bucket per account and channel.
type limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	every    rate.Limit
	burst    int
}

// newLimiter returns nil, which allows everything, when perHour <= 0.
func newLimiter(perHour, burst int) *limiter {
	if perHour <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &limiter{
		limiters: make(map[string]*rate.Limiter),
		every:    rate.Every(time.Hour / time.Duration(perHour)),
		burst:    burst,
	}
}

func (l *limiter) allow(key string, now time.Time) bool {
	if l == nil {
		return true
	}
	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		if len(l.limiters) >= maxTrackedKeys {
			l.limiters = make(map[string]*rate.Limiter)
		}
		lim = rate.NewLimiter(l.every, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()
	return lim.AllowN(now, 1)
}
