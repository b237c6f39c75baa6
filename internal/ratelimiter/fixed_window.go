package ratelimiter

import (
	"sync"
	"time"
)

type FixedWindowRateLimiter struct {
	sync.Mutex
	clients map[string]*window
	limit   int
	window  time.Duration
	now     func() time.Time
}

type window struct {
	start time.Time
	count int
}

func NewFixedWindowLimiter(limit int, w time.Duration) *FixedWindowRateLimiter {
	return &FixedWindowRateLimiter{
		clients: make(map[string]*window),
		limit:   limit,
		window:  w,
		now:     time.Now,
	}
}

// Allow counts a request from ip and reports whether it fits the current
// window. When it does not, the returned duration is the time until the
// window resets.
func (rl *FixedWindowRateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.Lock()
	defer rl.Unlock()

	now := rl.now()
	c, ok := rl.clients[ip]
	if !ok || now.Sub(c.start) >= rl.window {
		rl.evict(now)
		rl.clients[ip] = &window{start: now, count: 1}
		return true, 0
	}

	if c.count < rl.limit {
		c.count++
		return true, 0
	}

	return false, rl.window - now.Sub(c.start)
}

func (rl *FixedWindowRateLimiter) evict(now time.Time) {
	for ip, c := range rl.clients {
		if now.Sub(c.start) >= rl.window {
			delete(rl.clients, ip)
		}
	}
}
