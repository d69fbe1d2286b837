package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// ipLimiter 按 IP 记录窗口内的请求时间
type ipLimiter struct {
	mu      sync.Mutex
	window  time.Duration
	max     int
	history map[string][]time.Time
}

// allow 判断该 IP 是否还能请求，并记录本次尝试
func (l *ipLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := now.Add(-l.window)
	recent := l.history[ip][:0]
	for _, t := range l.history[ip] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.max {
		l.history[ip] = recent
		return false
	}
	l.history[ip] = append(recent, now)
	return true
}

// sweep 定期清理窗口外的 IP 记录
func (l *ipLimiter) sweep() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)
		for ip, ts := range l.history {
			recent := ts[:0]
			for _, t := range ts {
				if t.After(cutoff) {
					recent = append(recent, t)
				}
			}
			if len(recent) == 0 {
				delete(l.history, ip)
			} else {
				l.history[ip] = recent
			}
		}
		l.mu.Unlock()
	}
}

// LoginRateLimit 登录接口限流中间件
// 每 IP 在 window 内最多 maxAttempts 次尝试，超过则返回 429
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	limiter := &ipLimiter{
		window:  window,
		max:     maxAttempts,
		history: make(map[string][]time.Time),
	}
	go limiter.sweep()

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "登录尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
