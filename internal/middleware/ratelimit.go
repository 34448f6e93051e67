package middleware

import (
	"sync"
	"time"

	"storage-server/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// visitor 单个来源在当前窗口内的请求记录
type visitor struct {
	times    []time.Time
	lastSeen time.Time
}

// RateLimiter 按来源 IP 的滑动窗口限流。
// 上传接口请求体大，限流必须在读 body 之前挡掉超额请求
type RateLimiter struct {
	visitors map[string]*visitor
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

// NewRateLimiter 创建速率限制器
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
	}
	go rl.evictLoop()
	return rl
}

// Allow 检查是否允许请求，允许时计入本次请求
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	v, ok := rl.visitors[key]
	if !ok {
		v = &visitor{}
		rl.visitors[key] = v
	}
	v.lastSeen = now

	// 原地裁掉窗口外的记录
	cutoff := now.Add(-rl.window)
	i := 0
	for ; i < len(v.times); i++ {
		if v.times[i].After(cutoff) {
			break
		}
	}
	v.times = v.times[i:]

	if len(v.times) >= rl.limit {
		return false
	}
	v.times = append(v.times, now)
	return true
}

// evictLoop 定期淘汰长时间无请求的来源
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(time.Minute)
	for range ticker.C {
		rl.mu.Lock()
		cutoff := time.Now().Add(-rl.window)
		for key, v := range rl.visitors {
			if v.lastSeen.Before(cutoff) {
				delete(rl.visitors, key)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitMiddleware 速率限制中间件
func RateLimitMiddleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			response.Error(c, 429, "请求过于频繁，请稍后再试")
			c.Abort()
			return
		}
		c.Next()
	}
}
