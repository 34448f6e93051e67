package service

import (
	"sync"
	"time"

	"storage-server/internal/config"
)

// failureRecord 某个键（账号或 IP）的连续失败记录
type failureRecord struct {
	failures    int
	lastFailure time.Time
	lockedUntil time.Time
}

// LoginLimiter 登录失败限制。连续失败达到上限后临时锁定，
// 距最后一次失败超过 resetAfter 时计数归零
type LoginLimiter struct {
	mu           sync.Mutex
	records      map[string]*failureRecord
	maxAttempts  int
	lockDuration time.Duration
	resetAfter   time.Duration
}

var (
	accountLimiter   *LoginLimiter
	ipLimiter        *LoginLimiter
	loginLimiterOnce sync.Once
)

// GetLoginLimiter 账号级限制器单例
func GetLoginLimiter() *LoginLimiter {
	initLimiters()
	return accountLimiter
}

// GetIPLoginLimiter IP 级限制器单例
func GetIPLoginLimiter() *LoginLimiter {
	initLimiters()
	return ipLimiter
}

func initLimiters() {
	loginLimiterOnce.Do(func() {
		sec := config.Get().Security
		accountLimiter = NewLoginLimiter(
			sec.MaxLoginAttempts,
			time.Duration(sec.LoginLockMinutes)*time.Minute,
			30*time.Minute,
		)
		ipLimiter = NewLoginLimiter(
			sec.IPMaxAttempts,
			time.Duration(sec.IPLockMinutes)*time.Minute,
			time.Hour,
		)
	})
}

// NewLoginLimiter 创建登录限制器
func NewLoginLimiter(maxAttempts int, lockDuration, resetAfter time.Duration) *LoginLimiter {
	ll := &LoginLimiter{
		records:      make(map[string]*failureRecord),
		maxAttempts:  maxAttempts,
		lockDuration: lockDuration,
		resetAfter:   resetAfter,
	}
	go ll.evictLoop()
	return ll
}

// record 取出记录，顺带处理计数重置。调用方必须持有锁
func (ll *LoginLimiter) record(key string, now time.Time) *failureRecord {
	rec, ok := ll.records[key]
	if !ok {
		rec = &failureRecord{}
		ll.records[key] = rec
	} else if now.Sub(rec.lastFailure) > ll.resetAfter {
		rec.failures = 0
	}
	return rec
}

// IsLocked 是否处于锁定期，以及剩余锁定时长
func (ll *LoginLimiter) IsLocked(key string) (bool, time.Duration) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	rec, ok := ll.records[key]
	if !ok || !time.Now().Before(rec.lockedUntil) {
		return false, 0
	}
	return true, time.Until(rec.lockedUntil)
}

// RecordFailure 记一次失败。达到上限时锁定并返回锁定时长
func (ll *LoginLimiter) RecordFailure(key string) (locked bool, remaining time.Duration) {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	now := time.Now()
	rec := ll.record(key, now)
	rec.failures++
	rec.lastFailure = now

	if rec.failures >= ll.maxAttempts {
		rec.lockedUntil = now.Add(ll.lockDuration)
		return true, ll.lockDuration
	}
	return false, 0
}

// RecordSuccess 登录成功，清除失败记录
func (ll *LoginLimiter) RecordSuccess(key string) {
	ll.mu.Lock()
	defer ll.mu.Unlock()
	delete(ll.records, key)
}

// GetRemainingAttempts 锁定前还允许的失败次数
func (ll *LoginLimiter) GetRemainingAttempts(key string) int {
	ll.mu.Lock()
	defer ll.mu.Unlock()

	rec, ok := ll.records[key]
	if !ok || time.Since(rec.lastFailure) > ll.resetAfter {
		return ll.maxAttempts
	}
	if remaining := ll.maxAttempts - rec.failures; remaining > 0 {
		return remaining
	}
	return 0
}

// evictLoop 定期清理过了锁定期且久未失败的记录
func (ll *LoginLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	for range ticker.C {
		ll.mu.Lock()
		now := time.Now()
		for key, rec := range ll.records {
			if now.After(rec.lockedUntil) && now.Sub(rec.lastFailure) > ll.resetAfter {
				delete(ll.records, key)
			}
		}
		ll.mu.Unlock()
	}
}
