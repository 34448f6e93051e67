package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GenerateUUID 生成 UUID
func GenerateUUID() string {
	return uuid.New().String()
}

// GenerateRandomString 生成随机字符串
func GenerateRandomString(length int) string {
	bytes := make([]byte, length/2+1)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)[:length]
}

// GenerateInviteCode 生成邀请码（不透明随机串，不含可解码结构）
func GenerateInviteCode() string {
	return GenerateRandomString(32)
}

// ParsePagination 解析分页参数。page >= 1，limit 限制在 1-100
func ParsePagination(c *gin.Context, defaultLimit int) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// ParseDateRange 解析 startDate/endDate 查询参数（ISO-8601，闭区间）。
// 纯日期的 endDate 会扩展到当天结束
func ParseDateRange(c *gin.Context) (start, end *time.Time) {
	if s := c.Query("startDate"); s != "" {
		if t, err := parseISODate(s); err == nil {
			start = &t
		}
	}
	if s := c.Query("endDate"); s != "" {
		if t, err := parseISODate(s); err == nil {
			if !strings.Contains(s, "T") {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			end = &t
		}
	}
	return start, end
}

func parseISODate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}

// MaskEmail 隐藏邮箱中间部分
func MaskEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	name := parts[0]
	if len(name) <= 2 {
		return email
	}
	return name[0:1] + "***" + name[len(name)-1:] + "@" + parts[1]
}
