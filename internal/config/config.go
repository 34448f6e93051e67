package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
	Email    EmailConfig    `yaml:"email"`
	Security SecurityConfig `yaml:"security"`
}

type ServerConfig struct {
	Host string    `yaml:"host"`
	Port int       `yaml:"port"`
	Mode string    `yaml:"mode"`
	TLS  TLSConfig `yaml:"tls"`

	// 请求超时（分钟）。上传大文件需要长连接，
	// 因此只限制请求头读取和空闲连接，整体超时单独配置
	RequestTimeoutMinutes int `yaml:"request_timeout_minutes"`
}

type TLSConfig struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type DatabaseConfig struct {
	Driver       string `yaml:"driver"`
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	Charset      string `yaml:"charset"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		d.Username, d.Password, d.Host, d.Port, d.Database, d.Charset)
}

type JWTConfig struct {
	Secret             string `yaml:"secret"`
	ExpireHours        int    `yaml:"expire_hours"`
	RefreshExpireHours int    `yaml:"refresh_expire_hours"`
}

type StorageConfig struct {
	UploadDir    string   `yaml:"upload_dir"`
	MaxUploadMB  int64    `yaml:"max_upload_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// AllowedExtension 检查扩展名是否在允许列表内（不含点，不区分大小写）
func (s *StorageConfig) AllowedExtension(ext string) bool {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	for _, t := range s.AllowedTypes {
		if ext == strings.ToLower(t) {
			return true
		}
	}
	return false
}

type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

type EmailConfig struct {
	Enabled  bool   `yaml:"enabled"`
	SMTPHost string `yaml:"smtp_host"`
	SMTPPort int    `yaml:"smtp_port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type SecurityConfig struct {
	// 登录安全
	MaxLoginAttempts int `yaml:"max_login_attempts"` // 最大登录尝试次数
	LoginLockMinutes int `yaml:"login_lock_minutes"` // 登录锁定时间（分钟）
	IPMaxAttempts    int `yaml:"ip_max_attempts"`    // IP 最大尝试次数
	IPLockMinutes    int `yaml:"ip_lock_minutes"`    // IP 锁定时间（分钟）

	// 密码策略
	PasswordMinLength int `yaml:"password_min_length"` // 密码最小长度

	// 安全头
	EnableSecurityHeaders bool `yaml:"enable_security_headers"` // 是否启用安全响应头

	// 允许的来源（CORS）
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var globalConfig *Config

func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("读取配置文件失败: %w", err)
		}
		// 配置文件可以不存在，全部走环境变量
	} else {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件失败: %w", err)
		}
	}

	// 环境变量覆盖（部署时注入数据库、密钥等敏感配置）
	applyEnvOverrides(&cfg)

	// 设置默认值
	setDefaults(&cfg)

	// 安全检查
	if err := validateSecurity(&cfg); err != nil {
		return nil, err
	}

	globalConfig = &cfg
	return &cfg, nil
}

func Get() *Config {
	return globalConfig
}

// Set 仅供测试注入配置
func Set(cfg *Config) {
	globalConfig = cfg
}

// applyEnvOverrides 环境变量覆盖配置文件
func applyEnvOverrides(cfg *Config) {
	envString(&cfg.Database.Host, "DB_HOST")
	envInt(&cfg.Database.Port, "DB_PORT")
	envString(&cfg.Database.Username, "DB_USER")
	envString(&cfg.Database.Password, "DB_PASSWORD")
	envString(&cfg.Database.Database, "DB_NAME")

	envString(&cfg.Server.Host, "SERVER_HOST")
	envInt(&cfg.Server.Port, "SERVER_PORT")
	envString(&cfg.Server.Mode, "SERVER_MODE")
	envInt(&cfg.Server.RequestTimeoutMinutes, "SERVER_TIMEOUT_MINUTES")

	envString(&cfg.JWT.Secret, "JWT_SECRET")
	envInt(&cfg.JWT.ExpireHours, "JWT_EXPIRE_HOURS")
	envInt(&cfg.JWT.RefreshExpireHours, "JWT_REFRESH_EXPIRE_HOURS")

	envString(&cfg.Storage.UploadDir, "UPLOAD_DIR")
	envInt64(&cfg.Storage.MaxUploadMB, "MAX_UPLOAD_MB")
	envList(&cfg.Storage.AllowedTypes, "ALLOWED_FILE_TYPES")

	envList(&cfg.Security.AllowedOrigins, "CORS_ORIGINS")
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func envList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		var out []string
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		*dst = out
	}
}

// setDefaults 设置默认值
func setDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeoutMinutes == 0 {
		cfg.Server.RequestTimeoutMinutes = 30
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "mysql"
	}
	if cfg.Database.Charset == "" {
		cfg.Database.Charset = "utf8mb4"
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 100
	}
	if cfg.JWT.ExpireHours == 0 {
		cfg.JWT.ExpireHours = 24
	}
	if cfg.JWT.RefreshExpireHours == 0 {
		cfg.JWT.RefreshExpireHours = 24 * 7
	}
	if cfg.Storage.UploadDir == "" {
		cfg.Storage.UploadDir = "uploads"
	}
	if cfg.Storage.MaxUploadMB == 0 {
		cfg.Storage.MaxUploadMB = 100
	}
	if len(cfg.Storage.AllowedTypes) == 0 {
		cfg.Storage.AllowedTypes = []string{
			"pdf", "doc", "docx", "txt",
			"jpg", "jpeg", "png", "gif",
			"mp4", "avi", "mov",
		}
	}
	if cfg.Security.MaxLoginAttempts == 0 {
		cfg.Security.MaxLoginAttempts = 5
	}
	if cfg.Security.LoginLockMinutes == 0 {
		cfg.Security.LoginLockMinutes = 15
	}
	if cfg.Security.IPMaxAttempts == 0 {
		cfg.Security.IPMaxAttempts = 20
	}
	if cfg.Security.IPLockMinutes == 0 {
		cfg.Security.IPLockMinutes = 30
	}
	if cfg.Security.PasswordMinLength == 0 {
		cfg.Security.PasswordMinLength = 6
	}
}

// validateSecurity 验证安全配置
func validateSecurity(cfg *Config) error {
	// 检查 JWT Secret
	if cfg.JWT.Secret == "" || cfg.JWT.Secret == "your-jwt-secret-key-change-in-production" {
		if cfg.Server.Mode == "release" {
			return fmt.Errorf("生产环境必须设置安全的 JWT Secret")
		}
		// 开发环境自动生成随机密钥
		cfg.JWT.Secret = generateRandomSecret(32)
		fmt.Println("[WARNING] 使用自动生成的 JWT Secret，请在生产环境配置安全的密钥")
	}

	// 检查 JWT Secret 长度
	if len(cfg.JWT.Secret) < 32 {
		if cfg.Server.Mode == "release" {
			return fmt.Errorf("JWT Secret 长度至少需要 32 个字符")
		}
		fmt.Println("[WARNING] JWT Secret 长度建议至少 32 个字符")
	}

	return nil
}

// generateRandomSecret 生成随机密钥
func generateRandomSecret(length int) string {
	bytes := make([]byte, length)
	rand.Read(bytes)
	return hex.EncodeToString(bytes)
}
