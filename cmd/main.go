package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"storage-server/internal/config"
	"storage-server/internal/handler"
	"storage-server/internal/model"
	"storage-server/internal/service"

	"github.com/gin-gonic/gin"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	// 命令行参数
	configPath := flag.String("config", "config.yaml", "配置文件路径")
	migrate := flag.Bool("migrate", false, "是否执行数据库迁移")
	initAdmin := flag.Bool("init-admin", false, "初始化平台管理员账号")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("加载配置失败: %v", err)
	}

	// 日志输出：配置了日志文件时启用轮转
	if cfg.Log.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   true,
		}
		log.SetOutput(io.MultiWriter(os.Stdout, rotator))
		gin.DefaultWriter = io.MultiWriter(os.Stdout, rotator)
	}

	// 设置 Gin 模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化数据库
	if err := model.InitDB(&cfg.Database); err != nil {
		log.Fatalf("初始化数据库失败: %v", err)
	}
	log.Println("数据库连接成功")

	// 自动执行数据库迁移（确保表结构是最新的）
	log.Println("检查数据库表结构...")
	if err := model.AutoMigrate(); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	// 数据库迁移（仅迁移模式）
	if *migrate {
		log.Println("数据库迁移完成")
		os.Exit(0)
	}

	// 初始化平台管理员账号
	if *initAdmin {
		createPlatformOwner()
		os.Exit(0)
	}

	// 创建存储目录
	os.MkdirAll(cfg.Storage.UploadDir, 0755)
	os.MkdirAll("logs", 0755)

	// 启动后台调度（提醒检查、通知清理）
	service.NewSchedulerService().Start()

	// 创建 Gin 引擎
	r := gin.New()

	// 设置路由
	handler.SetupRouter(r)

	// 启动服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.RequestTimeoutMinutes) * time.Minute,
		WriteTimeout:      time.Duration(cfg.Server.RequestTimeoutMinutes) * time.Minute,
		IdleTimeout:       120 * time.Second,
	}

	if cfg.Server.TLS.Enabled {
		log.Printf("服务器启动在 https://%s", addr)
		err = srv.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile)
	} else {
		log.Printf("服务器启动在 http://%s", addr)
		err = srv.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		log.Fatalf("服务器启动失败: %v", err)
	}
}

// createPlatformOwner 创建平台所有者账号。平台所有者不属于任何组织
func createPlatformOwner() {
	log.Println("初始化平台管理员账号...")

	adminEmail := "admin@example.com"
	adminPassword := "admin123"

	var existing model.User
	if err := model.DB.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		log.Println("平台管理员账号已存在")
		return
	}

	admin := model.User{
		Email:     adminEmail,
		FirstName: "Platform",
		LastName:  "Owner",
		Role:      model.RolePlatformOwner,
		Status:    model.UserStatusActive,
	}
	if err := admin.SetPassword(adminPassword); err != nil {
		log.Fatalf("密码加密失败: %v", err)
	}
	if err := model.DB.Create(&admin).Error; err != nil {
		log.Fatalf("创建平台管理员失败: %v", err)
	}

	log.Println("平台管理员账号创建成功!")
	log.Println("邮箱: admin@example.com")
	log.Println("密码: admin123")
	log.Println("")
	log.Println("【重要提示】请登录后立即修改默认密码！")
}
